package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/folio/internal/apperr"
	"gorm.io/gorm"
)

var Validate = validator.New()

func init() {
	// report field errors under the names clients send
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
}

// Checker is implemented by models with rules the struct tags cannot express.
type Checker interface {
	Check() map[string]string
}

// ValidateStruct runs the tag rules and Check, returning an apperr validation
// error with one message per offending field.
func ValidateStruct(v any) error {
	fields := map[string]string{}
	if err := Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperr.Internal("validate", err)
		}
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; !seen {
				fields[fe.Field()] = fieldMessage(fe)
			}
		}
	}
	if c, ok := v.(Checker); ok {
		for k, msg := range c.Check() {
			if _, seen := fields[k]; !seen {
				fields[k] = msg
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperr.Validation("validation failed", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url", "http_url":
		return "Enter a valid URL."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "oneof":
		return "Select a valid choice."
	case "len":
		return fmt.Sprintf("Ensure this value has exactly %s characters.", fe.Param())
	case "eqfield":
		return "The two values do not match."
	default:
		return "Enter a valid value."
	}
}

// conn returns tx when the caller is inside a transaction, otherwise the
// repository's own handle.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// IsDuplicate reports unique-index violations from either store.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what)
	}
	return err
}
