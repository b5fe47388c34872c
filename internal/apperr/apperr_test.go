package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading project: %w", NotFound("project"))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindConflict))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:  http.StatusBadRequest,
		KindNotFound:    http.StatusNotFound,
		KindAuthFailure: http.StatusUnauthorized,
		KindConflict:    http.StatusConflict,
		KindUpstream:    http.StatusBadGateway,
		KindInternal:    http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, Status(kind), string(kind))
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("unique constraint")
	err := Conflict("email already registered", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "email already registered: unique constraint", err.Error())
	assert.Equal(t, "invalid credentials", AuthFailure().Error())
}
