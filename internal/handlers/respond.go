package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/middleware"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/services"
	"github.com/joshua-takyi/folio/internal/storage"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// respondError writes err in the ApiResponse envelope. Internal and upstream
// failures are attached to the context so ErrorHandler logs the cause; the
// client only sees a generic message and the request id.
func respondError(c *gin.Context, err error) {
	requestID, _ := c.Get(middleware.RequestIDKey)
	rid, _ := requestID.(string)

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal("unhandled", err)
	}
	status := apperr.Status(ae.Kind)

	resp := models.ApiResponse{Error: ae.Message, Fields: ae.Fields, RequestID: rid}
	switch ae.Kind {
	case apperr.KindInternal:
		_ = c.Error(err)
		resp.Error = "Internal server error"
	case apperr.KindUpstream:
		_ = c.Error(err)
	}
	c.JSON(status, resp)
}

func bindError(c *gin.Context, err error) {
	respondError(c, apperr.Validation("invalid request body: "+err.Error(), nil))
}

// pageFromQuery reads ?page=&limit=, falling back to sane defaults.
func pageFromQuery(c *gin.Context) services.Page {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return services.Page{Number: page, Limit: limit}
}

func paginated(c *gin.Context, data any, page services.Page, total int64) {
	c.JSON(http.StatusOK, models.PaginatedResponse(data, page.Number, page.Limit, int(total)))
}

// idParam parses a path id; a malformed id is reported as not found so the
// response does not depend on the id's shape.
func idParam(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.NotFound(what))
		return uuid.Nil, false
	}
	return id, true
}

// formUpload opens the multipart file field for storage.
func formUpload(c *gin.Context, field string) (storage.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return storage.Upload{}, nil, apperr.Field(field, "No file was submitted.")
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (storage.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return storage.Upload{}, nil, apperr.Internal("open upload", err)
	}
	return storage.Upload{Filename: fh.Filename, Size: fh.Size, Body: f}, func() { f.Close() }, nil
}

func principal(c *gin.Context) models.Principal {
	return middleware.Principal(c)
}
