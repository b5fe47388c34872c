package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/storage"
)

// Media serves blobs of the local storage backend.
func Media(store *storage.LocalStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := store.Path(c.Param("path"))
		if !ok {
			respondError(c, apperr.NotFound("file"))
			return
		}
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				respondError(c, apperr.Internal("stat media", err))
				return
			}
			respondError(c, apperr.NotFound("file"))
			return
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.File(p)
	}
}

// MediaRedirect sends the client to wherever the remote backend serves key.
func MediaRedirect(store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := storage.CleanKey(c.Param("path"))
		if !ok {
			respondError(c, apperr.NotFound("file"))
			return
		}
		url, err := store.URL(c.Request.Context(), key)
		if err != nil {
			respondError(c, apperr.Upstream("failed to resolve file", err))
			return
		}
		c.Redirect(http.StatusFound, url)
	}
}
