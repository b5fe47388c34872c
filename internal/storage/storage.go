// Package storage keeps uploaded files in a blob area. Only the returned key
// is persisted by callers.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/apperr"
)

type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns where a client can fetch key from.
	URL(ctx context.Context, key string) (string, error)
}

// Kind describes one class of upload and what it accepts.
type Kind struct {
	Name    string
	Field   string
	MaxSize int64
	Types   []string
}

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var (
	Avatar        = Kind{Name: "avatars", Field: "avatar", MaxSize: 5 << 20, Types: imageTypes}
	Resume        = Kind{Name: "resumes", Field: "resume", MaxSize: 10 << 20, Types: []string{"application/pdf"}}
	ProjectImage  = Kind{Name: "projects", Field: "thumbnail", MaxSize: 5 << 20, Types: imageTypes}
	FeaturedImage = Kind{Name: "projects", Field: "featured_image", MaxSize: 5 << 20, Types: imageTypes}
)

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Size     int64
	Body     io.ReadSeeker
}

// Save checks the upload against kind and stores it under
// <kind>/<owner>/<uuid><ext>, returning the key.
func Save(ctx context.Context, store Store, kind Kind, owner uuid.UUID, up Upload) (string, error) {
	if up.Body == nil || up.Size == 0 {
		return "", apperr.Field(kind.Field, "The submitted file is empty.")
	}
	if up.Size > kind.MaxSize {
		return "", apperr.Field(kind.Field, fmt.Sprintf("File too large. Maximum size is %d MB.", kind.MaxSize>>20))
	}

	mtype, err := mimetype.DetectReader(up.Body)
	if err != nil {
		return "", apperr.Internal("detect upload type", err)
	}
	if !slices.ContainsFunc(kind.Types, mtype.Is) {
		return "", apperr.Field(kind.Field, "Unsupported file type.")
	}
	if _, err := up.Body.Seek(0, io.SeekStart); err != nil {
		return "", apperr.Internal("rewind upload", err)
	}

	ext := mtype.Extension()
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	key := path.Join(kind.Name, owner.String(), uuid.NewString()+ext)

	if err := store.Put(ctx, key, up.Body, up.Size, mtype.String()); err != nil {
		return "", apperr.Upstream("failed to store file", err)
	}
	return key, nil
}

// CleanKey rejects keys that try to leave the blob area.
func CleanKey(key string) (string, bool) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" || key == "." || strings.HasPrefix(key, "..") {
		return "", false
	}
	return key, true
}
