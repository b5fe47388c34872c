package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads blobs as Cloudinary assets. The key without its
// extension is the asset's public id.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary, folder string) *CloudinaryStore {
	return &CloudinaryStore{cld: cld, folder: folder}
}

func (s *CloudinaryStore) publicID(key string) string {
	id := strings.TrimSuffix(key, path.Ext(key))
	if s.folder != "" {
		id = s.folder + "/" + id
	}
	return id
}

func resourceType(key string) string {
	if strings.EqualFold(path.Ext(key), ".pdf") {
		return "raw"
	}
	return "image"
}

func (s *CloudinaryStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:       s.publicID(key),
		ResourceType:   resourceType(key),
		Overwrite:      api.Bool(true),
		UniqueFilename: api.Bool(false),
		Tags:           []string{"folio"},
	})
	if err != nil {
		return fmt.Errorf("cloudinary upload %s: %w", key, err)
	}
	return nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, key string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     s.publicID(key),
		ResourceType: resourceType(key),
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", key, err)
	}
	return nil
}

func (s *CloudinaryStore) URL(ctx context.Context, key string) (string, error) {
	if resourceType(key) == "raw" {
		asset, err := s.cld.File(s.publicID(key) + path.Ext(key))
		if err != nil {
			return "", err
		}
		return asset.String()
	}
	asset, err := s.cld.Image(s.publicID(key))
	if err != nil {
		return "", err
	}
	return asset.String()
}
