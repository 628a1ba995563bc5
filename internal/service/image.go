package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/platefeed/backend/config"
)

// ImageStore persists a decoded recipe image and returns the URL it will
// be served from.
type ImageStore interface {
	Store(ctx context.Context, data []byte, ext string) (string, error)
}

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ParseRecipeImage decodes a submitted image: either a data URI
// ("data:image/png;base64,...") or bare base64, which is assumed PNG.
func ParseRecipeImage(encoded string) ([]byte, string, error) {
	ext := "png"
	if strings.HasPrefix(encoded, "data:") {
		meta, payload, found := strings.Cut(encoded, ";base64,")
		if !found {
			return nil, "", Validationf("image must be base64 encoded")
		}
		mime := strings.TrimPrefix(meta, "data:")
		mapped, ok := imageExtensions[mime]
		if !ok {
			return nil, "", Validationf("unsupported image type %q", mime)
		}
		ext = mapped
		encoded = payload
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", Validationf("image is not valid base64")
	}
	if len(data) == 0 {
		return nil, "", Validationf("image is empty")
	}
	return data, ext, nil
}

// LocalImageStore writes images under a media directory served from the
// static /media route.
type LocalImageStore struct {
	Dir string
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "recipes"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalImageStore{Dir: dir}, nil
}

func (s *LocalImageStore) Store(ctx context.Context, data []byte, ext string) (string, error) {
	name := fmt.Sprintf("recipes/%s.%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(s.Dir, filepath.FromSlash(name)), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return "/media/" + name, nil
}

// S3ImageStore uploads images to the configured bucket and returns the
// public object URL.
type S3ImageStore struct {
	s3cfg *config.S3Config
}

func NewS3ImageStore(s3cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3cfg: s3cfg}
}

func (s *S3ImageStore) Store(ctx context.Context, data []byte, ext string) (string, error) {
	key := fmt.Sprintf("recipes/%s.%s", uuid.New().String(), ext)
	contentType := "image/" + ext
	if ext == "jpg" {
		contentType = "image/jpeg"
	}

	_, err := s.s3cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3cfg.BucketName, key), nil
}
