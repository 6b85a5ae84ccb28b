package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/apperror"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/storage"
)

const recipeImagePrefix = "recipes/images/"

var imageExtensions = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"jpg":  "jpg",
	"gif":  "gif",
	"webp": "webp",
}

// ImageService stores inline recipe images and cleans up replaced ones.
type ImageService struct {
	store storage.ImageStore
}

func NewImageService(store storage.ImageStore) *ImageService {
	return &ImageService{store: store}
}

// Resolve turns the image field of a recipe payload into a stored URL.
// A data URI is decoded and uploaded; anything else is kept as a URL.
func (s *ImageService) Resolve(ctx context.Context, image string) (string, error) {
	image = strings.TrimSpace(image)
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}
	if s == nil || s.store == nil {
		return "", apperror.ValidationFailed("image", "image uploads are not configured")
	}

	data, contentType, ext, err := DecodeDataURI(image)
	if err != nil {
		return "", err
	}

	key := recipeImagePrefix + uuid.New().String() + "." + ext
	url, err := s.store.Save(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store recipe image: %w", err)
	}

	l := applog.Ctx(ctx)
	l.Debug().Str("key", key).Int("bytes", len(data)).Msg("stored recipe image")
	return url, nil
}

// Discard removes an image previously stored by Resolve. Foreign URLs and
// storage failures are ignored; the recipe row is already consistent.
func (s *ImageService) Discard(ctx context.Context, url string) {
	if s == nil || s.store == nil || url == "" {
		return
	}
	key, ok := s.store.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		l := applog.Ctx(ctx)
		l.Warn().Err(err).Str("key", key).Msg("failed to delete recipe image")
	}
}

// DecodeDataURI parses "data:image/<ext>;base64,<payload>".
func DecodeDataURI(uri string) (data []byte, contentType, ext string, err error) {
	header, payload, found := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !found {
		return nil, "", "", apperror.ValidationFailed("image", "malformed data URI")
	}

	mediaType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return nil, "", "", apperror.ValidationFailed("image", "image must be base64 encoded")
	}

	kind, sub, _ := strings.Cut(mediaType, "/")
	ext, ok := imageExtensions[strings.ToLower(sub)]
	if kind != "image" || !ok {
		return nil, "", "", apperror.ValidationFailed("image", fmt.Sprintf("unsupported image type %q", mediaType))
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", "", apperror.ValidationFailed("image", "invalid base64 image payload")
	}
	if len(data) == 0 {
		return nil, "", "", apperror.ValidationFailed("image", "image is empty")
	}
	return data, mediaType, ext, nil
}
