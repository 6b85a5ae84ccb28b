package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
)

func TestLocalStoreSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(config.LocalStorage{BasePath: dir, BaseURL: "/media/"})
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "recipes/images/a.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/images/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "recipes", "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	key, ok := store.KeyFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "recipes/images/a.png", key)

	require.NoError(t, store.Delete(context.Background(), key))
	_, err = os.Stat(filepath.Join(dir, "recipes", "images", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(context.Background(), key))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(config.LocalStorage{BasePath: t.TempDir(), BaseURL: "/media"})
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../escape.png", strings.NewReader("x"), 1, "image/png")
	assert.Error(t, err)
}

func TestLocalStoreKeyFromForeignURL(t *testing.T) {
	store, err := NewLocalStore(config.LocalStorage{BasePath: t.TempDir(), BaseURL: "/media"})
	require.NoError(t, err)

	_, ok := store.KeyFromURL("https://cdn.example.com/a.png")
	assert.False(t, ok)
}

func TestObjectBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.S3Storage
		want string
	}{
		{"public url wins", config.S3Storage{PublicURL: "https://cdn.example.com/", Bucket: "b", Endpoint: "http://minio:9000"}, "https://cdn.example.com"},
		{"minio path style", config.S3Storage{Endpoint: "http://minio:9000", Bucket: "images", UsePathStyle: true}, "http://minio:9000/images"},
		{"aws virtual host", config.S3Storage{Bucket: "images", Region: "eu-west-1"}, "https://images.s3.eu-west-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, objectBaseURL(tt.cfg))
		})
	}
}

func TestNewS3StoreKeyFromURL(t *testing.T) {
	store, err := NewS3Store(context.Background(), config.S3Storage{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		Bucket:          "images",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	key, ok := store.KeyFromURL("http://localhost:9000/images/recipes/images/x.jpg")
	require.True(t, ok)
	assert.Equal(t, "recipes/images/x.jpg", key)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
