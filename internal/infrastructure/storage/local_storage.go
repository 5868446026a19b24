package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/funtube/funtube-server/internal/config"
	"github.com/funtube/funtube-server/internal/domain/video"
)

// LocalStorage stores media assets on the local filesystem and serves them
// through the HTTP server's static route.
type LocalStorage struct {
	basePath string
	baseURL  string
	log      zerolog.Logger
}

// NewLocalStorage creates the local filesystem backend, creating the base
// directory if needed.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath := strings.TrimSpace(cfg.LocalStoragePath)
	if basePath == "" {
		return nil, fmt.Errorf("LOCAL_STORAGE_PATH must not be empty")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory: %w", err)
	}

	storage := &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(strings.TrimSpace(cfg.LocalStorageBaseURL), "/"),
		log:      logger,
	}

	logger.Info().
		Str("path", basePath).
		Str("base_url", storage.baseURL).
		Msg("local storage initialized")

	return storage, nil
}

// Upload writes the asset under a fresh key and returns its serving URL.
func (l *LocalStorage) Upload(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (*video.StoredObject, error) {
	key := objectKey(folder, filename)

	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, body)
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	l.log.Debug().
		Str("key", key).
		Int64("bytes", written).
		Msg("file uploaded to local storage")

	return &video.StoredObject{Key: key, URL: l.baseURL + "/" + key}, nil
}

// Delete removes the file behind a URL this backend produced. Unknown URLs
// and already-deleted files are not errors.
func (l *LocalStorage) Delete(ctx context.Context, url string) error {
	key := l.keyFromURL(url)
	if key == "" {
		return nil
	}

	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Health checks that the base directory is still writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	info, err := os.Stat(l.basePath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("local storage path %s is not a directory", l.basePath)
	}
	return nil
}

func (l *LocalStorage) keyFromURL(url string) string {
	marker := l.baseURL + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	key := url[idx+len(marker):]
	// Reject keys that try to escape the base directory.
	if key == "" || strings.Contains(key, "..") {
		return ""
	}
	return key
}
