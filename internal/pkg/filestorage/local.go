package filestorage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/eventsphere/internal/pkg/logger"
)

const blobExt = ".json"

// LocalStorage keeps blobs as files in one directory
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage rooted at basePath, creating
// the directory when needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid blob name %q", name)
	}
	return filepath.Join(ls.basePath, name+blobExt), nil
}

// Read returns the blob content
func (ls *LocalStorage) Read(name string) ([]byte, error) {
	p, err := ls.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

// Write replaces the blob through a temporary file and a rename so readers
// never observe a partial blob
func (ls *LocalStorage) Write(name string, data []byte) error {
	p, err := ls.path(name)
	if err != nil {
		return err
	}

	tmp := filepath.Join(ls.basePath, "."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", tmp).Msg("Failed to write temporary blob")
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		logger.Error().Err(err).Str("path", p).Msg("Failed to replace blob")
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	return nil
}

// Delete removes the blob file
func (ls *LocalStorage) Delete(name string) error {
	p, err := ls.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}
	return nil
}

// List returns blob names sorted alphabetically
func (ls *LocalStorage) List() ([]string, error) {
	entries, err := os.ReadDir(ls.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, blobExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(n, blobExt))
	}
	sort.Strings(names)
	return names, nil
}
