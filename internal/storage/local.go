package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// UploadStore persists uploaded files and returns a relative reference
// suitable for storing on a document.
type UploadStore interface {
	Save(fh *multipart.FileHeader) (string, error)
}

type localStore struct {
	dir string
}

// NewLocalStore builds a store writing into the given static directory.
// References come back as /uploads/<name>.
func NewLocalStore(dir string) (UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path.Join("/uploads", name), nil
}
