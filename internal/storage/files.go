package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore keeps uploaded documents on local disk, one directory per
// project. Stored names are random so client filenames never touch the
// filesystem.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Save writes the file and returns its path relative to the store root
// along with the number of bytes written.
func (fs *FileStore) Save(projectID uuid.UUID, ext string, r io.Reader) (string, int64, error) {
	dir := filepath.Join(fs.root, projectID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create project directory: %w", err)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return filepath.Join(projectID.String(), name), size, nil
}

func (fs *FileStore) Open(storedPath string) (*os.File, error) {
	return os.Open(filepath.Join(fs.root, filepath.Clean(storedPath)))
}

func (fs *FileStore) Remove(storedPath string) error {
	err := os.Remove(filepath.Join(fs.root, filepath.Clean(storedPath)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveProject deletes every stored file for a project.
func (fs *FileStore) RemoveProject(projectID uuid.UUID) error {
	return os.RemoveAll(filepath.Join(fs.root, projectID.String()))
}
