// Package imgstore stores rendered images under the names given by their
// content keys. Entries are never rewritten or evicted: a name that exists is
// a cache hit.
package imgstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// ErrIsDir is returned when an image name points at a directory.
var ErrIsDir = errors.New("is a directory")

// FS is the filesystem the store writes to.
type FS interface {
	fs.StatFS
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
}

// Store is a content-addressed image store.
type Store struct {
	fsys FS
}

// New returns a store backed by fsys.
func New(fsys FS) *Store {
	return &Store{fsys: fsys}
}

// OS returns a store on the local filesystem. Names are used as given, so
// relative names resolve against the working directory.
func OS() *Store {
	return New(osFS{})
}

// Exists reports whether name holds an image. An empty file is left by a
// failed render and does not count.
func (s *Store) Exists(name string) (bool, error) {
	size, err := s.Size(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return size > 0, nil
}

// Size returns the size of the image stored under name.
func (s *Store) Size(name string) (int64, error) {
	info, err := s.fsys.Stat(name)
	if err != nil {
		return 0, err
	}

	if info.IsDir() {
		return 0, fmt.Errorf("%s: %w", name, ErrIsDir)
	}

	return info.Size(), nil
}

// Write stores data under name, creating the parent directory when needed.
func (s *Store) Write(name string, data []byte) error {
	if dir := filepath.Dir(name); dir != "." && dir != "/" {
		if err := s.fsys.MkdirAll(dir, dirMode); err != nil {
			return err
		}
	}

	return s.fsys.WriteFile(name, data, fileMode)
}

type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (osFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFile writes to a temporary file in the target directory and renames it
// into place, so a reader never sees a partial image.
func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return err
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()

		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), name)
}
