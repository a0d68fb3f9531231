package fs

import (
	"os"
	"path/filepath"
	"time"
)

// MockFileSystem is an in-memory implementation of FileSystemAPI for
// tests. Error injection hooks override the corresponding call when set.
type MockFileSystem struct {
	files map[string][]byte
	dirs  map[string]bool

	StatErr  error
	MkdirErr error
	WriteErr error
}

// NewMockFileSystem creates a new mock file system
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (fs *MockFileSystem) ReadFile(filename string) ([]byte, error) {
	if content, exists := fs.files[filename]; exists {
		return content, nil
	}
	return nil, os.ErrNotExist
}

func (fs *MockFileSystem) WriteFile(filename string, data []byte, perm os.FileMode) error {
	if fs.WriteErr != nil {
		return fs.WriteErr
	}
	fs.files[filename] = data
	return nil
}

func (fs *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if fs.MkdirErr != nil {
		return fs.MkdirErr
	}
	// MkdirAll creates every intermediate directory.
	for p := path; p != "/" && p != "."; p = filepath.Dir(p) {
		fs.dirs[p] = true
	}
	return nil
}

func (fs *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if fs.StatErr != nil {
		return nil, fs.StatErr
	}
	if content, exists := fs.files[name]; exists {
		return &mockFileInfo{name: filepath.Base(name), size: int64(len(content))}, nil
	}
	if fs.dirs[name] {
		return &mockFileInfo{name: filepath.Base(name), isDir: true}, nil
	}
	return nil, os.ErrNotExist
}

func (fs *MockFileSystem) Remove(name string) error {
	if _, exists := fs.files[name]; exists {
		delete(fs.files, name)
		return nil
	}
	if fs.dirs[name] {
		delete(fs.dirs, name)
		return nil
	}
	return os.ErrNotExist
}

func (fs *MockFileSystem) Abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	return "/" + path, nil
}

// FileContent returns the stored content of a file, for assertions.
func (fs *MockFileSystem) FileContent(name string) ([]byte, bool) {
	content, exists := fs.files[name]
	return content, exists
}

// HasDir reports whether a directory was created, for assertions.
func (fs *MockFileSystem) HasDir(path string) bool {
	return fs.dirs[path]
}

type mockFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) Mode() os.FileMode  { return 0644 }
func (fi *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }
