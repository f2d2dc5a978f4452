package document

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	Extension      = ".json"
	FilePermSecure = 0600 // mode for documents that do not exist yet
)

var (
	ErrEmptyPath   = errors.New("empty path not allowed")
	ErrNotJSON     = errors.New("invalid file type, please provide a JSON file")
	ErrIsDirectory = errors.New("path is a directory")
	ErrNotFound    = errors.New("file not found")
)

// ValidatePath rejects empty paths and paths without a .json extension.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if filepath.Ext(path) != Extension {
		return fmt.Errorf("%w: %s", ErrNotJSON, path)
	}
	return nil
}

// Document is a single JSON file confined to its directory.
type Document struct {
	root *os.Root
	name string
	path string
}

// Open validates path and opens its parent directory as an os.Root.
// The file itself does not have to exist yet.
func Open(path string) (*Document, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	name := filepath.Base(absPath)
	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%w: %s", ErrNotJSON, path)
	}

	root, err := os.OpenRoot(filepath.Dir(absPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	return &Document{
		root: root,
		name: name,
		path: absPath,
	}, nil
}

// Close releases the directory handle.
func (d *Document) Close() error {
	if d.root != nil {
		return d.root.Close()
	}
	return nil
}

// Path returns the absolute path of the document.
func (d *Document) Path() string {
	return d.path
}

// Dir returns the absolute path of the directory holding the document.
func (d *Document) Dir() string {
	return filepath.Dir(d.path)
}

// Stat returns file info for the document.
func (d *Document) Stat() (os.FileInfo, error) {
	info, err := d.root.Stat(d.name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, d.path)
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, d.path)
	}
	return info, nil
}

// Read returns the document contents.
func (d *Document) Read() ([]byte, error) {
	if _, err := d.Stat(); err != nil {
		return nil, err
	}
	return d.root.ReadFile(d.name)
}

// Write replaces the document contents. An existing document keeps its
// permission bits; a new one is created with FilePermSecure.
func (d *Document) Write(data []byte) error {
	perm := fs.FileMode(FilePermSecure)
	info, err := d.Stat()
	switch {
	case err == nil:
		perm = info.Mode().Perm()
	case !errors.Is(err, ErrNotFound):
		return err
	}

	tmpName, err := tempName(d.name)
	if err != nil {
		return err
	}

	if err := d.root.WriteFile(tmpName, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	// WriteFile is subject to umask
	if err := d.root.Chmod(tmpName, perm); err != nil {
		_ = d.root.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", d.path, err)
	}
	if err := d.root.Rename(tmpName, d.name); err != nil {
		_ = d.root.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	return nil
}

// Hash returns the hex SHA-256 of data, used to detect changes between runs.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func tempName(name string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate temp name: %w", err)
	}
	return "." + name + ".tmp-" + hex.EncodeToString(b), nil
}
