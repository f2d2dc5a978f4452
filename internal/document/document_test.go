package document

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
		errType   error
	}{
		// Valid paths
		{"simple file", "config.json", false, nil},
		{"file in subdirectory", "conf/app.json", false, nil},
		{"absolute path", "/tmp/app.json", false, nil},
		{"hidden file", ".settings.json", false, nil},
		{"dots in name", "app.prod.json", false, nil},

		// Wrong extension
		{"no extension", "config", true, ErrNotJSON},
		{"yaml", "config.yaml", true, ErrNotJSON},
		{"uppercase extension", "config.JSON", true, ErrNotJSON},
		{"json in the middle", "config.json.bak", true, ErrNotJSON},
		{"trailing dot", "config.json.", true, ErrNotJSON},

		// Empty path
		{"empty path", "", true, ErrEmptyPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)

			if tt.shouldErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got none", tt.input)
					return
				}
				if !errors.Is(err, tt.errType) {
					t.Errorf("Expected error type %v, got %v", tt.errType, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for input %q: %v", tt.input, err)
			}
		})
	}
}

func TestOpen_RejectsNonJSON(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "notes.txt")); !errors.Is(err, ErrNotJSON) {
		t.Errorf("Expected ErrNotJSON, got %v", err)
	}
}

func TestReadWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open document: %v", err)
	}
	defer doc.Close()

	if doc.Path() != path {
		t.Errorf("Path mismatch: got %s, want %s", doc.Path(), path)
	}

	// Missing file
	if _, err := doc.Read(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// Create
	if err := doc.Write([]byte(`{"a": 1}`)); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	data, err := doc.Read()
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if string(data) != `{"a": 1}` {
		t.Errorf("Content mismatch: got %q", data)
	}

	// Overwrite
	if err := doc.Write([]byte(`{"a": 2}`)); err != nil {
		t.Fatalf("Failed to overwrite: %v", err)
	}
	data, _ = doc.Read()
	if string(data) != `{"a": 2}` {
		t.Errorf("Content mismatch after overwrite: got %q", data)
	}

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list directory: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
}

func TestWrite_PreservesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix permissions not supported on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "shared.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if err := os.Chmod(path, 0640); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open document: %v", err)
	}
	defer doc.Close()

	if err := doc.Write([]byte(`{"x": 1}`)); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat: %v", err)
	}
	if info.Mode().Perm() != 0640 {
		t.Errorf("Permissions not preserved: got %o, want 640", info.Mode().Perm())
	}
}

func TestWrite_NewFileIsPrivate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix permissions not supported on Windows")
	}

	path := filepath.Join(t.TempDir(), "new.json")
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open document: %v", err)
	}
	defer doc.Close()

	if err := doc.Write([]byte(`[]`)); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat: %v", err)
	}
	if info.Mode().Perm() != FilePermSecure {
		t.Errorf("Expected %o, got %o", FilePermSecure, info.Mode().Perm())
	}
}

func TestRead_Directory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "folder.json"), 0700); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	doc, err := Open(filepath.Join(dir, "folder.json"))
	if err != nil {
		t.Fatalf("Failed to open document: %v", err)
	}
	defer doc.Close()

	if _, err := doc.Read(); !errors.Is(err, ErrIsDirectory) {
		t.Errorf("Expected ErrIsDirectory, got %v", err)
	}
	if err := doc.Write([]byte(`{}`)); !errors.Is(err, ErrIsDirectory) {
		t.Errorf("Expected ErrIsDirectory on write, got %v", err)
	}
}

func TestHash(t *testing.T) {
	a := Hash([]byte("same"))
	if a != Hash([]byte("same")) {
		t.Error("Hash should be deterministic")
	}
	if a == Hash([]byte("other")) {
		t.Error("Different content should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(a))
	}
}
