package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Load reads the database at path. A missing or empty file yields (nil, nil) so the
// caller can start from a fresh screen.
func Load(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	snap, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return snap, nil
}

// Save encodes snap next to path and atomically renames it into place.
func Save(path string, snap *Snapshot) error {
	if path == "" {
		return errors.New("save: no path")
	}
	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := atomicWriteFile(dir, "."+filepath.Base(path)+".*.tmp", path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Backup copies an existing database to <path>.bak. A missing database is not an error.
func Backup(path string) error {
	if st, err := os.Stat(path); err != nil || st.Size() == 0 {
		return nil
	}
	return CopyFile(path, path+".bak")
}
