// Package write puts generated text on an afero filesystem.
package write

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

type Writer interface {
	Write(path string, content []byte, options Options) error
	NeedsWrite(path string, content []byte) (bool, error)
	Exists(path string) (bool, error)
}

type Options struct {
	CreateDirs bool
	Backup     bool
	BackupDir  string
	Overwrite  bool
	Atomic     bool
}

// DefaultOptions overwrite in place without creating parents.
func DefaultOptions() Options {
	return Options{Overwrite: true}
}

type FSWriter struct {
	fs afero.Fs
}

func NewFSWriter(fs afero.Fs) *FSWriter {
	return &FSWriter{fs: fs}
}

func (w *FSWriter) Write(path string, content []byte, options Options) error {
	if options.CreateDirs {
		if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}
	}

	if !options.Overwrite {
		if _, err := w.fs.Stat(path); err == nil {
			return fmt.Errorf("file already exists and overwrite is false: %s", path)
		}
	}

	if options.Backup {
		if err := w.backup(path, options.BackupDir); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	if options.Atomic {
		return w.atomicWrite(path, content)
	}
	return afero.WriteFile(w.fs, path, content, 0o644)
}

func (w *FSWriter) NeedsWrite(path string, content []byte) (bool, error) {
	existing, err := afero.ReadFile(w.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return !bytes.Equal(existing, content), nil
}

func (w *FSWriter) Exists(path string) (bool, error) {
	return afero.Exists(w.fs, path)
}

func (w *FSWriter) backup(path, backupDir string) error {
	existing, err := afero.ReadFile(w.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if backupDir == "" {
		backupDir = filepath.Dir(path)
	}
	if err := w.fs.MkdirAll(backupDir, 0o755); err != nil {
		return err
	}

	return afero.WriteFile(w.fs, filepath.Join(backupDir, filepath.Base(path)+".bak"), existing, 0o644)
}

func (w *FSWriter) atomicWrite(path string, content []byte) error {
	tempPath := path + ".tmp"

	if err := afero.WriteFile(w.fs, tempPath, content, 0o644); err != nil {
		w.fs.Remove(tempPath)
		return err
	}

	if err := w.fs.Rename(tempPath, path); err != nil {
		w.fs.Remove(tempPath)
		return err
	}
	return nil
}
