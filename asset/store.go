// Package asset is the boundary between the builder and the host environment
// that stores generated files and keeps an index of them.
package asset

import (
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/spf13/afero"

	"github.com/cpcf/boilerplate/index"
	"github.com/cpcf/boilerplate/write"
)

type Kind int

const (
	Absent Kind = iota
	File
	Directory
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Directory:
		return "directory"
	default:
		return "absent"
	}
}

// Store is the host collaborator. Paths are slash separated and relative to
// the store's own root.
type Store interface {
	Lookup(p string) (Kind, error)
	CreateDirectory(parent, name string) error
	WriteTextFile(p, contents string) error
	// Refresh asks the host to re-index; failures are the host's concern.
	Refresh()
}

// FSStore implements Store on an afero filesystem.
type FSStore struct {
	fs      afero.Fs
	logger  *slog.Logger
	writer  write.Writer
	options write.Options
	index   *index.Manager
}

type Option func(*FSStore)

func WithLogger(logger *slog.Logger) Option {
	return func(s *FSStore) {
		s.logger = logger
	}
}

func WithWriteOptions(options write.Options) Option {
	return func(s *FSStore) {
		s.options = options
	}
}

// WithWriter replaces the writer built on the store's filesystem.
func WithWriter(w write.Writer) Option {
	return func(s *FSStore) {
		s.writer = w
	}
}

// WithIndex makes Refresh rebuild the given manifest.
func WithIndex(m *index.Manager) Option {
	return func(s *FSStore) {
		s.index = m
	}
}

func NewFSStore(fs afero.Fs, opts ...Option) *FSStore {
	s := &FSStore{
		fs:      fs,
		logger:  slog.Default(),
		writer:  write.NewFSWriter(fs),
		options: write.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewProjectStore roots an FSStore at dir on the OS filesystem.
func NewProjectStore(dir string, opts ...Option) *FSStore {
	return NewFSStore(afero.NewBasePathFs(afero.NewOsFs(), dir), opts...)
}

func (s *FSStore) Fs() afero.Fs {
	return s.fs
}

func (s *FSStore) Lookup(p string) (Kind, error) {
	info, err := s.fs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Absent, nil
		}
		return Absent, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	if info.IsDir() {
		return Directory, nil
	}
	return File, nil
}

func (s *FSStore) CreateDirectory(parent, name string) error {
	target := path.Join(parent, name)
	if err := s.fs.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", target, err)
	}
	return nil
}

func (s *FSStore) WriteTextFile(p, contents string) error {
	if err := s.writer.Write(p, []byte(contents), s.options); err != nil {
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	s.logger.Debug("wrote file", "path", p, "bytes", len(contents))
	return nil
}

func (s *FSStore) Refresh() {
	if s.index == nil {
		return
	}
	manifest, err := s.index.Refresh()
	if err != nil {
		s.logger.Warn("index refresh failed", "error", err)
		return
	}
	s.logger.Debug("index refreshed", "entries", len(manifest.Entries), "session", manifest.Session)
}
