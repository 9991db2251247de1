package templates

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// DefaultExtension marks template files inside a library.
const DefaultExtension = ".txt"

// Library serves template sources from an fs.FS and caches them by path.
// It is safe to share between builders.
type Library struct {
	fsys      fs.FS
	extension string

	mu      sync.RWMutex
	sources map[string]Source
}

type LibraryOption func(*Library)

func WithExtension(ext string) LibraryOption {
	return func(l *Library) {
		l.extension = ext
	}
}

func NewLibrary(fsys fs.FS, opts ...LibraryOption) *Library {
	l := &Library{
		fsys:      fsys,
		extension: DefaultExtension,
		sources:   make(map[string]Source),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Get returns the source stored at p, reading it on first use.
func (l *Library) Get(p string) (Source, error) {
	p = path.Clean(p)

	l.mu.RLock()
	if src, ok := l.sources[p]; ok {
		l.mu.RUnlock()
		return src, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if src, ok := l.sources[p]; ok {
		return src, nil
	}

	content, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", p, err)
	}

	src := NewSource(NameFromPath(p), string(content))
	l.sources[p] = src
	return src, nil
}

// List returns the paths of every template file in the library, sorted.
func (l *Library) List() ([]string, error) {
	var paths []string
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, l.extension) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (l *Library) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sources = make(map[string]Source)
}
