// Package index keeps a manifest of the files and folders under a project
// root so that tooling can observe what a scaffolding session produced.
package index

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// DefaultFile is the manifest location relative to the indexed root.
const DefaultFile = ".boilerplate.index.json"

type Entry struct {
	Path    string    `json:"path"`
	Dir     bool      `json:"dir,omitempty"`
	Size    int64     `json:"size,omitempty"`
	Hash    string    `json:"hash,omitempty"`
	ModTime time.Time `json:"mod_time"`
}

type Manifest struct {
	Version   string           `json:"version"`
	Session   string           `json:"session"`
	Refreshed time.Time        `json:"refreshed"`
	Root      string           `json:"root"`
	Entries   map[string]Entry `json:"entries"`
}

type Manager struct {
	fs           afero.Fs
	root         string
	manifestPath string
	session      string
}

type Option func(*Manager)

func WithManifestPath(p string) Option {
	return func(m *Manager) {
		m.manifestPath = p
	}
}

// NewManager indexes everything below root on fs. Each manager gets its own
// session id, stamped on every manifest it saves.
func NewManager(fs afero.Fs, root string, opts ...Option) *Manager {
	m := &Manager{
		fs:           fs,
		root:         root,
		manifestPath: DefaultFile,
		session:      uuid.NewString(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Session() string {
	return m.session
}

func (m *Manager) Load() (*Manifest, error) {
	data, err := afero.ReadFile(m.fs, m.manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return m.emptyManifest(), nil
		}
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	if manifest.Entries == nil {
		manifest.Entries = make(map[string]Entry)
	}
	return &manifest, nil
}

func (m *Manager) Save(manifest *Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	if dir := filepath.Dir(m.manifestPath); dir != "." {
		if err := m.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	tmpPath := m.manifestPath + ".tmp"
	if err := afero.WriteFile(m.fs, tmpPath, data, 0o644); err != nil {
		m.fs.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary index: %w", err)
	}
	if err := m.fs.Rename(tmpPath, m.manifestPath); err != nil {
		m.fs.Remove(tmpPath)
		return fmt.Errorf("failed to move index: %w", err)
	}
	return nil
}

// Refresh rebuilds the manifest from the current contents of the root and
// saves it.
func (m *Manager) Refresh() (*Manifest, error) {
	manifest := m.emptyManifest()

	exists, err := afero.DirExists(m.fs, m.root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat index root: %w", err)
	}
	if exists {
		err = afero.Walk(m.fs, m.root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if p == m.root || p == m.manifestPath || p == m.manifestPath+".tmp" {
				return nil
			}

			entry := Entry{Path: filepath.ToSlash(p), Dir: info.IsDir(), ModTime: info.ModTime()}
			if !info.IsDir() {
				hash, err := m.hashFile(p)
				if err != nil {
					return fmt.Errorf("failed to hash %s: %w", p, err)
				}
				entry.Size = info.Size()
				entry.Hash = hash
			}
			manifest.Entries[entry.Path] = entry
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", m.root, err)
		}
	}

	if err := m.Save(manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manager) Get(manifest *Manifest, p string) (Entry, bool) {
	entry, ok := manifest.Entries[filepath.ToSlash(p)]
	return entry, ok
}

// List returns the manifest entries sorted by path.
func (m *Manager) List(manifest *Manifest) []Entry {
	entries := make([]Entry, 0, len(manifest.Entries))
	for _, entry := range manifest.Entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries
}

// HasChanged reports whether the file at p differs from its indexed state.
// Unindexed and deleted paths count as changed.
func (m *Manager) HasChanged(manifest *Manifest, p string) (bool, error) {
	entry, ok := m.Get(manifest, p)
	if !ok {
		return true, nil
	}

	info, err := m.fs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	if info.IsDir() != entry.Dir {
		return true, nil
	}
	if entry.Dir {
		return false, nil
	}
	if info.Size() != entry.Size {
		return true, nil
	}

	hash, err := m.hashFile(p)
	if err != nil {
		return false, fmt.Errorf("failed to hash %s: %w", p, err)
	}
	return hash != entry.Hash, nil
}

func (m *Manager) emptyManifest() *Manifest {
	return &Manifest{
		Version:   "1.0",
		Session:   m.session,
		Refreshed: time.Now(),
		Root:      m.root,
		Entries:   make(map[string]Entry),
	}
}

func (m *Manager) hashFile(p string) (string, error) {
	file, err := m.fs.Open(p)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
