package testing

import (
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/cpcf/boilerplate/asset"
)

type Call struct {
	Op       string
	Path     string
	Contents string
}

// RecordingStore is an in-memory asset.Store that records every call made to
// it. Failures can be injected per operation.
type RecordingStore struct {
	mu        sync.Mutex
	kinds     map[string]asset.Kind
	files     map[string]string
	calls     []Call
	refreshes int

	FailLookup error
	FailCreate error
	FailWrite  error
}

func NewRecordingStore() *RecordingStore {
	return &RecordingStore{
		kinds: make(map[string]asset.Kind),
		files: make(map[string]string),
	}
}

func (s *RecordingStore) AddDir(p string) *RecordingStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addDir(path.Clean(p))
	return s
}

func (s *RecordingStore) AddFile(p, contents string) *RecordingStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = path.Clean(p)
	s.addDir(path.Dir(p))
	s.kinds[p] = asset.File
	s.files[p] = contents
	return s
}

func (s *RecordingStore) addDir(p string) {
	for ; p != "." && p != "/"; p = path.Dir(p) {
		s.kinds[p] = asset.Directory
	}
}

func (s *RecordingStore) Lookup(p string) (asset.Kind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "lookup", Path: p})
	if s.FailLookup != nil {
		return asset.Absent, s.FailLookup
	}
	return s.kinds[path.Clean(p)], nil
}

func (s *RecordingStore) CreateDirectory(parent, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := path.Join(parent, name)
	s.calls = append(s.calls, Call{Op: "mkdir", Path: p})
	if s.FailCreate != nil {
		return s.FailCreate
	}
	if s.kinds[p] == asset.File {
		return fmt.Errorf("%s exists as a file", p)
	}
	s.addDir(p)
	return nil
}

func (s *RecordingStore) WriteTextFile(p, contents string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = path.Clean(p)
	s.calls = append(s.calls, Call{Op: "write", Path: p, Contents: contents})
	if s.FailWrite != nil {
		return s.FailWrite
	}
	if s.kinds[path.Dir(p)] != asset.Directory && path.Dir(p) != "." {
		return fmt.Errorf("parent of %s is not a directory", p)
	}
	s.kinds[p] = asset.File
	s.files[p] = contents
	return nil
}

func (s *RecordingStore) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "refresh"})
	s.refreshes++
}

func (s *RecordingStore) Kind(p string) asset.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kinds[path.Clean(p)]
}

func (s *RecordingStore) File(p string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contents, ok := s.files[path.Clean(p)]
	return contents, ok
}

// Directories lists every known directory, sorted.
func (s *RecordingStore) Directories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dirs []string
	for p, kind := range s.kinds {
		if kind == asset.Directory {
			dirs = append(dirs, p)
		}
	}
	sort.Strings(dirs)
	return dirs
}

func (s *RecordingStore) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Ops returns the operation names of the recorded calls, optionally filtered.
func (s *RecordingStore) Ops(only ...string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keep := make(map[string]bool, len(only))
	for _, op := range only {
		keep[op] = true
	}
	var ops []string
	for _, c := range s.calls {
		if len(keep) == 0 || keep[c.Op] {
			ops = append(ops, c.Op+" "+c.Path)
		}
	}
	return ops
}

func (s *RecordingStore) Refreshes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshes
}
