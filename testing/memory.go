// Package testing provides in-memory fixtures for exercising templates and
// builders without touching the disk.
package testing

import (
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// MemoryFS is an fs.FS holding template files in memory. Parent directories
// are implied by file paths.
type MemoryFS struct {
	files map[string]string
	dirs  map[string]bool
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string]string),
		dirs:  map[string]bool{".": true},
	}
}

// NewTemplateFS builds a MemoryFS from path to content pairs.
func NewTemplateFS(files map[string]string) *MemoryFS {
	mfs := NewMemoryFS()
	for name, text := range files {
		mfs.Add(name, text)
	}
	return mfs
}

func (mfs *MemoryFS) Add(name, text string) *MemoryFS {
	name = path.Clean(name)
	mfs.files[name] = text
	for dir := path.Dir(name); !mfs.dirs[dir]; dir = path.Dir(dir) {
		mfs.dirs[dir] = true
	}
	return mfs
}

func (mfs *MemoryFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if text, ok := mfs.files[name]; ok {
		return &memoryFile{info: memoryInfo{name: path.Base(name), size: int64(len(text))}, r: strings.NewReader(text)}, nil
	}
	if mfs.dirs[name] {
		return &memoryDir{info: memoryInfo{name: path.Base(name), dir: true}, entries: mfs.entries(name)}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (mfs *MemoryFS) entries(dir string) []fs.DirEntry {
	var entries []fs.DirEntry
	for name, text := range mfs.files {
		if path.Dir(name) == dir {
			entries = append(entries, fs.FileInfoToDirEntry(memoryInfo{name: path.Base(name), size: int64(len(text))}))
		}
	}
	for name := range mfs.dirs {
		if name != "." && path.Dir(name) == dir {
			entries = append(entries, fs.FileInfoToDirEntry(memoryInfo{name: path.Base(name), dir: true}))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries
}

type memoryInfo struct {
	name string
	size int64
	dir  bool
}

func (i memoryInfo) Name() string       { return i.name }
func (i memoryInfo) Size() int64        { return i.size }
func (i memoryInfo) ModTime() time.Time { return time.Time{} }
func (i memoryInfo) IsDir() bool        { return i.dir }
func (i memoryInfo) Sys() any           { return nil }

func (i memoryInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

type memoryFile struct {
	info memoryInfo
	r    *strings.Reader
}

func (f *memoryFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *memoryFile) Read(b []byte) (int, error) { return f.r.Read(b) }
func (f *memoryFile) Close() error               { return nil }

type memoryDir struct {
	info    memoryInfo
	entries []fs.DirEntry
	offset  int
}

func (d *memoryDir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *memoryDir) Close() error               { return nil }

func (d *memoryDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}

func (d *memoryDir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return rest[:n], nil
}
