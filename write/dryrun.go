package write

import "sync"

type Change struct {
	Path   string `json:"path"`
	Action string `json:"action"`
	Size   int    `json:"size"`
}

// DryRunWriter records what a write would do before passing it on to the
// wrapped writer, which is expected to target a throwaway filesystem.
type DryRunWriter struct {
	base Writer

	mu      sync.Mutex
	changes []Change
}

func NewDryRunWriter(base Writer) *DryRunWriter {
	return &DryRunWriter{base: base}
}

func (drw *DryRunWriter) Write(path string, content []byte, options Options) error {
	exists, err := drw.base.Exists(path)
	if err != nil {
		return err
	}
	needs, err := drw.base.NeedsWrite(path, content)
	if err != nil {
		return err
	}

	action := "create"
	switch {
	case exists && !needs:
		action = "unchanged"
	case exists:
		action = "update"
	}

	drw.mu.Lock()
	drw.changes = append(drw.changes, Change{Path: path, Action: action, Size: len(content)})
	drw.mu.Unlock()

	return drw.base.Write(path, content, options)
}

func (drw *DryRunWriter) Exists(path string) (bool, error) {
	return drw.base.Exists(path)
}

func (drw *DryRunWriter) NeedsWrite(path string, content []byte) (bool, error) {
	return drw.base.NeedsWrite(path, content)
}

func (drw *DryRunWriter) GetChanges() []Change {
	drw.mu.Lock()
	defer drw.mu.Unlock()
	return append([]Change(nil), drw.changes...)
}

func (drw *DryRunWriter) Reset() {
	drw.mu.Lock()
	defer drw.mu.Unlock()
	drw.changes = nil
}
