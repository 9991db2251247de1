package write

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestDryRunWriterRecordsChanges(t *testing.T) {
	base := afero.NewMemMapFs()
	afero.WriteFile(base, "same.txt", []byte("same"), 0o644)
	afero.WriteFile(base, "old.txt", []byte("old"), 0o644)

	overlay := afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(base), afero.NewMemMapFs())
	w := NewDryRunWriter(NewFSWriter(overlay))

	opts := Options{CreateDirs: true, Overwrite: true}
	if err := w.Write("new/file.txt", []byte("brand new"), opts); err != nil {
		t.Fatal(err)
	}
	if err := w.Write("old.txt", []byte("changed"), opts); err != nil {
		t.Fatal(err)
	}
	if err := w.Write("same.txt", []byte("same"), opts); err != nil {
		t.Fatal(err)
	}

	want := []Change{
		{Path: "new/file.txt", Action: "create", Size: 9},
		{Path: "old.txt", Action: "update", Size: 7},
		{Path: "same.txt", Action: "unchanged", Size: 4},
	}
	if diff := cmp.Diff(want, w.GetChanges()); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}

	got, _ := afero.ReadFile(base, "old.txt")
	if string(got) != "old" {
		t.Errorf("base filesystem modified: %q", got)
	}
	if exists, _ := afero.Exists(base, "new/file.txt"); exists {
		t.Error("new file leaked into base filesystem")
	}

	w.Reset()
	if len(w.GetChanges()) != 0 {
		t.Error("Reset should clear changes")
	}
}
