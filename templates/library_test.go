package templates

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestNameFromPath(t *testing.T) {
	tests := map[string]string{
		"Script.cs.txt":         "Script.cs",
		"tmpl/nested/Thing.ext": "Thing",
		"Plain":                 "Plain",
		".gitignore":            ".gitignore",
		"dir/Component.tsx.txt": "Component.tsx",
		"Makefile.txt":          "Makefile",
	}
	for in, want := range tests {
		if got := NameFromPath(in); got != want {
			t.Errorf("NameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPayloadExtension(t *testing.T) {
	tests := map[string]string{
		"Script.cs":     "cs",
		"Script.cs.txt": "cs.txt",
		"Script":        "",
	}
	for in, want := range tests {
		if got := PayloadExtension(in); got != want {
			t.Errorf("PayloadExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLibraryGet(t *testing.T) {
	fsys := fstest.MapFS{
		"scripts/Behaviour.cs.txt": {Data: []byte("class #SCRIPTNAME# {}")},
	}
	lib := NewLibrary(fsys)

	src, err := lib.Get("scripts/Behaviour.cs.txt")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if src.Name() != "Behaviour.cs" {
		t.Errorf("Name() = %q, want %q", src.Name(), "Behaviour.cs")
	}
	if src.Text() != "class #SCRIPTNAME# {}" {
		t.Errorf("Text() = %q", src.Text())
	}

	delete(fsys, "scripts/Behaviour.cs.txt")
	cached, err := lib.Get("./scripts/Behaviour.cs.txt")
	if err != nil {
		t.Fatalf("cached Get failed: %v", err)
	}
	if cached != src {
		t.Error("expected cached source to be returned")
	}

	lib.Clear()
	if _, err := lib.Get("scripts/Behaviour.cs.txt"); err == nil {
		t.Error("expected error after clearing cache and removing the file")
	}
}

func TestLibraryList(t *testing.T) {
	fsys := fstest.MapFS{
		"b/Two.cs.txt": {Data: []byte("2")},
		"One.cs.txt":   {Data: []byte("1")},
		"README.md":    {Data: []byte("docs")},
	}

	paths, err := NewLibrary(fsys).List()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"One.cs.txt", "b/Two.cs.txt"}, paths); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	paths, err = NewLibrary(fsys, WithExtension(".md")).List()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"README.md"}, paths); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}
