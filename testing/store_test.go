package testing

import (
	"testing"

	"github.com/cpcf/boilerplate/asset"
)

func TestRecordingStore(t *testing.T) {
	s := NewRecordingStore().AddFile("Assets/readme.txt", "hi")

	if kind, _ := s.Lookup("Assets"); kind != asset.Directory {
		t.Errorf("Lookup(Assets) = %v, want directory", kind)
	}
	if kind, _ := s.Lookup("Assets/readme.txt"); kind != asset.File {
		t.Errorf("Lookup(readme) = %v, want file", kind)
	}

	if err := s.CreateDirectory("Assets", "Game"); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteTextFile("Assets/Game/A.cs", "x"); err != nil {
		t.Fatal(err)
	}
	s.Refresh()

	if got, ok := s.File("Assets/Game/A.cs"); !ok || got != "x" {
		t.Errorf("File = %q, %v", got, ok)
	}
	if s.Refreshes() != 1 {
		t.Errorf("Refreshes = %d, want 1", s.Refreshes())
	}
	if err := s.WriteTextFile("Assets/Nope/B.cs", "x"); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
