package builder

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cpcf/boilerplate/asset"
	"github.com/cpcf/boilerplate/errkind"
	boiltest "github.com/cpcf/boilerplate/testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBuilder(store asset.Store) *Builder {
	return New(store, WithLogger(quietLogger()))
}

func TestBalancedNavigation(t *testing.T) {
	store := boiltest.NewRecordingStore()
	b := newBuilder(store)

	names := []string{"Game", "Maps", "Level-1", "v1.2_final"}
	for i, name := range names {
		b.Navigate(name)
		if b.Depth() != i+1 {
			t.Fatalf("Depth() = %d after %d navigations", b.Depth(), i+1)
		}
	}
	if got, want := b.Path(), "Assets/Game/Maps/Level-1/v1.2_final"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	for range names {
		b.Leave()
	}
	if err := b.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Depth() != 0 || b.Path() != "Assets" {
		t.Errorf("expected empty context, got %v (%s)", b.Context(), b.Path())
	}

	b.Leave()
	if !errors.Is(b.Err(), errkind.UnbalancedScopeExit) {
		t.Errorf("expected UnbalancedScopeExit, got %v", b.Err())
	}
}

func TestLeaveOnFreshBuilder(t *testing.T) {
	b := newBuilder(boiltest.NewRecordingStore()).Leave()
	if !errors.Is(b.Err(), errkind.UnbalancedScopeExit) {
		t.Fatalf("expected UnbalancedScopeExit, got %v", b.Err())
	}
}

func TestNavigateCreatesOnlyMissingDirectories(t *testing.T) {
	store := boiltest.NewRecordingStore().AddDir("Assets/Game")
	b := newBuilder(store)

	b.Navigate("Game").Navigate("Objects").Leave().Navigate("Maps").Leave().Leave()
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}

	want := []string{"mkdir Assets/Game/Objects", "mkdir Assets/Game/Maps"}
	if diff := cmp.Diff(want, store.Ops("mkdir")); diff != "" {
		t.Errorf("mkdir calls mismatch (-want +got):\n%s", diff)
	}

	b.Navigate("Game").Navigate("Objects")
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, store.Ops("mkdir")); diff != "" {
		t.Errorf("existing directories were recreated (-want +got):\n%s", diff)
	}
}

func TestNavigateTrimsName(t *testing.T) {
	store := boiltest.NewRecordingStore()
	b := newBuilder(store).Navigate("  Game\t")
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Game"}, b.Context()); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
	if store.Kind("Assets/Game") != asset.Directory {
		t.Error("expected Assets/Game to exist")
	}
}

func TestNavigateInvalidNames(t *testing.T) {
	invalid := []string{
		"", "   ", "bad name!", "a b", "-lead", "trail-", ".hidden", "dots..double",
		"a__b", "a-_b", "slash/inside", "back\\slash", "ünicode", "..",
	}

	for _, name := range invalid {
		t.Run(name, func(t *testing.T) {
			store := boiltest.NewRecordingStore()
			b := newBuilder(store).Navigate(name)
			if !errors.Is(b.Err(), errkind.InvalidName) {
				t.Fatalf("Navigate(%q): expected InvalidName, got %v", name, b.Err())
			}
			if b.Depth() != 0 {
				t.Errorf("context changed on failure: %v", b.Context())
			}
			if len(store.Calls()) != 0 {
				t.Errorf("store touched before validation: %v", store.Calls())
			}
		})
	}
}

func TestValidName(t *testing.T) {
	for _, name := range []string{"a", "Game", "valid-name_1.2", "A1.b2-c3_d4", "2024"} {
		if !ValidName(name) {
			t.Errorf("ValidName(%q) = false, want true", name)
		}
	}
	b := newBuilder(boiltest.NewRecordingStore()).Navigate("valid-name_1.2")
	if err := b.Err(); err != nil {
		t.Errorf("Navigate(valid-name_1.2) failed: %v", err)
	}
}

func TestNavigateMakeIfAbsent(t *testing.T) {
	store := boiltest.NewRecordingStore()

	b := newBuilder(store).Navigate("Missing", MakeIfAbsent(false))
	if !errors.Is(b.Err(), errkind.DirectoryNotFound) {
		t.Fatalf("expected DirectoryNotFound, got %v", b.Err())
	}
	if got := errkind.PayloadOf(b.Err()); got != "Assets/Missing" {
		t.Errorf("payload = %q, want %q", got, "Assets/Missing")
	}
	if store.Kind("Assets/Missing") != asset.Absent {
		t.Error("directory should not have been created")
	}

	b = newBuilder(store).Navigate("Missing", MakeIfAbsent(true))
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	if store.Kind("Assets/Missing") != asset.Directory {
		t.Error("expected directory to exist")
	}

	b = newBuilder(store).Navigate("Missing", MakeIfAbsent(false))
	if err := b.Err(); err != nil {
		t.Errorf("existing directory with MakeIfAbsent(false) failed: %v", err)
	}
}

func TestNavigateIntoFile(t *testing.T) {
	store := boiltest.NewRecordingStore().AddFile("Assets/Game", "not a folder")

	b := newBuilder(store).Navigate("Game")
	if !errors.Is(b.Err(), errkind.NotADirectory) {
		t.Fatalf("expected NotADirectory, got %v", b.Err())
	}
	if b.Depth() != 0 {
		t.Errorf("context changed on failure: %v", b.Context())
	}
}

func TestNavigateStoreFailures(t *testing.T) {
	boom := errors.New("boom")

	store := boiltest.NewRecordingStore()
	store.FailLookup = boom
	if b := newBuilder(store).Navigate("Game"); !errors.Is(b.Err(), boom) {
		t.Errorf("expected lookup failure, got %v", b.Err())
	}

	store = boiltest.NewRecordingStore()
	store.FailCreate = boom
	b := newBuilder(store).Navigate("Game")
	if !errors.Is(b.Err(), boom) {
		t.Errorf("expected create failure, got %v", b.Err())
	}
	if b.Depth() != 0 {
		t.Error("context pushed despite failed creation")
	}
}

func TestErrorsAreSticky(t *testing.T) {
	store := boiltest.NewRecordingStore()
	b := newBuilder(store)

	ran := false
	b.Navigate("bad name!").Navigate("Game").Run(func(*Builder, string) error {
		ran = true
		return nil
	}).Leave()

	if !errors.Is(b.Err(), errkind.InvalidName) {
		t.Fatalf("expected the first error to be kept, got %v", b.Err())
	}
	if ran || b.Depth() != 0 || len(store.Calls()) != 0 {
		t.Error("calls after a failure should be no-ops")
	}

	b.Reset().Navigate("Game")
	if err := b.Err(); err != nil || b.Depth() != 1 {
		t.Errorf("Reset did not clear state: %v, depth %d", err, b.Depth())
	}
}

func TestRunOrderAndPath(t *testing.T) {
	b := newBuilder(boiltest.NewRecordingStore())

	var seen []string
	record := func(tag string) Action {
		return func(got *Builder, dir string) error {
			if got != b {
				t.Error("action received a different builder")
			}
			seen = append(seen, tag+"@"+dir)
			return nil
		}
	}

	b.Run(record("root")).Navigate("Game").Navigate("Maps").Run(record("a"), record("b")).Leave().Leave()
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}

	want := []string{"root@Assets", "a@Assets/Game/Maps", "b@Assets/Game/Maps"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	b := newBuilder(boiltest.NewRecordingStore())
	boom := errors.New("boom")

	var ran []int
	step := func(i int, err error) Action {
		return func(*Builder, string) error {
			ran = append(ran, i)
			return err
		}
	}

	b.Run(step(1, nil), step(2, boom), step(3, nil))
	if !errors.Is(b.Err(), boom) {
		t.Fatalf("expected boom, got %v", b.Err())
	}
	if diff := cmp.Diff([]int{1, 2}, ran); diff != "" {
		t.Errorf("ran mismatch (-want +got):\n%s", diff)
	}
}

func TestRunRejectsNilAction(t *testing.T) {
	ran := false
	b := newBuilder(boiltest.NewRecordingStore()).Run(func(*Builder, string) error {
		ran = true
		return nil
	}, nil)

	if b.Err() == nil {
		t.Fatal("expected error for nil action")
	}
	if ran {
		t.Error("no action should run when the batch contains nil")
	}
}

func TestRunWithNoActions(t *testing.T) {
	if err := newBuilder(boiltest.NewRecordingStore()).Run().Err(); err != nil {
		t.Errorf("empty batch failed: %v", err)
	}
}

func TestWithin(t *testing.T) {
	store := boiltest.NewRecordingStore()
	b := newBuilder(store)

	b.Within("Game", func(b *Builder) {
		b.Within("Objects", func(*Builder) {})
		b.Within("Maps", func(b *Builder) {
			if b.Path() != "Assets/Game/Maps" {
				t.Errorf("Path() = %q inside Maps", b.Path())
			}
		})
	})
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	if b.Depth() != 0 {
		t.Errorf("Within left context %v", b.Context())
	}

	want := []string{"Assets", "Assets/Game", "Assets/Game/Maps", "Assets/Game/Objects"}
	if diff := cmp.Diff(want, store.Directories()); diff != "" {
		t.Errorf("directories mismatch (-want +got):\n%s", diff)
	}
}

func TestWithinDetectsUnbalancedBody(t *testing.T) {
	b := newBuilder(boiltest.NewRecordingStore())
	b.Within("Game", func(b *Builder) {
		b.Navigate("Maps")
	})
	if !errors.Is(b.Err(), errkind.UnbalancedScopeExit) {
		t.Fatalf("expected UnbalancedScopeExit, got %v", b.Err())
	}
}

func TestWithRoot(t *testing.T) {
	store := boiltest.NewRecordingStore()
	b := New(store, WithRoot("project/src"), WithLogger(quietLogger())).Navigate("pkg")
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}
	if b.Path() != "project/src/pkg" {
		t.Errorf("Path() = %q", b.Path())
	}
	if store.Kind("project/src/pkg") != asset.Directory {
		t.Error("expected directory under custom root")
	}
}
