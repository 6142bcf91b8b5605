package repository

import (
	"os"
	"path/filepath"
	"testing"

	"ArenaFighter/internal/domain/models"
)

func boolPtr(b bool) *bool { return &b }

func TestProfileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileProfileStore(dir, nil)

	p := store.Get("0xAbCd")
	p.Update([]models.RoundPair{{Mine: models.Rock, Theirs: models.Paper}}, boolPtr(true), 3, 1)
	if err := store.Save("0xAbCd"); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Fresh store, same directory.
	store2 := NewFileProfileStore(dir, nil)
	got := store2.Get("0xabcd")
	if got.TotalGames() != 1 {
		t.Fatalf("total games: got %d want 1", got.TotalGames())
	}
	if got.MoveCounts[models.Paper] != 1 {
		t.Fatalf("move counts not persisted")
	}
}

func TestProfileStoreGetIsStable(t *testing.T) {
	store := NewFileProfileStore(t.TempDir(), nil)
	a := store.Get("opp")
	b := store.Get("OPP")
	if a != b {
		t.Fatalf("case variants returned different instances")
	}
}

func TestProfileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	store := NewFileProfileStore(dir, nil)
	p := store.Get("bad")
	if p == nil {
		t.Fatalf("corrupt file must degrade to a fresh profile")
	}
	if p.TotalGames() != 0 {
		t.Fatalf("fresh profile expected, got %d games", p.TotalGames())
	}
	// And the fresh profile must be saveable over the corrupt file.
	p.Update(nil, boolPtr(false), 0, 3)
	if err := store.Save("bad"); err != nil {
		t.Fatalf("save over corrupt file: %v", err)
	}
}

func TestProfileStoreSaveUnknownAddr(t *testing.T) {
	store := NewFileProfileStore(t.TempDir(), nil)
	if err := store.Save("never-loaded"); err != nil {
		t.Fatalf("save of unknown address should be a no-op, got %v", err)
	}
}

func TestProfileStoreSaveAll(t *testing.T) {
	dir := t.TempDir()
	store := NewFileProfileStore(dir, nil)
	store.Get("one").Update(nil, boolPtr(true), 1, 0)
	store.Get("two").Update(nil, boolPtr(false), 0, 1)

	if err := store.SaveAll(); err != nil {
		t.Fatalf("save all: %v", err)
	}
	for _, name := range []string{"one", "two"} {
		if _, err := os.Stat(filepath.Join(dir, name+".json")); err != nil {
			t.Fatalf("profile %s not on disk: %v", name, err)
		}
	}
}
