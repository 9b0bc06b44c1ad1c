package library

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestImportAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Import(ctx, "ep1.json", "round1", 5, 4, 400, []byte(`{"frames":[]}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := s.Import(ctx, "ep2.json", "round2", 7, 6, 800, []byte(`{}`)); err != nil {
		t.Fatalf("import: %v", err)
	}

	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("entries = %d, want 2", len(all))
	}

	only, err := s.List(ctx, "round1")
	if err != nil {
		t.Fatalf("list round1: %v", err)
	}
	if len(only) != 1 || only[0].ID != first.ID {
		t.Fatalf("round filter returned %+v", only)
	}
	e := only[0]
	if e.FileName != "ep1.json" || e.Width != 5 || e.Height != 4 || e.FrameCount != 400 {
		t.Errorf("entry = %+v", e)
	}
	if e.ImportedAt.IsZero() {
		t.Error("imported_at not persisted")
	}
}

func TestImportTrimsRound(t *testing.T) {
	s := newTestStore(t)
	e, err := s.Import(context.Background(), "ep.json", "  round3  ", 3, 3, 10, []byte(`{}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if e.Round != "round3" {
		t.Errorf("round = %q, want trimmed", e.Round)
	}
}

func TestRoundsAreDistinctAndSorted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, r := range []string{"round2", "round1", "round2", ""} {
		if _, err := s.Import(ctx, "ep.json", r, 3, 3, 10, []byte(`{}`)); err != nil {
			t.Fatalf("import: %v", err)
		}
	}

	rounds, err := s.Rounds(ctx)
	if err != nil {
		t.Fatalf("rounds: %v", err)
	}
	want := []string{"round1", "round2"}
	if len(rounds) != len(want) {
		t.Fatalf("rounds = %v, want %v", rounds, want)
	}
	for i := range want {
		if rounds[i] != want[i] {
			t.Errorf("rounds[%d] = %q, want %q", i, rounds[i], want[i])
		}
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	raw := []byte(`{"staticInfo":{},"frames":[{"timestep":0}]}`)

	e, err := s.Import(ctx, "ep.json", "round1", 3, 3, 1, raw)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	name, payload, err := s.Payload(ctx, e.ID)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if name != "ep.json" || string(payload) != string(raw) {
		t.Errorf("payload round-trip = %q %q", name, payload)
	}

	if _, _, err := s.Payload(ctx, uuid.New()); err == nil {
		t.Error("unknown id should fail")
	}
}

func TestUpdateNotesAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e, err := s.Import(ctx, "ep.json", "round1", 3, 3, 1, []byte(`{}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := s.UpdateNotes(ctx, e.ID, "good baseline run"); err != nil {
		t.Fatalf("update notes: %v", err)
	}
	entries, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if entries[0].Notes != "good baseline run" {
		t.Errorf("notes = %q", entries[0].Notes)
	}

	if err := s.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	entries, err = s.List(ctx, "")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries after delete = %v", entries)
	}
}
