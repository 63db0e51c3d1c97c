package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := &Record{Kind: KindImage, Preset: "cursor-cursor-1", Target: "cursor.png", SkinPath: "/skins/a", Success: true, CreatedAt: at}
	second := &Record{Kind: KindDigits, Preset: "Blue", SkinPath: "/skins/a", Error: "skin folder not found", CreatedAt: at.Add(time.Minute)}
	for _, r := range []*Record{first, second} {
		if err := s.Record(r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if first.ID == 0 || second.ID <= first.ID {
		t.Fatalf("ids not assigned in order: %d, %d", first.ID, second.ID)
	}

	recs, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Kind != KindDigits || recs[0].Success || recs[0].Error == "" {
		t.Errorf("newest record = %+v", recs[0])
	}
	if recs[1].Target != "cursor.png" || !recs[1].Success {
		t.Errorf("oldest record = %+v", recs[1])
	}
	if !recs[1].CreatedAt.Equal(at) {
		t.Errorf("created_at = %v, want %v", recs[1].CreatedAt, at)
	}
}

func TestRecentLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		if err := s.Record(&Record{Kind: KindHitsounds, Success: true}); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := s.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Errorf("len = %d, want 3", len(recs))
	}
	all, err := s.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("len = %d, want 5", len(all))
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	if err := s.Record(&Record{Kind: KindSkinIni}); err != nil {
		t.Fatal(err)
	}
	n, err := s.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("cleared %d, want 1", n)
	}
	recs, _ := s.Recent(0)
	if len(recs) != 0 {
		t.Errorf("records left: %d", len(recs))
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(&Record{Kind: KindCirclePair, Success: true}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	recs, err := s.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Kind != KindCirclePair {
		t.Errorf("after reopen: %+v", recs)
	}
}
