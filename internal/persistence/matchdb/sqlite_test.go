package matchdb

import (
	"path/filepath"
	"testing"

	"spiritgrid.ai/internal/protocol"
)

func TestMatchDB_RecordAndSummarize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := d.SetMeta("player_id", "P1"); err != nil {
		t.Fatalf("set meta: %v", err)
	}

	d.RecordTick(TickRow{Tick: 10, OwnSpirits: 3, OwnEnergy: 21, EnemyCount: 0, Commands: 3})
	d.RecordTick(TickRow{
		Tick: 11, OwnSpirits: 3, OwnEnergy: 24, EnemyCount: 2, Commands: 2,
		Rejections: map[string]int{protocol.ErrCapability: 1, protocol.ErrDoubleAction: 2},
	})
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopen proves the rows were drained and persisted.
	d2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d2.Close()

	if v, err := d2.GetMeta("player_id"); err != nil || v != "P1" {
		t.Fatalf("meta: got %q %v", v, err)
	}
	if v, err := d2.GetMeta("absent"); err != nil || v != "" {
		t.Fatalf("absent meta: got %q %v", v, err)
	}

	s, err := d2.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Ticks != 2 || s.FirstTick != 10 || s.LastTick != 11 || s.Commands != 5 {
		t.Fatalf("summary: %+v", s)
	}
	if s.Rejections[protocol.ErrCapability] != 1 || s.Rejections[protocol.ErrDoubleAction] != 2 {
		t.Fatalf("rejections: %+v", s.Rejections)
	}
}

func TestOpen_RejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
