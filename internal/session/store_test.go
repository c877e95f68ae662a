package session

import (
	"testing"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/task"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/undo"
)

func TestGetCreatesAndReuses(t *testing.T) {
	store := NewStore()

	a := store.Get(42)
	if a == nil {
		t.Fatal("Get returned nil")
	}
	if store.Get(42) != a {
		t.Error("same operator must get the same session")
	}
	if store.Get(7) == a {
		t.Error("different operators must not share a session")
	}
}

func TestDailyMode(t *testing.T) {
	s := &Session{}

	if s.DailyMode() {
		t.Error("daily mode must start off")
	}
	if !s.ToggleDailyMode() {
		t.Error("toggle from off must report on")
	}
	if s.ToggleDailyMode() {
		t.Error("toggle from on must report off")
	}
	s.SetDailyMode(true)
	if !s.DailyMode() {
		t.Error("SetDailyMode(true) not observed")
	}
}

func TestTakeLastCaptureIsDestructive(t *testing.T) {
	s := &Session{}

	if s.TakeLastCapture() != nil {
		t.Error("empty slot must yield nil")
	}

	rec := &undo.Record{NotePath: "/vault/+/note.md"}
	s.SetLastCapture(rec)

	if got := s.TakeLastCapture(); got != rec {
		t.Errorf("TakeLastCapture = %+v, want the stored record", got)
	}
	if s.TakeLastCapture() != nil {
		t.Error("slot must be empty after take")
	}
}

func TestTaskAt(t *testing.T) {
	s := &Session{}

	if _, ok := s.TaskAt(1); ok {
		t.Error("TaskAt on empty list must fail")
	}

	s.SetTaskList([]task.Location{
		{TaskText: "- [ ] #to/do First"},
		{TaskText: "- [ ] #to/do Second"},
	})

	got, ok := s.TaskAt(2)
	if !ok || got.TaskText != "- [ ] #to/do Second" {
		t.Errorf("TaskAt(2) = (%+v, %v)", got, ok)
	}
	if _, ok := s.TaskAt(0); ok {
		t.Error("index 0 is out of range for a 1-based list")
	}
	if _, ok := s.TaskAt(3); ok {
		t.Error("index past the end must fail")
	}
}
