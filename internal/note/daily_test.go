package note

import (
	"strings"
	"testing"
	"time"
)

func TestDailyAppendCreatesFile(t *testing.T) {
	vfs := testVault(t)
	d := NewDaily(vfs, "calendar/days", "2006-01-02", time.UTC)
	d.now = fixedClock(time.Date(2026, 2, 14, 14, 30, 0, 0, time.UTC))

	abs, sectionTime, err := d.Append("First thought", "")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if abs == "" || sectionTime != "14:30" {
		t.Fatalf("Append returned (%q, %q)", abs, sectionTime)
	}

	data, err := vfs.Read("calendar/days/2026-02-14.md")
	if err != nil {
		t.Fatalf("read daily note: %v", err)
	}
	want := `---
dateCreated: 2026-02-14
tags:
  - k/daily
---

## 14:30
First thought
`
	if string(data) != want {
		t.Errorf("daily note = %q, want %q", string(data), want)
	}
}

func TestDailyAppendAddsSection(t *testing.T) {
	vfs := testVault(t)
	d := NewDaily(vfs, "calendar/days", "2006-01-02", time.UTC)

	d.now = fixedClock(time.Date(2026, 2, 14, 14, 30, 0, 0, time.UTC))
	if _, _, err := d.Append("First thought", ""); err != nil {
		t.Fatalf("first Append failed: %v", err)
	}

	d.now = fixedClock(time.Date(2026, 2, 14, 15, 45, 0, 0, time.UTC))
	if _, _, err := d.Append("Second thought", ""); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}

	data, _ := vfs.Read("calendar/days/2026-02-14.md")
	want := `---
dateCreated: 2026-02-14
tags:
  - k/daily
---

## 14:30
First thought

## 15:45
Second thought
`
	if string(data) != want {
		t.Errorf("daily note = %q, want %q", string(data), want)
	}
}

func TestDailyAppendWithAttachment(t *testing.T) {
	vfs := testVault(t)
	d := NewDaily(vfs, "calendar/days", "2006-01-02", time.UTC)
	d.now = fixedClock(time.Date(2026, 2, 14, 9, 5, 0, 0, time.UTC))

	if _, _, err := d.Append("", "+/attachments/tg-2026-02-14-090500.jpg"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	data, _ := vfs.Read("calendar/days/2026-02-14.md")
	if got := string(data); !strings.Contains(got, "## 09:05\n![[+/attachments/tg-2026-02-14-090500.jpg]]\n") {
		t.Errorf("attachment-only section missing: %q", got)
	}
}
