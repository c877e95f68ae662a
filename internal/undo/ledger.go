// Package undo reverses the single most recent capture: it deletes the
// created note (or removes the appended daily section) together with any
// stored attachments. The record lives in the operator session and is
// consumed exactly once.
package undo

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Record describes one successful capture. Every capture overwrites the
// operator's previous record; undo destructively consumes it.
type Record struct {
	NotePath    string
	Attachments []string
	Daily       bool
	SectionTime string // "HH:MM"; set only for daily captures
}

// Ledger applies undo records against the filesystem.
type Ledger struct {
	logger *slog.Logger
}

// NewLedger creates a Ledger.
func NewLedger(logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{logger: logger}
}

// Undo reverses the capture described by rec and returns the names of the
// filesystem entries actually removed or modified. An empty result means
// everything was already gone; that is reported, not treated as success.
func (l *Ledger) Undo(rec *Record) []string {
	var deleted []string

	if rec.Daily && rec.SectionTime != "" {
		if rec.NotePath != "" && removeLastSection(rec.NotePath, rec.SectionTime) {
			deleted = append(deleted, "section "+rec.SectionTime)
			l.logger.Info("daily section removed",
				slog.String("path", rec.NotePath),
				slog.String("time", rec.SectionTime))
		}
	} else if rec.NotePath != "" {
		if err := os.Remove(rec.NotePath); err == nil {
			deleted = append(deleted, filepath.Base(rec.NotePath))
			l.logger.Info("note deleted", slog.String("path", rec.NotePath))
		}
	}

	for _, a := range rec.Attachments {
		if a == "" {
			continue
		}
		if err := os.Remove(a); err == nil {
			deleted = append(deleted, filepath.Base(a))
			l.logger.Info("attachment deleted", slog.String("path", a))
		}
	}

	return deleted
}

// removeLastSection removes the LAST section whose header matches
// "## <sectionTime>" exactly: the header line up to, but not including, the
// next "## " header or end of file. Duplicate-minute headers are expected;
// scanning runs in reverse so only the most recent one is touched. Returns
// false when the file is missing or no header matches.
func removeLastSection(notePath, sectionTime string) bool {
	data, err := os.ReadFile(notePath)
	if err != nil {
		return false
	}

	lines := strings.Split(string(data), "\n")
	header := "## " + sectionTime

	start := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] == header {
			start = i
			break
		}
	}
	if start < 0 {
		return false
	}

	end := len(lines)
	for j := start + 1; j < len(lines); j++ {
		if strings.HasPrefix(lines[j], "## ") {
			end = j
			break
		}
	}

	out := make([]string, 0, len(lines)-(end-start))
	out = append(out, lines[:start]...)
	out = append(out, lines[end:]...)

	return os.WriteFile(notePath, []byte(strings.Join(out, "\n")), 0o644) == nil
}
