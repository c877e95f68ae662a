// Package capture routes inbound captures to the note writer or the daily
// aggregator and maintains the per-operator undo slot.
package capture

import (
	"log/slog"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/apperr"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/note"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/session"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/undo"
)

// Input is one decoded capture event. Attachment bytes are already stored
// by the time the service sees it; only the references travel here.
type Input struct {
	Content         string
	Kind            string   // text, voice, photo, video, video_note, document
	AttachmentRef   string   // vault-relative wikilink ref, "" when none
	AttachmentPaths []string // absolute stored paths, recorded for undo
}

// Result describes where a capture landed.
type Result struct {
	NotePath    string
	SectionTime string // set only for daily captures
	Daily       bool
}

// Service coordinates note creation, daily aggregation, and undo state.
type Service struct {
	notes    *note.Writer
	daily    *note.Daily
	sessions *session.Store
	ledger   *undo.Ledger
	logger   *slog.Logger
}

// NewService creates a capture service.
func NewService(notes *note.Writer, daily *note.Daily, sessions *session.Store, ledger *undo.Ledger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		notes:    notes,
		daily:    daily,
		sessions: sessions,
		ledger:   ledger,
		logger:   logger,
	}
}

// Capture writes the event into the vault, honouring the operator's daily
// mode, and overwrites the undo slot on success. A failed write leaves the
// slot untouched and no partial note behind.
func (s *Service) Capture(operatorID int64, in Input) (Result, error) {
	sess := s.sessions.Get(operatorID)

	var res Result
	if sess.DailyMode() {
		notePath, sectionTime, err := s.daily.Append(in.Content, in.AttachmentRef)
		if err != nil {
			return Result{}, err
		}
		res = Result{NotePath: notePath, SectionTime: sectionTime, Daily: true}
	} else {
		notePath, err := s.notes.Create(in.Content, in.Kind, in.AttachmentRef)
		if err != nil {
			return Result{}, err
		}
		res = Result{NotePath: notePath}
	}

	sess.SetLastCapture(&undo.Record{
		NotePath:    res.NotePath,
		Attachments: in.AttachmentPaths,
		Daily:       res.Daily,
		SectionTime: res.SectionTime,
	})

	s.logger.Info("note created",
		slog.String("path", res.NotePath),
		slog.String("kind", in.Kind),
		slog.Bool("daily", res.Daily))
	return res, nil
}

// Undo consumes the operator's undo slot and reverses the recorded capture.
// It returns the names actually removed; an empty list means the files were
// already gone. With no record it returns apperr.ErrNothingToUndo.
func (s *Service) Undo(operatorID int64) ([]string, error) {
	rec := s.sessions.Get(operatorID).TakeLastCapture()
	if rec == nil {
		return nil, apperr.ErrNothingToUndo
	}
	return s.ledger.Undo(rec), nil
}

// Sessions exposes the session store for the command handlers.
func (s *Service) Sessions() *session.Store {
	return s.sessions
}
