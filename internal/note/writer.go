// Package note writes capture notes into the vault: one timestamped inbox
// note per capture, or a timestamped section appended to the rolling daily
// note. The front-matter and header syntax is the on-disk format of the
// existing vault and must not drift.
package note

import (
	"fmt"
	"path"
	"time"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/vault"
)

// secondsFilenameFormat is the collision fallback for inbox notes: when the
// minute-resolution filename already exists the note is written under a
// seconds-resolution name instead. Two captures in the same second still
// collide; last write wins.
const secondsFilenameFormat = "2006-01-02 150405"

// Writer creates timestamped inbox notes.
type Writer struct {
	fs             *vault.FS
	inboxFolder    string
	filenameFormat string
	loc            *time.Location
	now            func() time.Time
}

// NewWriter creates a Writer storing notes under inboxFolder (vault-relative)
// with filenames produced by the given Go time layout.
func NewWriter(fs *vault.FS, inboxFolder, filenameFormat string, loc *time.Location) *Writer {
	return &Writer{
		fs:             fs,
		inboxFolder:    inboxFolder,
		filenameFormat: filenameFormat,
		loc:            loc,
		now:            time.Now,
	}
}

// Create writes a new inbox note with the fixed front-matter block followed
// by the body and an optional attachment embed. It returns the absolute path
// of the created file.
func (w *Writer) Create(content, kind, attachmentRef string) (string, error) {
	now := w.now().In(w.loc)

	frontmatter := fmt.Sprintf(`---
dateCreated: %s
source: telegram
type: %s
topics:
tags:
  - inbox
aliases:
---`, now.Format("2006-01-02T15:04:05-07:00"), kind)

	body := embedBody(content, attachmentRef)
	noteContent := frontmatter + "\n\n" + body + "\n"

	rel := path.Join(w.inboxFolder, now.Format(w.filenameFormat)+".md")
	if w.fs.Exists(rel) {
		// Same-minute collision: retry with seconds resolution.
		rel = path.Join(w.inboxFolder, now.Format(secondsFilenameFormat)+".md")
	}

	if err := w.fs.Write(rel, []byte(noteContent)); err != nil {
		return "", err
	}
	return w.fs.Abs(rel)
}

// embedBody appends the attachment embed directive to the content, on its
// own line, separated by a blank line when the content is non-empty.
func embedBody(content, attachmentRef string) string {
	if attachmentRef == "" {
		return content
	}
	if content == "" {
		return "![[" + attachmentRef + "]]"
	}
	return content + "\n\n![[" + attachmentRef + "]]"
}
