package note

import (
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/vault"
)

// Daily appends timestamped sections to the rolling daily note, one file per
// calendar day in the configured timezone.
type Daily struct {
	fs         *vault.FS
	folder     string
	dateFormat string
	loc        *time.Location
	now        func() time.Time
}

// NewDaily creates a Daily aggregator writing under folder (vault-relative)
// with filenames produced by the given Go date layout.
func NewDaily(fs *vault.FS, folder, dateFormat string, loc *time.Location) *Daily {
	return &Daily{
		fs:         fs,
		folder:     folder,
		dateFormat: dateFormat,
		loc:        loc,
		now:        time.Now,
	}
}

// Append adds a "## HH:MM" section with the given body to today's daily
// note, creating the file with front-matter when it does not exist yet.
// Sections are append-only; two captures in the same minute produce two
// identical headers, which is accepted. It returns the absolute note path
// and the section time used for the header.
func (d *Daily) Append(content, attachmentRef string) (string, string, error) {
	now := d.now().In(d.loc)

	rel := path.Join(d.folder, now.Format(d.dateFormat)+".md")
	sectionTime := now.Format("15:04")
	header := "## " + sectionTime
	section := embedBody(content, attachmentRef)

	var newContent string
	existing, err := d.fs.Read(rel)
	switch {
	case err == nil:
		newContent = string(existing) + "\n" + header + "\n" + section + "\n"
	case errors.Is(err, os.ErrNotExist):
		frontmatter := fmt.Sprintf("---\ndateCreated: %s\ntags:\n  - k/daily\n---", now.Format("2006-01-02"))
		newContent = frontmatter + "\n\n" + header + "\n" + section + "\n"
	default:
		return "", "", err
	}

	if err := d.fs.Write(rel, []byte(newContent)); err != nil {
		return "", "", err
	}
	abs, err := d.fs.Abs(rel)
	if err != nil {
		return "", "", err
	}
	return abs, sectionTime, nil
}
