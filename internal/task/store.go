package task

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/vault"
)

// Location is an ephemeral reference to a task line, captured at list time
// and used only for optimistic completion.
type Location struct {
	FilePath   string // absolute
	LineNumber int    // 1-based
	TaskText   string // exact line content at capture time
}

// Store appends tasks to the inbox file, scans the vault for open tasks,
// and completes specific lines with an optimistic line-match check.
type Store struct {
	fs        *vault.FS
	codec     *Codec
	inboxFile string // vault-relative
	limit     int
	lineRe    *regexp.Regexp
	loc       *time.Location
	now       func() time.Time
}

// NewStore creates a task store over the given vault.
// inboxFile is the vault-relative path of the flat task-inbox file and
// limit is the default result cap for Search.
func NewStore(fs *vault.FS, codec *Codec, inboxFile string, limit int, loc *time.Location) *Store {
	alt := "(?:" + regexp.QuoteMeta(codec.tag) + "|" + regexp.QuoteMeta(codec.followUpTag) + ")"
	return &Store{
		fs:        fs,
		codec:     codec,
		inboxFile: inboxFile,
		limit:     limit,
		lineRe:    regexp.MustCompile(`^- \[ \] ` + alt + `(\s|$)`),
		loc:       loc,
		now:       time.Now,
	}
}

// Add normalizes the text and appends it as a new line to the task inbox,
// creating the file and its parent directories if needed. The inbox always
// keeps exactly one trailing newline, with no blank gap before the new task.
func (s *Store) Add(text string, followUp bool, dueDate string) (string, error) {
	normalized := s.codec.Normalize(text, followUp, dueDate)

	existing, err := s.fs.Read(s.inboxFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	var b strings.Builder
	if len(existing) > 0 {
		b.Write(existing)
		if existing[len(existing)-1] != '\n' {
			b.WriteByte('\n')
		}
	}
	b.WriteString(normalized)
	b.WriteByte('\n')

	if err := s.fs.Write(s.inboxFile, []byte(b.String())); err != nil {
		return "", err
	}
	return s.fs.Abs(s.inboxFile)
}

// Search scans every Markdown file under the vault root for open task lines,
// visiting files newest-modification-first. Collection stops the moment
// limit results are accumulated, so with a small limit older files may never
// be read. A non-positive limit falls back to the configured default.
//
// When dueBefore is set (YYYY-MM-DD), lines whose extracted due date is
// strictly later are skipped; lines with no due date always pass.
func (s *Store) Search(limit int, dueBefore string) ([]Location, error) {
	if limit <= 0 {
		limit = s.limit
	}

	files, err := s.fs.ListMarkdown()
	if err != nil {
		return nil, err
	}

	var tasks []Location
	for _, f := range files {
		data, readErr := os.ReadFile(f.AbsPath)
		if readErr != nil || !utf8.Valid(data) {
			// Unreadable or non-text file: skip, never fatal.
			continue
		}
		for i, line := range strings.Split(string(data), "\n") {
			if !s.lineRe.MatchString(line) {
				continue
			}
			if dueBefore != "" {
				if due := s.codec.ExtractDueDate(line); due != "" && due > dueBefore {
					continue
				}
			}
			tasks = append(tasks, Location{
				FilePath:   f.AbsPath,
				LineNumber: i + 1,
				TaskText:   line,
			})
			if len(tasks) >= limit {
				return tasks, nil
			}
		}
	}
	return tasks, nil
}

// Complete marks the task at loc as done: the line must still read exactly
// as captured (optimistic concurrency), then its first "[ ]" becomes "[x]"
// and a completion marker with today's date is appended. On any mismatch or
// I/O failure the file is left byte-identical and false is returned.
func (s *Store) Complete(loc Location) bool {
	data, err := os.ReadFile(loc.FilePath)
	if err != nil {
		return false
	}

	lines := strings.Split(string(data), "\n")
	idx := loc.LineNumber - 1
	if idx < 0 || idx >= len(lines) {
		return false
	}
	if lines[idx] != loc.TaskText {
		return false
	}

	newLine := strings.Replace(lines[idx], "[ ]", "[x]", 1)
	newLine = strings.TrimRightFunc(newLine, unicode.IsSpace)
	today := s.now().In(s.loc).Format("2006-01-02")
	lines[idx] = fmt.Sprintf("%s %s %s", newLine, doneMarker, today)

	content := strings.Join(lines, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	rel, relErr := filepath.Rel(s.fs.Root(), loc.FilePath)
	if relErr != nil {
		return false
	}
	if err := s.fs.Write(filepath.ToSlash(rel), []byte(content)); err != nil {
		return false
	}
	return true
}

// FormatList renders tasks for the operator; see Codec.FormatList.
func (s *Store) FormatList(tasks []Location) string {
	return s.codec.FormatList(tasks)
}
