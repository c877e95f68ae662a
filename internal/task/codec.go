// Package task implements the task-line markup and the vault-wide task
// store: normalization of free-form input into canonical task lines,
// appending to the task inbox, scanning for open tasks, and optimistic
// completion.
package task

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Task-line markers. The due and completion markers are part of the on-disk
// format and must match the existing vault byte-for-byte.
const (
	checkboxOpen = "- [ ]"
	checkboxDone = "- [x]"
	dueMarker    = "📅"
	doneMarker   = "✅"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Codec normalizes raw text into canonical task lines and extracts fields
// from existing ones. The two tag strings are fixed per deployment.
type Codec struct {
	tag         string
	followUpTag string
	tagRe       *regexp.Regexp // any occurrence of either tag plus trailing spaces
	leadTagRe   *regexp.Regexp // either tag at the start of a description
	dueRe       *regexp.Regexp
	loc         *time.Location
	now         func() time.Time
}

// NewCodec creates a codec for the given deployment tags and timezone.
func NewCodec(tag, followUpTag string, loc *time.Location) *Codec {
	alt := "(?:" + regexp.QuoteMeta(tag) + "|" + regexp.QuoteMeta(followUpTag) + ")"
	return &Codec{
		tag:         tag,
		followUpTag: followUpTag,
		tagRe:       regexp.MustCompile(alt + `\s*`),
		leadTagRe:   regexp.MustCompile(`^` + alt + `\s*`),
		dueRe:       regexp.MustCompile(regexp.QuoteMeta(dueMarker) + `\s*(\d{4}-\d{2}-\d{2})`),
		loc:         loc,
		now:         time.Now,
	}
}

// Normalize converts raw user input into the canonical task line
// "- [ ] <tag> <description>[ 📅 YYYY-MM-DD]". It is total: any input is
// accepted, worst case with an empty description. Normalizing an already
// canonical line is idempotent.
func (c *Codec) Normalize(rawText string, followUp bool, dueDate string) string {
	text := strings.TrimSpace(rawText)

	// Strip a leading "task:" prefix, case-insensitive.
	if len(text) >= 5 && strings.EqualFold(text[:5], "task:") {
		text = strings.TrimSpace(text[5:])
	}

	tag := c.tag
	if followUp {
		tag = c.followUpTag
	}

	// Strip any pre-existing checkbox or list marker so the line is rebuilt
	// from scratch.
	switch {
	case strings.HasPrefix(text, checkboxOpen):
		text = strings.TrimSpace(text[len(checkboxOpen):])
	case strings.HasPrefix(text, "- "):
		text = strings.TrimSpace(text[2:])
	case strings.HasPrefix(text, "-"):
		text = strings.TrimSpace(text[1:])
	}

	// Strip existing tag occurrences to avoid duplication.
	text = strings.TrimSpace(c.tagRe.ReplaceAllString(text, ""))

	result := fmt.Sprintf("%s %s %s", checkboxOpen, tag, text)
	if dueDate != "" {
		result = fmt.Sprintf("%s %s %s", result, dueMarker, dueDate)
	}
	return result
}

// ExtractDueDate returns the first "📅 YYYY-MM-DD" date on the line, or ""
// if absent or malformed.
func (c *Codec) ExtractDueDate(line string) string {
	m := c.dueRe.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}

// ParseDateArg interprets a command argument as a due date. Leading dashes
// are stripped, including the em/en dashes Telegram substitutes for "--".
// Accepted forms are the relative keywords today/tomorrow/yesterday
// (case-insensitive, resolved in the deployment timezone) and the literal
// YYYY-MM-DD pattern. Anything else reports ok=false.
func (c *Codec) ParseDateArg(arg string) (string, bool) {
	cleaned := strings.TrimLeft(arg, "-–—")
	if cleaned == "" {
		return "", false
	}

	today := c.now().In(c.loc)
	switch {
	case strings.EqualFold(cleaned, "today"):
		return today.Format("2006-01-02"), true
	case strings.EqualFold(cleaned, "tomorrow"):
		return today.AddDate(0, 0, 1).Format("2006-01-02"), true
	case strings.EqualFold(cleaned, "yesterday"):
		return today.AddDate(0, 0, -1).Format("2006-01-02"), true
	}

	if dateRe.MatchString(cleaned) {
		return cleaned, true
	}
	return "", false
}

// FormatList renders tasks as a 1-based numbered list for the operator.
// Checkbox and tag are stripped from the description; a due-date marker is
// kept verbatim.
func (c *Codec) FormatList(tasks []Location) string {
	if len(tasks) == 0 {
		return "No open tasks found"
	}

	var b strings.Builder
	for i, t := range tasks {
		prefix := "DO:"
		if strings.Contains(t.TaskText, c.followUpTag) {
			prefix = "FOLLOW-UP:"
		}

		desc := strings.TrimPrefix(t.TaskText, checkboxOpen+" ")
		desc = strings.TrimSpace(c.leadTagRe.ReplaceAllString(desc, ""))

		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s %s", i+1, prefix, desc)
	}
	return b.String()
}
