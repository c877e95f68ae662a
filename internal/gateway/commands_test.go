package gateway

import (
	"strings"
	"testing"
)

func TestParseTaskArgs(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name         string
		args         []string
		wantText     string
		wantFollowUp bool
		wantDue      string
	}{
		{
			name:     "plain task",
			args:     []string{"Buy", "milk"},
			wantText: "Buy milk",
		},
		{
			name:         "follow-up prefix",
			args:         []string{"fu", "Call", "John"},
			wantText:     "Call John",
			wantFollowUp: true,
		},
		{
			name:         "followup long form",
			args:         []string{"followup", "Call", "John"},
			wantText:     "Call John",
			wantFollowUp: true,
		},
		{
			name:     "dashed due date",
			args:     []string{"Buy", "milk", "--2026-02-15"},
			wantText: "Buy milk",
			wantDue:  "2026-02-15",
		},
		{
			name:     "em dash due date",
			args:     []string{"Buy", "milk", "—2026-02-15"},
			wantText: "Buy milk",
			wantDue:  "2026-02-15",
		},
		{
			name:     "bare date stays in description",
			args:     []string{"Pay", "rent", "2026-03-01"},
			wantText: "Pay rent 2026-03-01",
		},
		{
			name:     "only first dashed date wins",
			args:     []string{"X", "--2026-02-15", "--2026-02-16"},
			wantText: "X --2026-02-16",
			wantDue:  "2026-02-15",
		},
		{
			name:     "dashed non-date kept as text",
			args:     []string{"check", "--verbose"},
			wantText: "check --verbose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, followUp, due := env.gw.parseTaskArgs(tt.args)
			if text != tt.wantText || followUp != tt.wantFollowUp || due != tt.wantDue {
				t.Errorf("parseTaskArgs(%v) = (%q, %v, %q), want (%q, %v, %q)",
					tt.args, text, followUp, due, tt.wantText, tt.wantFollowUp, tt.wantDue)
			}
		})
	}
}

func TestCmdTask(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, textUpdate("/task fu Call John --2026-02-15"), testSecret)

	if got := env.bot.lastSent(t); got != "✓ Task added" {
		t.Errorf("reply = %q", got)
	}
	data, err := env.vfs.Read("+/task-inbox.md")
	if err != nil {
		t.Fatalf("read inbox: %v", err)
	}
	want := "- [ ] #to/follow-up Call John 📅 2026-02-15\n"
	if string(data) != want {
		t.Errorf("inbox = %q, want %q", string(data), want)
	}
}

func TestCmdTaskUsage(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, textUpdate("/task"), testSecret)
	if got := env.bot.lastSent(t); !strings.HasPrefix(got, "Usage:") {
		t.Errorf("reply = %q", got)
	}
}

func TestCmdDaily(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, textUpdate("/daily"), testSecret)
	if got := env.bot.lastSent(t); got != "Daily mode: ON" {
		t.Errorf("toggle reply = %q", got)
	}

	env.post(t, textUpdate("/daily off"), testSecret)
	if got := env.bot.lastSent(t); got != "Daily mode: OFF" {
		t.Errorf("off reply = %q", got)
	}

	env.post(t, textUpdate("/daily on"), testSecret)
	if got := env.bot.lastSent(t); got != "Daily mode: ON" {
		t.Errorf("on reply = %q", got)
	}

	env.post(t, textUpdate("/daily maybe"), testSecret)
	if got := env.bot.lastSent(t); !strings.HasPrefix(got, "Usage:") {
		t.Errorf("usage reply = %q", got)
	}
}

func TestDailyModeRoutesCaptures(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, textUpdate("/daily on"), testSecret)
	env.post(t, textUpdate("morning thought"), testSecret)

	files, _ := env.vfs.ListMarkdown()
	if len(files) != 1 {
		t.Fatalf("want one note, got %v", files)
	}
	if !strings.HasPrefix(files[0].Path, "calendar/days/") {
		t.Errorf("daily-mode capture landed at %s", files[0].Path)
	}
	data, _ := env.vfs.Read(files[0].Path)
	if !strings.Contains(string(data), "morning thought") {
		t.Errorf("daily note = %q", string(data))
	}
}

func TestCmdTaskListAndDone(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, textUpdate("/task Buy milk"), testSecret)
	env.post(t, textUpdate("/task fu Call John"), testSecret)

	env.post(t, textUpdate("/task_list"), testSecret)
	listing := env.bot.lastSent(t)
	if !strings.Contains(listing, "1. DO: Buy milk") || !strings.Contains(listing, "FOLLOW-UP: Call John") {
		t.Fatalf("listing = %q", listing)
	}

	env.post(t, textUpdate("/done 1"), testSecret)
	if got := env.bot.lastSent(t); got != "✓ Task completed" {
		t.Errorf("reply = %q", got)
	}

	data, _ := env.vfs.Read("+/task-inbox.md")
	if !strings.Contains(string(data), "- [x] #to/do Buy milk ✅ ") {
		t.Errorf("task not completed on disk: %q", string(data))
	}
	if !strings.Contains(string(data), "- [ ] #to/follow-up Call John") {
		t.Errorf("other task must stay open: %q", string(data))
	}
}

func TestCmdDoneWithoutListing(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, textUpdate("/done 1"), testSecret)
	if got := env.bot.lastSent(t); got != "No task list yet, run /task_list first" {
		t.Errorf("reply = %q", got)
	}
}

func TestCmdDoneStaleLine(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, textUpdate("/task Buy milk"), testSecret)
	env.post(t, textUpdate("/task_list"), testSecret)

	// The file changes between listing and completion.
	if err := env.vfs.Write("+/task-inbox.md", []byte("- [ ] #to/do Something else\n")); err != nil {
		t.Fatal(err)
	}

	env.post(t, textUpdate("/done 1"), testSecret)
	if got := env.bot.lastSent(t); got != "Task changed since listing, run /task_list again" {
		t.Errorf("reply = %q", got)
	}
}

func TestCmdDoneBadArgs(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, textUpdate("/done"), testSecret)
	if got := env.bot.lastSent(t); !strings.HasPrefix(got, "Usage:") {
		t.Errorf("reply = %q", got)
	}

	env.post(t, textUpdate("/done one"), testSecret)
	if got := env.bot.lastSent(t); got != "Task number must be numeric" {
		t.Errorf("reply = %q", got)
	}
}

func TestCmdUndo(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, textUpdate("a thought"), testSecret)
	env.post(t, textUpdate("/undo"), testSecret)

	if got := env.bot.lastSent(t); !strings.HasPrefix(got, "Deleted: ") {
		t.Errorf("reply = %q", got)
	}
	files, _ := env.vfs.ListMarkdown()
	if len(files) != 0 {
		t.Errorf("note must be gone after undo: %v", files)
	}

	env.post(t, textUpdate("/undo"), testSecret)
	if got := env.bot.lastSent(t); got != "Nothing to undo" {
		t.Errorf("second undo reply = %q", got)
	}
}

func TestCommandWithBotMention(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, textUpdate("/daily@capture_bot on"), testSecret)
	if got := env.bot.lastSent(t); got != "Daily mode: ON" {
		t.Errorf("reply = %q", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, textUpdate("/frobnicate"), testSecret)
	if got := env.bot.lastSent(t); got != "Unknown command" {
		t.Errorf("reply = %q", got)
	}
}
