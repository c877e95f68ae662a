package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/apperr"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/telegram"
)

// handleCommand routes slash commands. The "@botname" suffix Telegram adds
// in some clients is stripped before matching.
func (g *Gateway) handleCommand(ctx context.Context, msg *telegram.Message) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return
	}
	cmd := fields[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	args := fields[1:]

	switch cmd {
	case "/undo":
		g.cmdUndo(ctx, msg)
	case "/daily":
		g.cmdDaily(ctx, msg, args)
	case "/task":
		g.cmdTask(ctx, msg, args)
	case "/task_list":
		g.cmdTaskList(ctx, msg, args)
	case "/done":
		g.cmdDone(ctx, msg, args)
	default:
		g.reply(ctx, msg, "Unknown command")
	}
}

// cmdUndo reverses the most recent capture. Undo is single-use: the slot is
// cleared no matter what it finds on disk.
func (g *Gateway) cmdUndo(ctx context.Context, msg *telegram.Message) {
	deleted, err := g.capture.Undo(userID(msg))
	if err != nil {
		if errors.Is(err, apperr.ErrNothingToUndo) {
			g.reply(ctx, msg, "Nothing to undo")
			return
		}
		g.logger.Error("undo failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Undo failed")
		return
	}
	if len(deleted) == 0 {
		g.reply(ctx, msg, "Files already removed")
		return
	}
	g.reply(ctx, msg, "Deleted: "+strings.Join(deleted, ", "))
}

// cmdDaily toggles or sets daily mode.
func (g *Gateway) cmdDaily(ctx context.Context, msg *telegram.Message, args []string) {
	sess := g.sessions.Get(userID(msg))

	var mode bool
	switch {
	case len(args) == 0:
		mode = sess.ToggleDailyMode()
	case strings.EqualFold(args[0], "on"):
		sess.SetDailyMode(true)
		mode = true
	case strings.EqualFold(args[0], "off"):
		sess.SetDailyMode(false)
		mode = false
	default:
		g.reply(ctx, msg, "Usage: /daily, /daily on, /daily off")
		return
	}

	status := "OFF"
	if mode {
		status = "ON"
	}
	g.logger.Info("daily mode changed", slog.Bool("mode", mode))
	g.reply(ctx, msg, "Daily mode: "+status)
}

// cmdTask adds a task. A leading "fu" token marks a follow-up; a
// dash-prefixed token ("--2026-02-10", "—tomorrow") becomes the due date.
// Bare date words without the dashes stay part of the description.
func (g *Gateway) cmdTask(ctx context.Context, msg *telegram.Message, args []string) {
	text, followUp, due := g.parseTaskArgs(args)
	if text == "" {
		g.reply(ctx, msg, "Usage: /task [fu] <text> [--<date>]")
		return
	}

	path, err := g.tasks.Add(text, followUp, due)
	if err != nil {
		g.logger.Error("task add failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Failed to add task")
		return
	}
	g.logger.Info("task added", slog.String("path", path))
	g.reply(ctx, msg, "✓ Task added")
}

// parseTaskArgs splits /task arguments into description, follow-up flag,
// and due date.
func (g *Gateway) parseTaskArgs(args []string) (text string, followUp bool, due string) {
	if len(args) > 0 && (strings.EqualFold(args[0], "fu") || strings.EqualFold(args[0], "followup")) {
		followUp = true
		args = args[1:]
	}

	var words []string
	for _, arg := range args {
		if due == "" && startsWithDash(arg) {
			if d, ok := g.codec.ParseDateArg(arg); ok {
				due = d
				continue
			}
		}
		words = append(words, arg)
	}
	return strings.Join(words, " "), followUp, due
}

// startsWithDash reports whether the token begins with a hyphen or one of
// the em/en dashes Telegram substitutes for "--".
func startsWithDash(s string) bool {
	for _, r := range s {
		return r == '-' || r == '–' || r == '—'
	}
	return false
}

// cmdTaskList lists open tasks and caches the result for /done.
func (g *Gateway) cmdTaskList(ctx context.Context, msg *telegram.Message, args []string) {
	limit := 0
	due := ""
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			limit = n
			continue
		}
		if d, ok := g.codec.ParseDateArg(arg); ok {
			due = d
			continue
		}
		g.reply(ctx, msg, "Usage: /task_list [--<date>] [limit]")
		return
	}

	tasks, err := g.tasks.Search(limit, due)
	if err != nil {
		g.logger.Error("task search failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Failed to list tasks")
		return
	}

	g.sessions.Get(userID(msg)).SetTaskList(tasks)
	g.reply(ctx, msg, g.tasks.FormatList(tasks))
}

// cmdDone completes the N-th task from the last listing. The line must
// still match what was listed; otherwise the operator is told to re-list.
func (g *Gateway) cmdDone(ctx context.Context, msg *telegram.Message, args []string) {
	if len(args) != 1 {
		g.reply(ctx, msg, "Usage: /done <number>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		g.reply(ctx, msg, "Task number must be numeric")
		return
	}

	sess := g.sessions.Get(userID(msg))
	if sess.TaskList() == nil {
		g.reply(ctx, msg, "No task list yet, run /task_list first")
		return
	}
	loc, ok := sess.TaskAt(n)
	if !ok {
		g.reply(ctx, msg, fmt.Sprintf("No task %d in the last list", n))
		return
	}

	if !g.tasks.Complete(loc) {
		g.reply(ctx, msg, "Task changed since listing, run /task_list again")
		return
	}
	g.logger.Info("task completed", slog.String("path", loc.FilePath), slog.Int("line", loc.LineNumber))
	g.reply(ctx, msg, "✓ Task completed")
}
