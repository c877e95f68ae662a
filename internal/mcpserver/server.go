// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the capture pipeline via stdio transport, so an assistant can
// feed the same inbox as Telegram.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/capture"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/task"
)

// Server wraps the MCP server with capture and task tools. Tool calls run
// under the deployment's operator session, so daily mode and undo behave
// exactly as they do for Telegram captures.
type Server struct {
	mcp        *server.MCPServer
	capture    *capture.Service
	tasks      *task.Store
	operatorID int64
}

// New creates an MCP server with all tools registered.
func New(svc *capture.Service, tasks *task.Store, operatorID int64) *Server {
	s := &Server{capture: svc, tasks: tasks, operatorID: operatorID}

	s.mcp = server.NewMCPServer(
		"obsidian-capture",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("capture_note",
		mcp.WithDescription("Capture text into the vault inbox (or today's daily note when "+
			"daily mode is active). Creates the same timestamped note a Telegram capture would."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note body text")),
	), s.captureNote)

	s.mcp.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Append a task to the task inbox in canonical task-line markup."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Task description (free form, will be normalized)")),
		mcp.WithBoolean("follow_up", mcp.Description("Use the follow-up tag instead of the do tag")),
		mcp.WithString("due_date", mcp.Description("Optional due date, YYYY-MM-DD")),
	), s.addTask)

	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List open tasks across the whole vault, newest files first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of tasks to return")),
		mcp.WithString("due_before", mcp.Description("Only tasks due on or before this date (YYYY-MM-DD); undated tasks always pass")),
	), s.listTasks)

	// Resource: capture note format contract.
	s.mcp.AddResource(
		mcp.NewResource("capture://note-format", "Capture Note Format",
			mcp.WithResourceDescription("The note and task-line formats this vault uses."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) captureNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.capture.Capture(s.operatorID, capture.Input{Content: content, Kind: "text"})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Daily {
		return mcp.NewToolResultText(fmt.Sprintf("captured: %s (section %s)", res.NotePath, res.SectionTime)), nil
	}
	return mcp.NewToolResultText("captured: " + res.NotePath), nil
}

func (s *Server) addTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	followUp := req.GetBool("follow_up", false)
	dueDate := req.GetString("due_date", "")

	path, err := s.tasks.Add(text, followUp, dueDate)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("added to " + path), nil
}

func (s *Server) listTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 0)
	dueBefore := req.GetString("due_before", "")

	tasks, err := s.tasks.Search(limit, dueBefore)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.tasks.FormatList(tasks)), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "capture://note-format",
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
