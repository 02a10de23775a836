// Package mcpserver exposes the notebook over MCP (Model Context Protocol)
// so external LLM clients can work with notes via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/avholm/smartnotes/internal/service"
	"github.com/avholm/smartnotes/internal/store"
)

// Server wraps the MCP server with the SmartNotes tools.
type Server struct {
	mcp   *server.MCPServer
	notes *service.Notes
}

// New creates a new MCP server with all tools registered.
func New(notes *service.Notes) *Server {
	s := &Server{notes: notes}

	s.mcp = server.NewMCPServer(
		"SmartNotes",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through note titles and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a note by its ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("ID of the note to read")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("find_note_by_title",
		mcp.WithDescription("Look up a single note by title, preferring exact match, then substring."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title to look up")),
	), s.findNoteByTitle)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. The body is Markdown and may contain "+
			"[[wikilinks]] to other notes and inline #tags; both are parsed on save."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title for the new note")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown body of the note")),
		mcp.WithString("folder", mcp.Description("Optional folder to place the note in")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Update an existing note found by title. mode is \"append\" (default) or \"overwrite\"."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the note to update")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to apply")),
		mcp.WithString("mode", mcp.Description("append or overwrite")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("list_folders",
		mcp.WithDescription("List the folders in the notebook."),
	), s.listFolders)

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

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.notes.SearchText(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type hit struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	hits := make([]hit, 0, len(notes))
	for _, n := range notes {
		hits = append(hits, hit{ID: n.ID, Title: n.Title})
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.notes.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("# %s\n\n%s", note.Title, note.Body)), nil
}

func (s *Server) findNoteByTitle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.notes.FindByTitle(ctx, title)
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no note found with title: %s", title)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("# %s (id %s)\n\n%s", note.Title, note.ID, note.Body)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	folder := ""
	if f, ferr := req.RequireString("folder"); ferr == nil {
		folder = f
	}

	note, err := s.notes.Create(ctx, service.CreateInput{Title: title, Body: content, Folder: folder})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (id %s)", note.Title, note.ID)), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := string(service.UpdateAppend)
	if m, merr := req.RequireString("mode"); merr == nil && m != "" {
		mode = m
	}

	note, err := s.notes.FindByTitle(ctx, title)
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no note found with title: %s", title)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	updated, err := s.notes.Update(ctx, note.ID, content, service.UpdateMode(mode))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s (%s)", updated.Title, mode)), nil
}

func (s *Server) listFolders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folders, err := s.notes.Folders(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(folders) == 0 {
		return mcp.NewToolResultText("no folders"), nil
	}
	names := make([]string, 0, len(folders))
	for _, f := range folders {
		names = append(names, f.Name)
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}
