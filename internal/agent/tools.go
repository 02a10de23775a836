// Package agent drives the bounded tool-calling loop and the catalog of
// actions the model may take against the notebook.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/service"
	"github.com/avholm/smartnotes/internal/store"
)

// ToolName enumerates the fixed tool catalog. Dispatch is an exhaustive
// switch so a tool can't be declared without being handled.
type ToolName string

const (
	ToolCreateNote      ToolName = "create_note"
	ToolUpdateNote      ToolName = "update_note"
	ToolSearchNotes     ToolName = "search_notes"
	ToolFindNoteByTitle ToolName = "find_note_by_title"
	ToolReadNote        ToolName = "read_note"
	ToolReadActiveNote  ToolName = "read_active_note"
	ToolListFolders     ToolName = "list_folders"
)

// NotFoundResult is the sentinel text returned when a title lookup matches
// nothing. The loop feeds it back so the model can react conversationally.
const NotFoundResult = "No note found with that title."

// Param describes one tool parameter. The same declaration renders into the
// system prompt and backs argument extraction, so the model-facing schema
// and the call site can't diverge.
type Param struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Spec declares one tool for the catalog.
type Spec struct {
	Name        ToolName
	Description string
	Params      []Param
}

// Catalog returns the full tool catalog in a stable order. None of the
// tools delete anything.
func Catalog() []Spec {
	return []Spec{
		{
			Name:        ToolCreateNote,
			Description: "Create a new note with a title and markdown content.",
			Params: []Param{
				{Name: "title", Type: "string", Description: "Title for the new note", Required: true},
				{Name: "content", Type: "string", Description: "Markdown body of the note", Required: true},
				{Name: "folder", Type: "string", Description: "Folder to place the note in"},
			},
		},
		{
			Name:        ToolUpdateNote,
			Description: "Update an existing note found by title, appending to or overwriting its content.",
			Params: []Param{
				{Name: "title", Type: "string", Description: "Title of the note to update", Required: true},
				{Name: "content", Type: "string", Description: "Content to apply", Required: true},
				{Name: "mode", Type: "string", Description: "Either \"append\" (default) or \"overwrite\""},
			},
		},
		{
			Name:        ToolSearchNotes,
			Description: "Full-text search over note titles and bodies.",
			Params: []Param{
				{Name: "query", Type: "string", Description: "Text to search for", Required: true},
			},
		},
		{
			Name:        ToolFindNoteByTitle,
			Description: "Look up a single note by title, preferring exact match, then substring.",
			Params: []Param{
				{Name: "title", Type: "string", Description: "Title to look up", Required: true},
			},
		},
		{
			Name:        ToolReadNote,
			Description: "Read the full content of a note by its ID.",
			Params: []Param{
				{Name: "id", Type: "string", Description: "ID of the note to read", Required: true},
			},
		},
		{
			Name:        ToolReadActiveNote,
			Description: "Read the note currently open in the editor.",
		},
		{
			Name:        ToolListFolders,
			Description: "List the folders in the notebook.",
		},
	}
}

// Registry executes tools against the note service. It fails closed: any
// problem (unknown tool, missing argument, note not found, service error)
// comes back as result text for the model, never as an error to the caller.
type Registry struct {
	notes *service.Notes
}

// NewRegistry creates a tool registry over the note service.
func NewRegistry(notes *service.Notes) *Registry {
	return &Registry{notes: notes}
}

// Execute runs the named tool. activeNoteID carries the editor state for
// read_active_note; it is a parameter, not ambient state.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any, activeNoteID string) string {
	result, err := r.dispatch(ctx, ToolName(name), args, activeNoteID)
	if err != nil {
		slog.Warn("tool execution failed", "tool", name, "error", err)
		return fmt.Sprintf("Error executing %s: %v", name, err)
	}
	return result
}

func (r *Registry) dispatch(ctx context.Context, name ToolName, args map[string]any, activeNoteID string) (string, error) {
	switch name {
	case ToolCreateNote:
		return r.createNote(ctx, args)
	case ToolUpdateNote:
		return r.updateNote(ctx, args)
	case ToolSearchNotes:
		return r.searchNotes(ctx, args)
	case ToolFindNoteByTitle:
		return r.findNoteByTitle(ctx, args)
	case ToolReadNote:
		return r.readNote(ctx, args)
	case ToolReadActiveNote:
		return r.readActiveNote(ctx, activeNoteID)
	case ToolListFolders:
		return r.listFolders(ctx)
	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}

func stringArg(args map[string]any, key string, required bool) (string, error) {
	raw, ok := args[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing required argument %q", key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	if required && strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("argument %q must not be empty", key)
	}
	return s, nil
}

func (r *Registry) createNote(ctx context.Context, args map[string]any) (string, error) {
	title, err := stringArg(args, "title", true)
	if err != nil {
		return "", err
	}
	content, err := stringArg(args, "content", true)
	if err != nil {
		return "", err
	}
	folder, err := stringArg(args, "folder", false)
	if err != nil {
		return "", err
	}

	note, err := r.notes.Create(ctx, service.CreateInput{Title: title, Body: content, Folder: folder})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created note %q (id %s).", note.Title, note.ID), nil
}

func (r *Registry) updateNote(ctx context.Context, args map[string]any) (string, error) {
	title, err := stringArg(args, "title", true)
	if err != nil {
		return "", err
	}
	content, err := stringArg(args, "content", true)
	if err != nil {
		return "", err
	}
	mode, err := stringArg(args, "mode", false)
	if err != nil {
		return "", err
	}
	if mode == "" {
		mode = string(service.UpdateAppend)
	}

	note, err := r.notes.FindByTitle(ctx, title)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundResult, nil
	}
	if err != nil {
		return "", err
	}

	updated, err := r.notes.Update(ctx, note.ID, content, service.UpdateMode(mode))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Updated note %q (%s).", updated.Title, mode), nil
}

func (r *Registry) searchNotes(ctx context.Context, args map[string]any) (string, error) {
	query, err := stringArg(args, "query", true)
	if err != nil {
		return "", err
	}

	notes, err := r.notes.SearchText(ctx, query)
	if err != nil {
		return "", err
	}
	if len(notes) == 0 {
		return "No notes matched the search.", nil
	}

	type hit struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	}
	hits := make([]hit, 0, len(notes))
	for _, n := range notes {
		hits = append(hits, hit{ID: n.ID, Title: n.Title, Snippet: snippet(n.Body, 120)})
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return string(out), nil
}

func (r *Registry) findNoteByTitle(ctx context.Context, args map[string]any) (string, error) {
	title, err := stringArg(args, "title", true)
	if err != nil {
		return "", err
	}

	note, err := r.notes.FindByTitle(ctx, title)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundResult, nil
	}
	if err != nil {
		return "", err
	}
	return renderNote(note), nil
}

func (r *Registry) readNote(ctx context.Context, args map[string]any) (string, error) {
	id, err := stringArg(args, "id", true)
	if err != nil {
		return "", err
	}

	note, err := r.notes.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No note exists with id %s.", id), nil
	}
	if err != nil {
		return "", err
	}
	return renderNote(note), nil
}

func (r *Registry) readActiveNote(ctx context.Context, activeNoteID string) (string, error) {
	if activeNoteID == "" {
		return "No note is currently open in the editor.", nil
	}
	note, err := r.notes.Get(ctx, activeNoteID)
	if errors.Is(err, store.ErrNotFound) {
		return "No note is currently open in the editor.", nil
	}
	if err != nil {
		return "", err
	}
	return renderNote(note), nil
}

func (r *Registry) listFolders(ctx context.Context) (string, error) {
	folders, err := r.notes.Folders(ctx)
	if err != nil {
		return "", err
	}
	if len(folders) == 0 {
		return "The notebook has no folders.", nil
	}
	names := make([]string, 0, len(folders))
	for _, f := range folders {
		names = append(names, f.Name)
	}
	return "Folders: " + strings.Join(names, ", "), nil
}

func renderNote(n *models.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\nID: %s\n", n.Title, n.ID)
	if n.Folder != "" {
		fmt.Fprintf(&b, "Folder: %s\n", n.Folder)
	}
	if len(n.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(n.Tags, ", "))
	}
	b.WriteString("\n")
	b.WriteString(n.Body)
	return b.String()
}

func snippet(body string, max int) string {
	body = strings.Join(strings.Fields(body), " ")
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + "..."
}
