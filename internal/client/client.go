// Package client provides a typed HTTP client for the SmartNotes API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/avholm/smartnotes/internal/api"
	"github.com/avholm/smartnotes/internal/metrics"
	"github.com/avholm/smartnotes/internal/models"
)

// Client talks to a running SmartNotes API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses the SMARTNOTES_SERVER_URL env var or defaults to
// http://localhost:8000. Timeout can be configured via
// SMARTNOTES_CLIENT_TIMEOUT (default 60s; chat turns can take a while).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("SMARTNOTES_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	timeout := 60 * time.Second
	if t := os.Getenv("SMARTNOTES_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error: %s - %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("server error: %s", resp.Status)
	}

	if result != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// ListNotes returns all notes, newest first.
func (c *Client) ListNotes(ctx context.Context) ([]models.Note, error) {
	var resp api.NoteListResponse
	if err := c.do(ctx, http.MethodGet, "/notes", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}

// GetNote retrieves a note by ID.
func (c *Client) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+id, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// CreateNote creates a new note.
func (c *Client) CreateNote(ctx context.Context, title, body, folder string) (*models.Note, error) {
	req := api.CreateNoteRequest{Title: title, Body: body, Folder: folder}
	var note models.Note
	if err := c.do(ctx, http.MethodPost, "/notes", req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote updates a note's body. mode is "append" or "overwrite"; empty
// means overwrite.
func (c *Client) UpdateNote(ctx context.Context, id, body, mode string) (*models.Note, error) {
	req := api.UpdateNoteRequest{Body: body, Mode: mode}
	var note models.Note
	if err := c.do(ctx, http.MethodPut, "/notes/"+id, req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote deletes a note by ID.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+id, nil, nil)
}

// Search performs a text search over titles and bodies.
func (c *Client) Search(ctx context.Context, query string) ([]models.Note, error) {
	var resp api.SearchResponse
	path := "/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Graph returns the relationship graph.
func (c *Client) Graph(ctx context.Context) (*api.GraphResponse, error) {
	var resp api.GraphResponse
	if err := c.do(ctx, http.MethodGet, "/graph", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Folders returns the folders in the notebook.
func (c *Client) Folders(ctx context.Context) ([]models.Folder, error) {
	var resp api.FoldersResponse
	if err := c.do(ctx, http.MethodGet, "/folders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// Stats returns the server's in-memory runtime statistics.
func (c *Client) Stats(ctx context.Context) (*metrics.Snapshot, error) {
	var snap metrics.Snapshot
	if err := c.do(ctx, http.MethodGet, "/metrics", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Chat runs one assistant turn. history carries the prior conversation and
// activeNoteID identifies the note open in the editor, if any.
func (c *Client) Chat(ctx context.Context, message string, history []models.ChatMessage, activeNoteID string) (string, error) {
	req := api.ChatRequest{Message: message, History: history, ActiveNoteID: activeNoteID}
	var resp api.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}
