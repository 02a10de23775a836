// Package sqlite implements the note store on a local SQLite file.
//
// Embedding vectors are stored as JSON arrays in a TEXT column and compared
// in memory; at personal-notebook scale a real vector index buys nothing.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/avholm/smartnotes/internal/models"
	"github.com/avholm/smartnotes/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	body          TEXT NOT NULL DEFAULT '',
	tags          TEXT NOT NULL DEFAULT '[]',
	folder        TEXT NOT NULL DEFAULT '',
	linked_titles TEXT NOT NULL DEFAULT '[]',
	ai_links      TEXT NOT NULL DEFAULT '[]',
	created_at    INTEGER NOT NULL,
	updated_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS embeddings (
	note_id      TEXT PRIMARY KEY REFERENCES notes(id) ON DELETE CASCADE,
	vector       TEXT NOT NULL,
	generated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title);
CREATE INDEX IF NOT EXISTS idx_notes_folder ON notes(folder);
`

// Store is the SQLite-backed note store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if necessary) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const noteColumns = "id, title, body, tags, folder, linked_titles, ai_links, created_at, updated_at"

func scanNote(row interface{ Scan(...any) error }) (*models.Note, error) {
	var (
		n                          models.Note
		tags, linked, ai           string
		createdMilli, updatedMilli int64
	)
	err := row.Scan(&n.ID, &n.Title, &n.Body, &tags, &n.Folder, &linked, &ai, &createdMilli, &updatedMilli)
	if err != nil {
		return nil, err
	}
	if err := decodeStrings(tags, &n.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := decodeStrings(linked, &n.LinkedTitles); err != nil {
		return nil, fmt.Errorf("decode linked titles: %w", err)
	}
	if err := decodeStrings(ai, &n.AILinks); err != nil {
		return nil, fmt.Errorf("decode ai links: %w", err)
	}
	n.CreatedAt = time.UnixMilli(createdMilli)
	n.UpdatedAt = time.UnixMilli(updatedMilli)
	return &n, nil
}

func decodeStrings(raw string, dst *[]string) error {
	if raw == "" || raw == "[]" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func encodeStrings(vals []string) string {
	if len(vals) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(vals)
	return string(b)
}

// GetNote returns the note with the given ID or store.ErrNotFound.
func (s *Store) GetNote(ctx context.Context, id string) (*models.Note, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = ?", id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// SaveNote inserts or updates a note. CreatedAt is preserved on update.
func (s *Store) SaveNote(ctx context.Context, note *models.Note) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			tags = excluded.tags,
			folder = excluded.folder,
			linked_titles = excluded.linked_titles,
			ai_links = excluded.ai_links,
			updated_at = excluded.updated_at`,
		note.ID, note.Title, note.Body,
		encodeStrings(note.Tags), note.Folder,
		encodeStrings(note.LinkedTitles), encodeStrings(note.AILinks),
		note.CreatedAt.UnixMilli(), note.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	return nil
}

// DeleteNote removes a note and, via cascade, its embedding record.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListNotes returns all notes ordered by last modification, newest first.
func (s *Store) ListNotes(ctx context.Context) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+noteColumns+" FROM notes ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

// SearchNotesByText performs a case-insensitive substring search over titles
// and bodies.
func (s *Store) SearchNotesByText(ctx context.Context, query string) ([]models.Note, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE title LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC`,
		pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

func collectNotes(rows *sql.Rows) ([]models.Note, error) {
	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// ListFolders returns the distinct non-empty folders in use.
func (s *Store) ListFolders(ctx context.Context) ([]models.Folder, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT folder FROM notes WHERE folder != '' ORDER BY folder")
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, models.Folder{ID: name, Name: name})
	}
	return folders, rows.Err()
}

// GetEmbedding returns the stored embedding for a note, or nil when absent.
func (s *Store) GetEmbedding(ctx context.Context, noteID string) (*models.EmbeddingRecord, error) {
	var (
		raw   string
		milli int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT vector, generated_at FROM embeddings WHERE note_id = ?", noteID).
		Scan(&raw, &milli)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get embedding: %w", err)
	}

	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return nil, fmt.Errorf("decode vector: %w", err)
	}
	return &models.EmbeddingRecord{
		NoteID:      noteID,
		Vector:      vec,
		GeneratedAt: time.UnixMilli(milli),
	}, nil
}

// PutEmbedding inserts or overwrites a note's embedding record.
func (s *Store) PutEmbedding(ctx context.Context, rec *models.EmbeddingRecord) error {
	raw, err := json.Marshal(rec.Vector)
	if err != nil {
		return fmt.Errorf("encode vector: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO embeddings (note_id, vector, generated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(note_id) DO UPDATE SET
			vector = excluded.vector,
			generated_at = excluded.generated_at`,
		rec.NoteID, string(raw), rec.GeneratedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("put embedding: %w", err)
	}
	return nil
}

// ListEmbeddings loads every stored embedding record.
func (s *Store) ListEmbeddings(ctx context.Context) ([]models.EmbeddingRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT note_id, vector, generated_at FROM embeddings")
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}
	defer rows.Close()

	recs := []models.EmbeddingRecord{}
	for rows.Next() {
		var (
			rec   models.EmbeddingRecord
			raw   string
			milli int64
		)
		if err := rows.Scan(&rec.NoteID, &raw, &milli); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &rec.Vector); err != nil {
			return nil, fmt.Errorf("decode vector: %w", err)
		}
		rec.GeneratedAt = time.UnixMilli(milli)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
