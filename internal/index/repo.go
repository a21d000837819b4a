package index

import (
	"fmt"
	"time"

	"github.com/starford/eihwaz/internal/models"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path      string
	Title     string
	Checksum  string
	Tags      []string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// UpsertNote inserts or replaces a note, its tag rows, and its FTS entry
// within a transaction.
func (db *DB) UpsertNote(n NoteRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO notes (path, title, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			checksum   = excluded.checksum,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, n.Path, n.Title, n.Checksum, body, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, n.Path, n.Title, body, n.Tags); err != nil {
		return err
	}

	// Replace tag rows: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM note_tags WHERE path = ?`, n.Path)
	if len(n.Tags) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO note_tags (path, tag) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare tag insert: %w", err)
		}
		defer stmt.Close()
		for _, tag := range n.Tags {
			if _, err := stmt.Exec(n.Path, tag); err != nil {
				return fmt.Errorf("index: insert tag: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note, its FTS entry, and its tag rows.
func (db *DB) DeleteNote(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM note_tags WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM notes WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllPaths returns every indexed note path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT path FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums returns path -> checksum for every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// AllTags returns every tag used across the vault with its note count,
// sorted by descending count then tag.
func (db *DB) AllTags() ([]models.TagUsage, error) {
	rows, err := db.conn.Query(`
		SELECT tag, COUNT(*) AS n
		FROM note_tags
		GROUP BY tag
		ORDER BY n DESC, tag ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("index: all tags: %w", err)
	}
	defer rows.Close()

	var out []models.TagUsage
	for rows.Next() {
		var u models.TagUsage
		if err := rows.Scan(&u.Tag, &u.Count); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// NotesWithTag returns paths of every note carrying the exact tag.
func (db *DB) NotesWithTag(tag string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT path FROM note_tags WHERE tag = ? ORDER BY path`, tag)
	if err != nil {
		return nil, fmt.Errorf("index: notes with tag: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListNotes returns paginated notes with an optional exact-tag filter.
func (db *DB) ListNotes(limit, offset int, tag string) ([]NoteRow, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if tag != "" {
		where = `WHERE path IN (SELECT path FROM note_tags WHERE tag = ?)`
		args = append(args, tag)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM notes `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count notes: %w", err)
	}

	query := `SELECT path, title, checksum, updated_at FROM notes ` + where + ` ORDER BY updated_at DESC LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list notes: %w", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		var r NoteRow
		if err := rows.Scan(&r.Path, &r.Title, &r.Checksum, &r.UpdatedAt); err != nil {
			return nil, 0, err
		}
		tags, err := db.tagsFor(r.Path)
		if err != nil {
			return nil, 0, err
		}
		r.Tags = tags
		out = append(out, r)
	}
	return out, total, rows.Err()
}

func (db *DB) tagsFor(path string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT tag FROM note_tags WHERE path = ? ORDER BY tag`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
