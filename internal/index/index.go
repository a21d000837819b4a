package index

import "github.com/starford/eihwaz/internal/models"

// NoteIndex defines the interface for tag-index operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type NoteIndex interface {
	UpsertNote(n NoteRow, body string) error
	DeleteNote(path string) error
	GetChecksum(path string) (string, error)
	ListNotes(limit, offset int, tag string) ([]NoteRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllTags() ([]models.TagUsage, error)
	NotesWithTag(tag string) ([]string, error)
	AllPaths() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies NoteIndex at compile time.
var _ NoteIndex = (*DB)(nil)
