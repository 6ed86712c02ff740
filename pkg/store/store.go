// Package store persists summary hierarchies so they can be laid out again
// later by ID.
//
// Two backends implement [Store]:
//   - [FileStore]: one JSON file per hierarchy, for the CLI and single-node servers
//   - [MongoStore]: a MongoDB collection, for servers sharing state
//
// # Usage
//
//	s, err := store.NewFileStore("")  // Uses ~/.config/topicmap/hierarchies/
//	rec, err := s.Create(ctx, h)
//	rec, err = s.Get(ctx, rec.ID)
//
// Missing records fail with a NOT_FOUND [errors.Error].
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/hierarchy"
)

// Record is a stored hierarchy.
type Record struct {
	ID        string          `json:"id" bson:"_id"`
	Title     string          `json:"title" bson:"title"`
	Hierarchy *hierarchy.Node `json:"hierarchy" bson:"hierarchy"`
	Stats     hierarchy.Stats `json:"stats" bson:"stats"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}

// Summary is a [Record] without its hierarchy, as returned by List.
type Summary struct {
	ID        string          `json:"id" bson:"_id"`
	Title     string          `json:"title" bson:"title"`
	Stats     hierarchy.Stats `json:"stats" bson:"stats"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}

// Store persists hierarchies. Implementations must be safe for concurrent use.
type Store interface {
	// Create validates h and stores it under a new ID.
	Create(ctx context.Context, h *hierarchy.Node) (*Record, error)

	// Get returns the record with the given ID.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes the record with the given ID.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the store.
	Close() error
}

// NewRecord validates h and wraps it in a record with a fresh ID.
func NewRecord(h *hierarchy.Node) (*Record, error) {
	if err := hierarchy.Validate(h); err != nil {
		return nil, err
	}
	return &Record{
		ID:        uuid.NewString(),
		Title:     h.Title,
		Hierarchy: h,
		Stats:     hierarchy.Count(h),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}, nil
}

// Summary returns r without its hierarchy.
func (r *Record) Summary() Summary {
	return Summary{ID: r.ID, Title: r.Title, Stats: r.Stats, CreatedAt: r.CreatedAt}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "hierarchy %q not found", id)
}

// validID reports whether id has the shape NewRecord produces.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// sortSummaries orders s newest first, breaking ties by ID.
func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
