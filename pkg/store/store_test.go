package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/hierarchy"
)

func sample(title string) *hierarchy.Node {
	return &hierarchy.Node{
		Title: title,
		Subtopics: []*hierarchy.Node{
			{
				Title:     "A",
				KeyPoints: []string{"a1", "a2"},
				Subtopics: []*hierarchy.Node{{Title: "A.1", KeyPoints: []string{"a1.1"}}},
			},
			{Title: "B", KeyPoints: []string{"b1"}},
		},
	}
}

// testStore runs the behavior every Store must share.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("CreateGet", func(t *testing.T) {
		rec, err := s.Create(ctx, sample("First"))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := uuid.Parse(rec.ID); err != nil {
			t.Errorf("ID %q is not a uuid", rec.ID)
		}
		if rec.Stats.Nodes() != 9 {
			t.Errorf("Stats.Nodes() = %d, want 9", rec.Stats.Nodes())
		}

		got, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Title != "First" || !got.CreatedAt.Equal(rec.CreatedAt) {
			t.Errorf("Get = %+v, want %+v", got, rec)
		}
		a, _ := hierarchy.Canonical(rec.Hierarchy)
		b, _ := hierarchy.Canonical(got.Hierarchy)
		if string(a) != string(b) {
			t.Errorf("hierarchy changed on round trip:\n%s\n%s", a, b)
		}
	})

	t.Run("CreateInvalid", func(t *testing.T) {
		_, err := s.Create(ctx, &hierarchy.Node{Title: ""})
		if !errors.Is(err, errors.ErrCodeInvalidHierarchy) {
			t.Errorf("err = %v, want INVALID_HIERARCHY", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		for _, id := range []string{uuid.NewString(), "../etc/passwd", ""} {
			if _, err := s.Get(ctx, id); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Get(%q) err = %v, want NOT_FOUND", id, err)
			}
			if err := s.Delete(ctx, id); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Delete(%q) err = %v, want NOT_FOUND", id, err)
			}
		}
	})

	t.Run("ListDelete", func(t *testing.T) {
		before, err := s.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
		rec, err := s.Create(ctx, sample("Second"))
		if err != nil {
			t.Fatal(err)
		}
		after, err := s.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(after) != len(before)+1 {
			t.Fatalf("List grew from %d to %d", len(before), len(after))
		}
		if after[0].ID != rec.ID {
			t.Errorf("newest record not first: %v", after[0])
		}

		if err := s.Delete(ctx, rec.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, rec.ID); !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("Get after Delete err = %v", err)
		}
	})
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestFileStoreListSkipsJunk(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(context.Background(), sample("Only")); err != nil {
		t.Fatal(err)
	}
	list, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Title != "Only" {
		t.Errorf("List = %+v", list)
	}
}

func TestSortSummaries(t *testing.T) {
	now := time.Now()
	s := []Summary{
		{ID: "b", CreatedAt: now},
		{ID: "c", CreatedAt: now.Add(time.Second)},
		{ID: "a", CreatedAt: now},
	}
	sortSummaries(s)
	got := []string{s[0].ID, s[1].ID, s[2].ID}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TOPICMAP_MONGO_URI")
	if uri == "" {
		t.Skip("TOPICMAP_MONGO_URI not set")
	}
	ctx := context.Background()
	db := "topicmap_test_" + uuid.NewString()[:8]
	s, err := NewMongoStore(ctx, uri, db)
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.client.Database(db).Drop(ctx)
		s.Close()
	}()
	testStore(t, s)
}
