package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/dungeongen/internal/dungeon"
	"github.com/louisbranch/dungeongen/internal/random"
	"github.com/louisbranch/dungeongen/internal/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestPutGetDungeonRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.October, 14, 10, 30, 0, 0, time.UTC)
	input := generatedRecord(t, "dgn-1", 77, now)

	if err := store.PutDungeon(context.Background(), input); err != nil {
		t.Fatalf("put dungeon: %v", err)
	}
	got, err := store.GetDungeon(context.Background(), "dgn-1")
	if err != nil {
		t.Fatalf("get dungeon: %v", err)
	}
	if got.ID != input.ID || got.Seed != input.Seed {
		t.Fatalf("id/seed = %q/%d, want %q/%d", got.ID, got.Seed, input.ID, input.Seed)
	}
	if got.Width != input.Width || got.Height != input.Height || got.Entrance != input.Entrance {
		t.Fatalf("unexpected layout header %+v", got)
	}
	if got.Covered != input.Covered || got.Passes != input.Passes {
		t.Fatalf("covered/passes = %d/%d, want %d/%d", got.Covered, got.Passes, input.Covered, input.Passes)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, now)
	}
	if string(got.Cells) != string(input.Cells) {
		t.Fatalf("cells differ after round trip")
	}
	if _, err := got.Grid(); err != nil {
		t.Fatalf("stored grid invalid: %v", err)
	}
}

func TestPutDungeonReturnsAlreadyExistsOnDuplicate(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	input := generatedRecord(t, "dgn-dup", 3, time.Now())
	if err := store.PutDungeon(context.Background(), input); err != nil {
		t.Fatalf("put initial dungeon: %v", err)
	}
	err := store.PutDungeon(context.Background(), input)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate put error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestPutDungeonValidatesInput(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	valid := generatedRecord(t, "dgn-valid", 4, time.Now())
	tests := []struct {
		name   string
		mutate func(*storage.Record)
	}{
		{"missing id", func(r *storage.Record) { r.ID = "  " }},
		{"zero width", func(r *storage.Record) { r.Width = 0 }},
		{"short cells", func(r *storage.Record) { r.Cells = r.Cells[:1] }},
	}
	for _, tt := range tests {
		record := valid
		tt.mutate(&record)
		if err := store.PutDungeon(context.Background(), record); err == nil {
			t.Fatalf("%s: expected validation error", tt.name)
		}
	}
}

func TestGetDungeonNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.GetDungeon(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListDungeonsPagesNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{"old", "mid-a", "mid-b", "new"}
	offsets := []time.Duration{0, time.Hour, time.Hour, 2 * time.Hour}
	for i, id := range ids {
		record := generatedRecord(t, id, int64(i+1), base.Add(offsets[i]))
		if err := store.PutDungeon(context.Background(), record); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	var got []string
	token := ""
	pages := 0
	for {
		page, err := store.ListDungeons(context.Background(), 2, token)
		if err != nil {
			t.Fatalf("list dungeons: %v", err)
		}
		pages++
		for _, r := range page.Records {
			got = append(got, r.ID)
		}
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
		if pages > 5 {
			t.Fatal("pagination did not terminate")
		}
	}

	want := []string{"new", "mid-a", "mid-b", "old"}
	if len(got) != len(want) {
		t.Fatalf("listed %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("listed %v, want %v", got, want)
		}
	}
	if pages != 2 {
		t.Fatalf("expected 2 pages, got %d", pages)
	}
}

func TestListDungeonsDefaultPageSize(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	for i, id := range []string{"a", "b", "c"} {
		if err := store.PutDungeon(context.Background(), generatedRecord(t, id, int64(i+1), time.Now())); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}
	page, err := store.ListDungeons(context.Background(), 0, "")
	if err != nil {
		t.Fatalf("list dungeons: %v", err)
	}
	if len(page.Records) != 3 || page.NextPageToken != "" {
		t.Fatalf("expected a single page of 3, got %d records token %q", len(page.Records), page.NextPageToken)
	}
}

func TestListDungeonsRejectsBadToken(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.ListDungeons(context.Background(), 2, "not a token"); err == nil {
		t.Fatal("expected invalid token error")
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.GetDungeon(ctx, "any"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func generatedRecord(t *testing.T, id string, seed int64, createdAt time.Time) storage.Record {
	t.Helper()

	gen, err := dungeon.NewGenerator(random.NewSeededSource(seed), dungeon.DefaultConfig())
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	result, err := gen.Generate(context.Background(), 6, 6)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return storage.NewRecord(id, seed, result, createdAt)
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "dungeons.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
