package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedVideo(t *testing.T, store *SQLiteStore, id, title, status string) {
	t.Helper()
	_, err := store.db.ExecContext(
		context.Background(),
		`INSERT INTO videos (id, title, status) VALUES (?, ?, ?)`,
		id, title, status,
	)
	require.NoError(t, err)
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	assert.Error(t, err)
}

func TestUpsert_InsertThenUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, CaptionRecord{
		VideoID:  "V1",
		Language: "en",
		FilePath: "/srv/captions/V1_en.vtt",
	}))

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "/srv/captions/V1_en.vtt", records[0].FilePath)
	assert.False(t, records[0].CreatedAt.IsZero())

	// second upsert for the same (video, language) updates, not duplicates
	require.NoError(t, store.Upsert(ctx, CaptionRecord{
		VideoID:  "V1",
		Language: "en",
		FilePath: "/srv/captions/moved/V1_en.vtt",
	}))

	records, err = store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "/srv/captions/moved/V1_en.vtt", records[0].FilePath)
}

func TestUpsert_RequiresKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Upsert(ctx, CaptionRecord{Language: "en"}))
	assert.Error(t, store.Upsert(ctx, CaptionRecord{VideoID: "V1"}))
}

func TestListByVideo(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, record := range []CaptionRecord{
		{VideoID: "V1", Language: "en", FilePath: "/srv/V1_en.vtt"},
		{VideoID: "V1", Language: "de", FilePath: "/srv/V1_de.vtt"},
		{VideoID: "V2", Language: "en", FilePath: "/srv/V2_en.vtt"},
	} {
		require.NoError(t, store.Upsert(ctx, record))
	}

	records, err := store.ListByVideo(ctx, "V1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "de", records[0].Language)
	assert.Equal(t, "en", records[1].Language)

	records, err = store.ListByVideo(ctx, "V9")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestVideoCatalog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedVideo(t, store, "V2", "Second video", "ready")
	seedVideo(t, store, "V1", "First video", "ready")

	ids, err := store.ListVideoIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"V1", "V2"}, ids)

	videos, err := store.ListVideos(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, Video{ID: "V1", Title: "First video", Status: "ready"}, videos[0])
}

func TestMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), CaptionRecord{
		VideoID: "V1", Language: "en", FilePath: "/srv/V1_en.vtt",
	}))
	require.NoError(t, store.Close())

	// reopening the same database must not reapply migrations or lose rows
	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, 1, migrationVersion("001_init.sql"))
	assert.Equal(t, 12, migrationVersion("012_add_index.sql"))
	assert.Equal(t, 0, migrationVersion("init.sql"))
}
