package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iRKakashi/dragon-lance-web/internal/config"
	"github.com/iRKakashi/dragon-lance-web/pkg/actor"
	"github.com/iRKakashi/dragon-lance-web/pkg/state"
	"github.com/iRKakashi/dragon-lance-web/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rs, err := NewRedisStorage("redis://"+mr.Addr(), ttl, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })
	return rs, mr
}

func setupTestFiles(t *testing.T) *FileStorage {
	t.Helper()
	fs, err := NewFileStorage(filepath.Join(t.TempDir(), "saves"), testLogger())
	require.NoError(t, err)
	return fs
}

func sampleDoc(entryID string, at time.Time) *state.SaveDocument {
	gs := state.NewGameState(entryID)
	species := "Kender"
	gs.Species = &species
	gs.Inventory = []string{"hoopak"}
	pc := &actor.PlayerCharacter{Name: "Tasslehoff", Race: "Kender", IsComplete: true}
	pc.SetStats(actor.Stats5e{Strength: 8, Dexterity: 15, Constitution: 14, Intelligence: 12, Wisdom: 10, Charisma: 13})
	return state.NewSaveDocument(gs, pc, at)
}

// Both backends must behave the same through the Storage interface.
func backends(t *testing.T) map[string]storage.Storage {
	rs, _ := setupTestRedis(t, 0)
	return map[string]storage.Storage{
		"redis": rs,
		"file":  setupTestFiles(t),
	}
}

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 5, 4, 10, 30, 0, 0, time.UTC)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Ping(ctx))
			require.NoError(t, s.SaveGame(ctx, storage.DefaultSlot, sampleDoc("7", at)))

			doc, err := s.LoadGame(ctx, storage.DefaultSlot)
			require.NoError(t, err)
			require.NotNil(t, doc)
			assert.Equal(t, "7", doc.GameState.CurrentEntryID)
			assert.Equal(t, "Kender", *doc.GameState.Species)
			assert.Equal(t, []string{"hoopak"}, doc.GameState.Inventory)
			assert.Equal(t, "Tasslehoff", doc.PlayerCharacter.Name)
			assert.Equal(t, 2, doc.PlayerCharacter.Modifiers.Dexterity)
			assert.True(t, doc.Timestamp.Equal(at))
		})
	}
}

func TestStorage_MissingSlot(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			doc, err := s.LoadGame(ctx, "nobody-home")
			assert.NoError(t, err)
			assert.Nil(t, doc)
		})
	}
}

func TestStorage_InvalidSlot(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.SaveGame(ctx, "../escape", sampleDoc("1", time.Now())))
			_, err := s.LoadGame(ctx, "a/b")
			assert.Error(t, err)
			assert.Error(t, s.DeleteSave(ctx, ""))
			assert.Error(t, s.SaveGame(ctx, "ok", nil))
		})
	}
}

func TestStorage_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SaveGame(ctx, "first", sampleDoc("1", base)))
			require.NoError(t, s.SaveGame(ctx, "second", sampleDoc("12", base.Add(time.Minute))))

			saves, err := s.ListSaves(ctx)
			require.NoError(t, err)
			require.Len(t, saves, 2)
			assert.Equal(t, "second", saves[0].Slot)
			assert.Equal(t, "12", saves[0].EntryID)
			assert.Equal(t, "Tasslehoff", saves[0].Name)

			require.NoError(t, s.DeleteSave(ctx, "second"))
			require.NoError(t, s.DeleteSave(ctx, "second"), "deleting twice is fine")

			saves, err = s.ListSaves(ctx)
			require.NoError(t, err)
			require.Len(t, saves, 1)
			assert.Equal(t, "first", saves[0].Slot)
		})
	}
}

func TestRedisStorage_KeysAndTTL(t *testing.T) {
	ctx := context.Background()
	rs, mr := setupTestRedis(t, time.Hour)

	require.NoError(t, rs.SaveGame(ctx, "slot1", sampleDoc("3", time.Now())))

	assert.True(t, mr.Exists("savegame:slot1"))
	assert.Equal(t, time.Hour, mr.TTL("savegame:slot1"))
	members, err := mr.Members("savegames")
	require.NoError(t, err)
	assert.Equal(t, []string{"slot1"}, members)

	mr.FastForward(2 * time.Hour)
	saves, err := rs.ListSaves(ctx)
	require.NoError(t, err)
	assert.Empty(t, saves)
	assert.False(t, mr.Exists("savegames"), "expired slot pruned from index")
}

func TestRedisStorage_CorruptSave(t *testing.T) {
	ctx := context.Background()
	rs, mr := setupTestRedis(t, 0)

	require.NoError(t, mr.Set("savegame:broken", "{not json"))
	_, err := mr.SAdd("savegames", "broken")
	require.NoError(t, err)

	_, err = rs.LoadGame(ctx, "broken")
	assert.Error(t, err)

	saves, err := rs.ListSaves(ctx)
	require.NoError(t, err)
	assert.Empty(t, saves)
}

func TestRedisStorage_Unavailable(t *testing.T) {
	ctx := context.Background()
	rs, mr := setupTestRedis(t, 0)
	mr.Close()

	assert.Error(t, rs.Ping(ctx))
	assert.Error(t, rs.SaveGame(ctx, "slot", sampleDoc("1", time.Now())))
	_, err := rs.LoadGame(ctx, "slot")
	assert.Error(t, err)

	wctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	assert.Error(t, rs.WaitForConnection(wctx, 3, time.Second))
}

func TestNewRedisStorage_BadURL(t *testing.T) {
	_, err := NewRedisStorage("http://localhost:6379", 0, testLogger())
	assert.Error(t, err)
}

func TestFileStorage_CorruptAndForeignFiles(t *testing.T) {
	ctx := context.Background()
	fs := setupTestFiles(t)

	require.NoError(t, os.WriteFile(filepath.Join(fs.dir, "broken.json"), []byte("{"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(fs.dir, "notes.txt"), []byte("hi"), 0o600))
	require.NoError(t, fs.SaveGame(ctx, "good", sampleDoc("2", time.Now())))

	_, err := fs.LoadGame(ctx, "broken")
	assert.Error(t, err)

	saves, err := fs.ListSaves(ctx)
	require.NoError(t, err)
	require.Len(t, saves, 1)
	assert.Equal(t, "good", saves[0].Slot)

	matches, err := filepath.Glob(filepath.Join(fs.dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "no temp files left behind")
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	fs, err := Open(ctx, &config.Config{SaveBackend: config.BackendFile, SaveDir: t.TempDir()}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &FileStorage{}, fs)

	rs, err := Open(ctx, &config.Config{SaveBackend: config.BackendRedis, RedisURL: mr.Addr()}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &RedisStorage{}, rs)
	require.NoError(t, rs.Ping(ctx))
	require.NoError(t, rs.Close())

	_, err = Open(ctx, &config.Config{SaveBackend: "s3"}, testLogger())
	assert.Error(t, err)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	prevRetries, prevDelay := redisConnectRetries, redisRetryDelay
	redisConnectRetries, redisRetryDelay = 2, time.Millisecond
	t.Cleanup(func() { redisConnectRetries, redisRetryDelay = prevRetries, prevDelay })

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), &config.Config{SaveBackend: config.BackendRedis, RedisURL: addr}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 attempts")
}

func TestRedisStorage_WaitForConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	rs, err := NewRedisStorage(mr.Addr(), 0, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })

	require.NoError(t, rs.WaitForConnection(context.Background(), 1, time.Millisecond))

	mr.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = rs.WaitForConnection(ctx, 3, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
