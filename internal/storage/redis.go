package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iRKakashi/dragon-lance-web/pkg/state"
	"github.com/iRKakashi/dragon-lance-web/pkg/storage"
)

const (
	saveKeyPrefix = "savegame:"
	saveIndexKey  = "savegames"
)

// RedisStorage keeps save slots in Redis as JSON strings under
// savegame:<slot>, with the slot names indexed in the savegames set.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. redisURL may be a
// redis:// URL or a bare host:port. A zero ttl keeps saves forever.
func NewRedisStorage(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	var opt *redis.Options
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: redisURL}
	}

	return &RedisStorage{
		client: redis.NewClient(opt),
		logger: logger,
		ttl:    ttl,
	}, nil
}

// Client returns the underlying Redis client, e.g. to share with the
// event broadcaster.
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Save slot operations

func (r *RedisStorage) SaveGame(ctx context.Context, slot string, doc *state.SaveDocument) error {
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}
	if doc == nil {
		return errors.New("save document cannot be nil")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		r.logger.Error("Failed to marshal save", "slot", slot, "error", err)
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, saveKeyPrefix+slot, string(data), r.ttl)
	pipe.SAdd(ctx, saveIndexKey, slot)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to save game", "slot", slot, "error", err)
		return fmt.Errorf("failed to save game: %w", err)
	}

	r.logger.Debug("Game saved", "slot", slot, "entry_id", doc.GameState.CurrentEntryID)
	return nil
}

func (r *RedisStorage) LoadGame(ctx context.Context, slot string) (*state.SaveDocument, error) {
	if err := storage.ValidateSlot(slot); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, saveKeyPrefix+slot).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Save not found", "slot", slot)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load save", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to load save: %w", err)
	}

	doc, err := state.ParseSaveDocument([]byte(data))
	if err != nil {
		r.logger.Error("Failed to decode save", "slot", slot, "error", err)
		return nil, err
	}
	return doc, nil
}

// ListSaves reads every indexed slot. Slots whose key has expired are
// dropped from the index as they are found.
func (r *RedisStorage) ListSaves(ctx context.Context) ([]storage.SaveInfo, error) {
	slots, err := r.client.SMembers(ctx, saveIndexKey).Result()
	if err != nil {
		r.logger.Error("Failed to list saves", "error", err)
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}

	out := make([]storage.SaveInfo, 0, len(slots))
	for _, slot := range slots {
		data, err := r.client.Get(ctx, saveKeyPrefix+slot).Result()
		if errors.Is(err, redis.Nil) {
			if err := r.client.SRem(ctx, saveIndexKey, slot).Err(); err != nil {
				r.logger.Warn("Failed to prune expired save", "slot", slot, "error", err)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read save %s: %w", slot, err)
		}
		doc, err := state.ParseSaveDocument([]byte(data))
		if err != nil {
			r.logger.Warn("Skipping unreadable save", "slot", slot, "error", err)
			continue
		}
		out = append(out, storage.Describe(slot, doc))
	}
	storage.SortSaves(out)
	return out, nil
}

func (r *RedisStorage) DeleteSave(ctx context.Context, slot string) error {
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, saveKeyPrefix+slot)
	pipe.SRem(ctx, saveIndexKey, slot)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to delete save", "slot", slot, "error", err)
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}
