package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iRKakashi/dragon-lance-web/internal/config"
	"github.com/iRKakashi/dragon-lance-web/pkg/storage"
)

// Redis startup retries. Tests shorten them.
var (
	redisConnectRetries = 10
	redisRetryDelay     = time.Second
)

// Open returns the save backend named by the configuration. A Redis backend
// is returned only once the server answers.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.SaveBackend {
	case config.BackendFile, "":
		return NewFileStorage(cfg.SaveDir, logger)
	case config.BackendRedis:
		rs, err := NewRedisStorage(cfg.RedisURL, cfg.SaveTTL, logger)
		if err != nil {
			return nil, err
		}
		if err := rs.WaitForConnection(ctx, redisConnectRetries, redisRetryDelay); err != nil {
			_ = rs.Close()
			return nil, err
		}
		return rs, nil
	}
	return nil, fmt.Errorf("unknown save backend %q", cfg.SaveBackend)
}
