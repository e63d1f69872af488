// Package storage persists whole collections (drafts, orders) as JSON
// documents behind a small key/value contract.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/davimluiz/copiacantinho-sub000/internal/config"
	"github.com/davimluiz/copiacantinho-sub000/internal/database"
	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
)

// Collection names
const (
	Drafts = "drafts"
	Orders = "orders"
)

// Store saves and loads collections. Save replaces the whole collection.
// Load of a collection that was never saved returns nil and leaves dst
// untouched.
type Store interface {
	Load(ctx context.Context, collection string, dst any) error
	Save(ctx context.Context, collection string, src any) error
	Close(ctx context.Context) error
}

// Open connects the backend named by cfg.Storage.Driver
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (Store, error) {
	switch cfg.Storage.Driver {
	case "", "file":
		return NewFileStore(cfg.Storage.Dir)
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		db, err := database.New(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.RunMigrations(ctx, database.Migrations()); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return NewPostgresStore(db), nil
	case "redis":
		return NewRedisStore(ctx, cfg.Redis)
	case "mongo":
		return NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func encode(collection string, src any) ([]byte, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	return data, nil
}

func decode(collection string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return nil
}
