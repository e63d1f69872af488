package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/davimluiz/copiacantinho-sub000/internal/database"
	"github.com/jackc/pgx/v5"
)

// PostgresStore keeps each collection as one JSONB row of the collections
// table.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, collection string, dst any) error {
	var payload []byte
	err := s.db.QueryRow(ctx, database.GetCollectionSQL, collection).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	return decode(collection, payload, dst)
}

func (s *PostgresStore) Save(ctx context.Context, collection string, src any) error {
	data, err := encode(collection, src)
	if err != nil {
		return err
	}
	if err := s.db.Exec(ctx, database.UpsertCollectionSQL, collection, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", collection, err)
	}
	return nil
}

func (s *PostgresStore) Close(context.Context) error {
	s.db.Close()
	return nil
}
