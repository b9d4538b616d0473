package localstate

import (
	"context"
	"database/sql"

	"github.com/altronvault/altron/internal/dbx"
)

// Store is the database-backed Repository handed to the application. Single
// operations run directly against the connection; SetMany runs inside one
// transaction so related slots (folder ref plus sealed key) land together.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	return NewSQLiteRepository(s.db).Get(ctx, key)
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return NewSQLiteRepository(s.db).Set(ctx, key, value)
}

func (s *Store) SetMany(ctx context.Context, kv map[string][]byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		for k, v := range kv {
			if err := repo.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return NewSQLiteRepository(s.db).Delete(ctx, key)
}

func (s *Store) List(ctx context.Context) (map[string][]byte, error) {
	return NewSQLiteRepository(s.db).List(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	return NewSQLiteRepository(s.db).Clear(ctx)
}
