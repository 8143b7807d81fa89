package session

import (
	"context"
	"database/sql"
	"sort"

	"github.com/dmitrijs2005/taskdesk/internal/client/repositories"
	"github.com/dmitrijs2005/taskdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/taskdesk/internal/dbx"
)

// SQLiteStore persists the session in the local database so it survives
// restarts of the CLI.
type SQLiteStore struct {
	db   *sql.DB
	meta metadata.Repository
}

// NewSQLiteStore reads through the database's metadata repository and
// writes through transaction-bound copies of it.
func NewSQLiteStore(d *repositories.Database) *SQLiteStore {
	return &SQLiteStore{db: d.DB, meta: d.Metadata}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.meta.Get(ctx, key)
}

// SetAll writes every pair in one transaction.
func (s *SQLiteStore) SetAll(ctx context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, k := range keys {
			if err := repo.Set(ctx, k, values[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteAll removes the keys in one transaction.
func (s *SQLiteStore) DeleteAll(ctx context.Context, keys ...string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, keys...)
	})
}
