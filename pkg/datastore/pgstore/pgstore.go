/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package pgstore is a datastore.Store backed by PostgreSQL. Records are kept
// as jsonb rows keyed by model and id.
package pgstore

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/logging"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/datastore"
)

var logger = logging.NewLogger("mortgagesdk/pgstore")

const schema = `
CREATE TABLE IF NOT EXISTS mirror_records (
	model      TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	record     JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (model, id)
)`

// Store is a PostgreSQL mirror store
type Store struct {
	db    *sql.DB
	owned bool
}

// Open connects using a lib/pq connection string and creates the schema
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres failed")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping postgres failed")
	}
	s := &Store{db: db, owned: true}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection pool. Close does not close db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the mirror table if needed
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return errors.Wrap(err, "create mirror_records failed")
}

// Create inserts a new record. It fails if the record exists.
func (s *Store) Create(ctx context.Context, model, id string, record []byte) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO mirror_records (model, id, record)
		VALUES ($1, $2, $3)
		ON CONFLICT (model, id) DO NOTHING`, model, id, string(record))
	if err != nil {
		return errors.Wrapf(describe(err), "creating %s [%s] failed", model, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.Wrapf(datastore.ErrAlreadyExists, "%s [%s]", model, id)
	}
	return nil
}

// Update replaces an existing record
func (s *Store) Update(ctx context.Context, model, id string, record []byte) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE mirror_records SET record = $3, updated_at = now()
		WHERE model = $1 AND id = $2`, model, id, string(record))
	if err != nil {
		return errors.Wrapf(describe(err), "updating %s [%s] failed", model, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.Wrapf(datastore.ErrNotFound, "%s [%s]", model, id)
	}
	return nil
}

// Get returns the stored record
func (s *Store) Get(ctx context.Context, model, id string) ([]byte, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM mirror_records WHERE model = $1 AND id = $2`, model, id).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(datastore.ErrNotFound, "%s [%s]", model, id)
	}
	if err != nil {
		return nil, errors.Wrapf(describe(err), "reading %s [%s] failed", model, id)
	}
	return []byte(record), nil
}

// Close closes the pool when it was opened by this store
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// describe adds the postgres error code to driver errors
func describe(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		logger.Debugf("postgres error %s: %s", pqErr.Code, pqErr.Message)
		return errors.WithMessagef(err, "postgres code %s", pqErr.Code)
	}
	return err
}
