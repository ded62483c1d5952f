/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package redisstore is a datastore.Store backed by Redis
package redisstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	backend "github.com/redis/go-redis/v9"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/datastore"
)

const defaultPrefix = "mortgagesdk:"

// Store keeps each record under <prefix><model>:<id>
type Store struct {
	client backend.UniversalClient
	prefix string
	ttl    time.Duration
}

// Option configures a Store
type Option func(*Store)

// WithTTL sets the expiration of records. Zero keeps records forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New connects to the Redis server at url, e.g. redis://localhost:6379/0
func New(url string, opts ...Option) (*Store, error) {
	options, err := backend.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis url")
	}
	return NewFromClient(backend.NewClient(options), opts...), nil
}

// NewFromClient creates a Store from an existing client
func NewFromClient(client backend.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(model, id string) string {
	return s.prefix + model + ":" + id
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return errors.Wrap(s.client.Ping(ctx).Err(), "redis ping failed")
}

// Create stores a new record. It fails if the record exists.
func (s *Store) Create(ctx context.Context, model, id string, record []byte) error {
	ok, err := s.client.SetNX(ctx, s.key(model, id), record, s.ttl).Result()
	if err != nil {
		return errors.Wrapf(err, "creating %s [%s] failed", model, id)
	}
	if !ok {
		return errors.Wrapf(datastore.ErrAlreadyExists, "%s [%s]", model, id)
	}
	return nil
}

// Update replaces an existing record
func (s *Store) Update(ctx context.Context, model, id string, record []byte) error {
	ok, err := s.client.SetXX(ctx, s.key(model, id), record, s.ttl).Result()
	if err != nil {
		return errors.Wrapf(err, "updating %s [%s] failed", model, id)
	}
	if !ok {
		return errors.Wrapf(datastore.ErrNotFound, "%s [%s]", model, id)
	}
	return nil
}

// Get returns the stored record
func (s *Store) Get(ctx context.Context, model, id string) ([]byte, error) {
	record, err := s.client.Get(ctx, s.key(model, id)).Bytes()
	if err == backend.Nil {
		return nil, errors.Wrapf(datastore.ErrNotFound, "%s [%s]", model, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s [%s] failed", model, id)
	}
	return record, nil
}

// Close closes the client
func (s *Store) Close() error {
	return s.client.Close()
}
