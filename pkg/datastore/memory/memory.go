/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package memory is a datastore.Store held in process memory
package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/datastore"
)

type key struct {
	model, id string
}

// Store keeps records in a map
type Store struct {
	mu      sync.RWMutex
	records map[key][]byte
}

// New returns an empty Store
func New() *Store {
	return &Store{records: make(map[key][]byte)}
}

// Create stores record under (model, id). It fails if the record exists.
func (s *Store) Create(ctx context.Context, model, id string, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{model, id}
	if _, ok := s.records[k]; ok {
		return errors.Wrapf(datastore.ErrAlreadyExists, "%s [%s]", model, id)
	}
	s.records[k] = append([]byte{}, record...)
	return nil
}

// Update replaces an existing record
func (s *Store) Update(ctx context.Context, model, id string, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{model, id}
	if _, ok := s.records[k]; !ok {
		return errors.Wrapf(datastore.ErrNotFound, "%s [%s]", model, id)
	}
	s.records[k] = append([]byte{}, record...)
	return nil
}

// Get returns a copy of the record
func (s *Store) Get(ctx context.Context, model, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key{model, id}]
	if !ok {
		return nil, errors.Wrapf(datastore.ErrNotFound, "%s [%s]", model, id)
	}
	return append([]byte{}, record...), nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}
