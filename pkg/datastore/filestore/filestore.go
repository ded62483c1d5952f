/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package filestore is a datastore.Store keeping one file per record
package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/datastore"
)

const (
	newDirMode  = 0700
	newFileMode = 0600
)

// KeySerializer converts a model and id to a unique file path
type KeySerializer func(model, id string) (string, error)

// Store stores each record into a separate file.
// KeySerializer maps a record to a unique file path (relative to the store path)
type Store struct {
	path          string
	keySerializer KeySerializer
	// serializes check-then-write sequences
	mu sync.Mutex
}

// Options allow overriding store defaults
type Options struct {
	// Store path, mandatory
	Path string
	// Optional. If not provided, <path>/<model>/<id>.json is used.
	KeySerializer KeySerializer
}

// New creates a new instance of Store using provided options
func New(opts *Options) (*Store, error) {
	if opts == nil {
		return nil, errors.New("filestore options is nil")
	}
	if opts.Path == "" {
		return nil, errors.New("filestore path is empty")
	}
	keySerializer := opts.KeySerializer
	if keySerializer == nil {
		keySerializer = func(model, id string) (string, error) {
			if err := checkSegment(model); err != nil {
				return "", errors.WithMessage(err, "invalid model")
			}
			if err := checkSegment(id); err != nil {
				return "", errors.WithMessage(err, "invalid id")
			}
			return filepath.Join(opts.Path, model, id+".json"), nil
		}
	}
	if err := os.MkdirAll(opts.Path, newDirMode); err != nil {
		return nil, errors.Wrap(err, "failed to create store directory")
	}
	return &Store{path: opts.Path, keySerializer: keySerializer}, nil
}

func checkSegment(s string) error {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return errors.Errorf("[%s] is not a valid path segment", s)
	}
	return nil
}

// GetPath returns the store path
func (s *Store) GetPath() string {
	return s.path
}

// Create writes a new record. It fails if the record exists.
func (s *Store) Create(ctx context.Context, model, id string, record []byte) error {
	if record == nil {
		return errors.New("record is nil")
	}
	file, err := s.keySerializer(model, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(file); err == nil {
		return errors.Wrapf(datastore.ErrAlreadyExists, "%s [%s]", model, id)
	}
	return write(file, record)
}

// Update replaces an existing record
func (s *Store) Update(ctx context.Context, model, id string, record []byte) error {
	if record == nil {
		return errors.New("record is nil")
	}
	file, err := s.keySerializer(model, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(file); os.IsNotExist(err) {
		return errors.Wrapf(datastore.ErrNotFound, "%s [%s]", model, id)
	}
	return write(file, record)
}

// Get returns the stored record.
// If the record was not found, returns datastore.ErrNotFound
func (s *Store) Get(ctx context.Context, model, id string) ([]byte, error) {
	file, err := s.keySerializer(model, id)
	if err != nil {
		return nil, err
	}
	record, err := os.ReadFile(file) // nolint: gas
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(datastore.ErrNotFound, "%s [%s]", model, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s [%s] failed", model, id)
	}
	return record, nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

// write replaces file through a temporary file so readers never see a partial record
func write(file string, record []byte) error {
	if err := os.MkdirAll(filepath.Dir(file), newDirMode); err != nil {
		return errors.Wrap(err, "mkdir failed")
	}
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, record, newFileMode); err != nil {
		return errors.Wrap(err, "write failed")
	}
	return errors.Wrap(os.Rename(tmp, file), "rename failed")
}
