/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package datastore defines the mirror store that keeps a queryable copy of
// ledger records.
package datastore

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound indicates that a record for the id does not exist
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates that Create was called for an existing id
	ErrAlreadyExists = errors.New("record already exists")
)

// Store keeps JSON encoded records keyed by model name and id
type Store interface {
	Create(ctx context.Context, model, id string, record []byte) error
	Update(ctx context.Context, model, id string, record []byte) error
	Get(ctx context.Context, model, id string) ([]byte, error)
	Close() error
}
