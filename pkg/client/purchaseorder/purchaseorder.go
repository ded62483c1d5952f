/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package purchaseorder manages purchase orders written to the ledger and
// mirrored into a queryable datastore.
//
// Writes go to the ledger first and to the mirror second, without a
// compensating transaction. A mirror failure after the ledger accepted the
// write is reported as an InternalServerError outcome wrapping a *MirrorError.
// Reads are served by the mirror; GetFromLedger reads the ledger directly.
package purchaseorder

import (
	reqContext "context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/ledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/request"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/logging"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/datastore"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/validate"
	"github.com/bankledger/mortgage-sdk-go/pkg/metrics"
	"github.com/bankledger/mortgage-sdk-go/pkg/util/decode"
)

var logger = logging.NewLogger("mortgagesdk/purchaseorder")

// Model is the datastore model name of purchase orders
const Model = "purchaseOrder"

// Chaincode functions
const (
	CreateFcn = "createPurchaseOrder"
	UpdateFcn = "updatePurchaseOrder"
	GetFcn    = "getPurchaseOrder"
)

const (
	createOp = "create"
	updateOp = "update"
)

// Ledger is the subset of the ledger client used by this package
type Ledger interface {
	Query(ctx reqContext.Context, user string, spec request.Spec, options ...ledger.RequestOption) (ledger.Response, error)
	Invoke(ctx reqContext.Context, user string, spec request.Spec, options ...ledger.RequestOption) (ledger.Response, error)
}

// Client performs purchase order operations
type Client struct {
	ledger      Ledger
	builder     *request.Builder
	store       datastore.Store
	metrics     *metrics.ClientMetrics
	newID       func() (string, error)
	requestOpts []ledger.RequestOption
}

// Option configures a Client
type Option func(c *Client)

// WithMetrics sets the instruments mirror failures are reported to
func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRequestOptions sets options applied to every ledger request
func WithRequestOptions(opts ...ledger.RequestOption) Option {
	return func(c *Client) {
		c.requestOpts = opts
	}
}

// New returns a Client writing through l and mirroring into store
func New(l Ledger, builder *request.Builder, store datastore.Store, opts ...Option) (*Client, error) {
	if l == nil {
		return nil, errors.New("ledger client is required")
	}
	if builder == nil {
		return nil, errors.New("request builder is required")
	}
	if store == nil {
		return nil, errors.New("datastore is required")
	}

	c := &Client{
		ledger:  l,
		builder: builder,
		store:   store,
		metrics: metrics.NewDiscard(),
		newID:   timeBasedID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func timeBasedID() (string, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return "", errors.Wrap(err, "failed to generate purchase order id")
	}
	return id.String(), nil
}

// Create writes a copy of po to the ledger as company and mirrors it. The
// copy gets a new id, status Submitted and user as last modifier; po itself
// is not modified. On success the body is the stored purchase order. When
// only the mirror write fails, the assigned id is carried by the *MirrorError.
func (c *Client) Create(ctx reqContext.Context, user, company string, po *PurchaseOrder) *outcome.Outcome {
	if o := validateWrite(user, company, po); o != nil {
		return o
	}

	id, err := c.newID()
	if err != nil {
		logger.Errorf("could not create purchase order: %s", err)
		return outcome.Internal("Could not create purchase order", err)
	}
	stored := *po
	stored.ID = id
	stored.LastModifiedBy = user
	stored.Status = StatusSubmitted
	if stored.Company == "" {
		stored.Company = company
	}

	return c.write(ctx, createOp, CreateFcn, company, &stored, c.store.Create)
}

// Update writes a copy of po, which must carry an id, to the ledger as
// company and updates the mirror. po is not modified. On success the body is
// the stored purchase order.
func (c *Client) Update(ctx reqContext.Context, user, company string, po *PurchaseOrder) *outcome.Outcome {
	if o := validateWrite(user, company, po); o != nil {
		return o
	}
	if !validate.IsValidString(po.ID) {
		return outcome.Invalid("id is invalid")
	}
	stored := *po
	stored.LastModifiedBy = user

	return c.write(ctx, updateOp, UpdateFcn, company, &stored, c.store.Update)
}

type mirrorWrite func(ctx reqContext.Context, model, id string, record []byte) error

func (c *Client) write(ctx reqContext.Context, op, fcn, company string, po *PurchaseOrder, mirror mirrorWrite) *outcome.Outcome {
	failure := "Could not " + op + " purchase order"

	record, err := json.Marshal(po)
	if err != nil {
		return outcome.Invalid("PurchaseOrder is invalid")
	}

	spec, err := c.builder.Build(fcn, po.ID, string(record))
	if err != nil {
		logger.Errorf("building %s request failed: %s", fcn, err)
		return outcome.Internal(failure, err)
	}

	resp, err := c.ledger.Invoke(ctx, company, spec, c.requestOpts...)
	if err != nil {
		logger.Errorf("could not %s purchase order [%s] on the ledger: %s", op, po.ID, err)
		return outcome.FromError(err, failure)
	}

	if err := mirror(ctx, Model, po.ID, record); err != nil {
		mirrorErr := &MirrorError{Operation: op, ID: po.ID, TxID: resp.TxID, Err: err}
		logger.Errorf("%s", mirrorErr)
		c.metrics.MirrorFailures.With(metrics.OperationLabel, op).Add(1)
		return outcome.Internal(failure, mirrorErr)
	}

	logger.Infof("Successfully %sd purchase order [%s] in transaction [%s]", op, po.ID, resp.TxID)
	return outcome.OK(po)
}

func validateWrite(user, company string, po *PurchaseOrder) *outcome.Outcome {
	if !validate.IsValidString(user) {
		return outcome.Invalid("user is invalid")
	}
	if !validate.IsValidString(company) {
		return outcome.Invalid("company is invalid")
	}
	if !validate.IsValidJSON(po) || !validate.IsValid(*po) {
		return outcome.Invalid("PurchaseOrder is invalid")
	}
	return nil
}

// Get reads the purchase order from the mirror datastore. The ledger is not
// consulted; a record missing from the mirror is reported as NotFound.
func (c *Client) Get(ctx reqContext.Context, user, id string) *outcome.Outcome {
	if !validate.IsValidString(user) {
		return outcome.Invalid("user is invalid")
	}
	if !validate.IsValidString(id) {
		return outcome.Invalid("id is invalid")
	}

	start := time.Now()
	record, err := c.store.Get(ctx, Model, id)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			logger.Debugf("purchase order [%s] not found in mirror", id)
			return outcome.Missing("Purchase order not found", err)
		}
		logger.Errorf("could not fetch purchase order [%s]: %s", id, err)
		return outcome.Internal("Could not fetch purchase order", err)
	}
	logger.Debugf("fetched purchase order [%s] from mirror in %s", id, time.Since(start))

	po := &PurchaseOrder{}
	if err := json.Unmarshal(record, po); err != nil {
		logger.Errorf("purchase order [%s] is malformed in mirror: %s", id, err)
		return outcome.Internal("Could not fetch purchase order", err)
	}
	return outcome.OK(po)
}

// GetFromLedger reads the purchase order directly from the ledger. It serves
// reconciliation of records whose mirror write failed.
func (c *Client) GetFromLedger(ctx reqContext.Context, user, id string) *outcome.Outcome {
	if !validate.IsValidString(user) {
		return outcome.Invalid("user is invalid")
	}
	if !validate.IsValidString(id) {
		return outcome.Invalid("id is invalid")
	}

	spec, err := c.builder.Build(GetFcn, id)
	if err != nil {
		return outcome.Internal("Could not fetch purchase order", err)
	}

	resp, err := c.ledger.Query(ctx, user, spec, c.requestOpts...)
	if err != nil {
		logger.Errorf("could not fetch purchase order [%s] from the ledger: %s", id, err)
		return outcome.FromError(err, "Could not fetch purchase order")
	}

	po := &PurchaseOrder{}
	if err := decode.Into(resp.Payload, po); err != nil {
		return outcome.Internal("Could not fetch purchase order", err)
	}
	return outcome.OK(po)
}
