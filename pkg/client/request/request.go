/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package request builds the canonical descriptor of one ledger operation.
package request

import (
	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/validate"
)

// DefaultAttrs are the identity attributes disclosed with every request
// unless the caller provides its own list
var DefaultAttrs = []string{"username", "role"}

// Params are the raw parameters of a request. Args and Attrs are optional.
type Params struct {
	ChaincodeID string
	Fcn         string
	Args        []string
	Attrs       []string
}

// Spec describes one ledger operation. It is immutable once built: accessors
// return copies.
type Spec struct {
	chaincodeID string
	fcn         string
	args        []string
	attrs       []string
}

// New validates params and returns a Spec. A missing chaincode id or function
// is an InvalidInput error.
func New(params Params) (Spec, error) {
	return newSpec(params, DefaultAttrs)
}

func newSpec(params Params, defaultAttrs []string) (Spec, error) {
	if !validate.IsValidString(params.ChaincodeID) {
		return Spec{}, status.InvalidInputf("chaincode ID is required")
	}
	if !validate.IsValidString(params.Fcn) {
		return Spec{}, status.InvalidInputf("function name is required")
	}

	args := []string{}
	if validate.IsValidArray(params.Args) {
		args = append(args, params.Args...)
	}
	attrs := append([]string{}, defaultAttrs...)
	if validate.IsValidArray(params.Attrs) {
		attrs = append([]string{}, params.Attrs...)
	}

	return Spec{
		chaincodeID: params.ChaincodeID,
		fcn:         params.Fcn,
		args:        args,
		attrs:       attrs,
	}, nil
}

// ChaincodeID returns the target contract
func (s Spec) ChaincodeID() string {
	return s.chaincodeID
}

// Fcn returns the function to execute
func (s Spec) Fcn() string {
	return s.fcn
}

// Args returns a copy of the positional arguments
func (s Spec) Args() []string {
	return append([]string{}, s.args...)
}

// ArgsBytes returns the arguments in the byte form expected by ledger clients
func (s Spec) ArgsBytes() [][]byte {
	out := make([][]byte, len(s.args))
	for i, a := range s.args {
		out[i] = []byte(a)
	}
	return out
}

// Attrs returns a copy of the attribute names to disclose
func (s Spec) Attrs() []string {
	return append([]string{}, s.attrs...)
}

// IsZero returns true for a Spec that was never built
func (s Spec) IsZero() bool {
	return s.chaincodeID == "" && s.fcn == ""
}

// Builder creates Specs for a configured chaincode
type Builder struct {
	chaincodeID  string
	defaultAttrs []string
}

// BuilderOption configures a Builder
type BuilderOption func(b *Builder)

// WithDefaultAttrs overrides the attributes disclosed when a request names none
func WithDefaultAttrs(attrs ...string) BuilderOption {
	return func(b *Builder) {
		b.defaultAttrs = append([]string{}, attrs...)
	}
}

// NewBuilder returns a Builder for the given chaincode
func NewBuilder(chaincodeID string, opts ...BuilderOption) *Builder {
	b := &Builder{chaincodeID: chaincodeID, defaultAttrs: DefaultAttrs}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns a Spec calling fcn with args
func (b *Builder) Build(fcn string, args ...string) (Spec, error) {
	if args == nil {
		args = []string{}
	}
	return newSpec(Params{ChaincodeID: b.chaincodeID, Fcn: fcn, Args: args}, b.defaultAttrs)
}

// BuildWithAttrs returns a Spec calling fcn with args and an explicit attribute list
func (b *Builder) BuildWithAttrs(fcn string, attrs []string, args ...string) (Spec, error) {
	if args == nil {
		args = []string{}
	}
	return newSpec(Params{ChaincodeID: b.chaincodeID, Fcn: fcn, Args: args, Attrs: attrs}, b.defaultAttrs)
}

// ChaincodeID returns the chaincode the builder targets
func (b *Builder) ChaincodeID() string {
	return b.chaincodeID
}
