/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package multi is an error type that holds multiple errors. These errors
// typically originate from operations made of several dependent steps.
// For example, registering a user is a CA registration followed by a
// ledger identity creation; both may contribute an error.
package multi

import (
	"strings"
)

// Errors is used to represent multiple errors
type Errors []error

// New Errors object with the given errors. Only non-nil errors are added.
// A single error is returned as is.
func New(errs ...error) error {
	var collected Errors
	for _, err := range errs {
		collected = collected.append(err)
	}
	return collected.ToError()
}

// Append error to Errors. If the first arg is not an Errors object, one will be created
func Append(errs error, err error) error {
	m, ok := errs.(Errors)
	if !ok {
		return New(errs, err)
	}
	return m.append(err).ToError()
}

func (errs Errors) append(err error) Errors {
	if err == nil {
		return errs
	}
	if nested, ok := err.(Errors); ok {
		return append(errs, nested...)
	}
	return append(errs, err)
}

// ToError converts Errors to the error interface
// returns nil if no errors are present, a single error object if only one is present
func (errs Errors) ToError() error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errs
	}
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (errs Errors) Unwrap() []error {
	return errs
}

// Error implements the error interface to return a string representation of Errors
func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}

	msgs := []string{"Multiple errors occurred:"}
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, " - ")
}
