/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package decode converts generic JSON values, as returned by ledger queries,
// into typed models.
package decode

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Into decodes src (typically a map[string]interface{}) into the struct
// pointed to by dst using its json tags. Numbers are converted weakly since
// JSON numbers arrive as float64.
func Into(src interface{}, dst interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(src); err != nil {
		return errors.Wrapf(err, "failed to decode %T", dst)
	}
	return nil
}
