/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package validate holds structural predicates applied to request inputs
// before any ledger interaction.
package validate

import (
	"encoding/json"
	"reflect"
	"strings"
)

// IsValidString returns true for a string with non-whitespace content
func IsValidString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidArray returns true if v is a non-nil slice or an array
func IsValidArray(v interface{}) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		return !rv.IsNil()
	case reflect.Array:
		return true
	default:
		return false
	}
}

// IsValidJSON returns true if v is a structured object: a non-nil map,
// struct or pointer to one, or raw bytes holding a JSON object
func IsValidJSON(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case json.RawMessage:
		return isJSONObject(t)
	case []byte:
		return isJSONObject(t)
	case string:
		return isJSONObject([]byte(t))
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		return !rv.IsNil()
	case reflect.Struct:
		return true
	default:
		return false
	}
}

// IsValid returns true if v is neither nil nor the zero value of its type
func IsValid(v interface{}) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return !rv.IsNil()
	default:
		return !rv.IsZero()
	}
}

func isJSONObject(b []byte) bool {
	var obj map[string]interface{}
	return json.Unmarshal(b, &obj) == nil && obj != nil
}
