/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package pathvar expands ${VAR} references in configured paths
package pathvar

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	sepPrefix = "${"
	sepSuffix = "}"
)

// Subst replaces instances of '${VARNAME}' (eg ${HOME}) with the variable.
// Unknown variables are left as they are.
func Subst(path string) string {
	splits := strings.Split(path, sepPrefix)

	var b strings.Builder
	b.WriteString(splits[0])

	for _, s := range splits[1:] {
		subst, rest := substVar(s)
		b.WriteString(subst)
		b.WriteString(rest)
	}

	return b.String()
}

func substVar(s string) (string, string) {
	endPos := strings.Index(s, sepSuffix)
	if endPos == -1 {
		return sepPrefix, s
	}

	v, ok := lookupVar(s[:endPos])
	if !ok {
		return sepPrefix, s
	}

	return v, s[endPos+1:]
}

// lookupVar consults the SDK variables first, then the environment
func lookupVar(v string) (string, bool) {
	switch v {
	case "TMPDIR":
		return os.TempDir(), true
	case "MORTGAGE_SDK_DATA":
		if dir, ok := os.LookupEnv(v); ok {
			return dir, true
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		return filepath.Join(home, ".mortgagesdk"), true
	}
	return os.LookupEnv(v)
}
