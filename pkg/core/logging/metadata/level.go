/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metadata

import "github.com/bankledger/mortgage-sdk-go/pkg/core/logging/api"

// defaultModule holds the level applied to modules without their own setting
const defaultModule = ""

//ModuleLevels maintains log levels based on module
type ModuleLevels struct {
	levels map[string]api.Level
}

// GetLevel returns the log level for the given module, falling back to the
// default module level and finally to INFO.
func (l *ModuleLevels) GetLevel(module string) api.Level {
	if level, ok := l.levels[module]; ok {
		return level
	}
	if level, ok := l.levels[defaultModule]; ok {
		return level
	}
	return api.INFO
}

// SetLevel sets the log level for the given module. An empty module sets the default.
func (l *ModuleLevels) SetLevel(module string, level api.Level) {
	if l.levels == nil {
		l.levels = make(map[string]api.Level)
	}
	l.levels[module] = level
}

// IsEnabledFor will return true if logging is enabled for the given module.
func (l *ModuleLevels) IsEnabledFor(module string, level api.Level) bool {
	return level <= l.GetLevel(module)
}
