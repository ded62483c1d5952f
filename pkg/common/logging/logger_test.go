/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/
package logging

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger/mortgage-sdk-go/pkg/core/logging/api"
)

const moduleName = "mortgagesdk/logging-test"

type recordingProvider struct {
	buf *bytes.Buffer
}

func (p *recordingProvider) GetLogger(module string) api.Logger {
	return &recordingLogger{module: module, buf: p.buf}
}

type recordingLogger struct {
	module string
	buf    *bytes.Buffer
}

func (r *recordingLogger) write(level, msg string) {
	fmt.Fprintf(r.buf, "%s|%s|%s\n", r.module, level, msg)
}

func (r *recordingLogger) Fatalf(format string, v ...interface{}) { r.write("FATAL", fmt.Sprintf(format, v...)) }
func (r *recordingLogger) Panicf(format string, v ...interface{}) { r.write("PANIC", fmt.Sprintf(format, v...)) }
func (r *recordingLogger) Debug(args ...interface{})              { r.write("DEBUG", fmt.Sprint(args...)) }
func (r *recordingLogger) Debugf(format string, args ...interface{}) {
	r.write("DEBUG", fmt.Sprintf(format, args...))
}
func (r *recordingLogger) Info(args ...interface{}) { r.write("INFO", fmt.Sprint(args...)) }
func (r *recordingLogger) Infof(format string, args ...interface{}) {
	r.write("INFO", fmt.Sprintf(format, args...))
}
func (r *recordingLogger) Warn(args ...interface{}) { r.write("WARN", fmt.Sprint(args...)) }
func (r *recordingLogger) Warnf(format string, args ...interface{}) {
	r.write("WARN", fmt.Sprintf(format, args...))
}
func (r *recordingLogger) Error(args ...interface{}) { r.write("ERROR", fmt.Sprint(args...)) }
func (r *recordingLogger) Errorf(format string, args ...interface{}) {
	r.write("ERROR", fmt.Sprintf(format, args...))
}

func resetLoggerInstance() {
	loggerProviderInstance = nil
	loggerProviderOnce = sync.Once{}
}

func TestLoggingForCustomLogger(t *testing.T) {
	var buf bytes.Buffer

	resetLoggerInstance()
	defer resetLoggerInstance()
	Initialize(&recordingProvider{buf: &buf})
	buf.Reset()

	logger := NewLogger(moduleName)
	logger.Infof("loan %s", "la42")
	logger.Warn("slow peer")
	logger.Debug("hidden")

	assert.Equal(t, moduleName+"|INFO|loan la42\n"+moduleName+"|WARN|slow peer\n", buf.String())

	SetLevel(moduleName, DEBUG)
	defer SetLevel(moduleName, INFO)
	buf.Reset()

	logger.Debugf("attempt #%d", 2)
	assert.Equal(t, moduleName+"|DEBUG|attempt #2\n", buf.String())
}

func TestLevels(t *testing.T) {
	SetLevel(moduleName+"/levels", ERROR)
	assert.Equal(t, ERROR, GetLevel(moduleName+"/levels"))
	assert.True(t, IsEnabledFor(moduleName+"/levels", CRITICAL))
	assert.False(t, IsEnabledFor(moduleName+"/levels", WARNING))

	level, err := LogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, level)

	_, err = LogLevel("loud")
	assert.Error(t, err)
}
