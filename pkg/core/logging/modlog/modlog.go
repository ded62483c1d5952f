/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package modlog is the default module logger used when no custom
// logger provider has been initialized.
package modlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bankledger/mortgage-sdk-go/pkg/core/logging/api"
	"github.com/bankledger/mortgage-sdk-go/pkg/core/logging/metadata"
)

var rwmutex = &sync.RWMutex{}
var moduleLevels = &metadata.ModuleLevels{}
var callerInfoModules = map[string]bool{}

var output io.Writer = os.Stdout

const (
	logLevelFormatter   = "UTC %s-> %4.4s "
	logPrefixFormatter  = " [%s] "
	callerInfoFormatter = "- %s "
)

// Provider is the default logger implementation
type Provider struct {
}

//GetLogger returns a logger for the given module
func (p *Provider) GetLogger(module string) api.Logger {
	rwmutex.RLock()
	w := output
	rwmutex.RUnlock()
	return &Log{
		deflogger: log.New(w, fmt.Sprintf(logPrefixFormatter, module), log.Ldate|log.Ltime|log.LUTC),
		module:    module,
	}
}

//LoggerProvider returns the default logging provider
func LoggerProvider() api.LoggerProvider {
	return &Provider{}
}

// SetOutput changes the destination of loggers created after the call.
func SetOutput(w io.Writer) {
	rwmutex.Lock()
	defer rwmutex.Unlock()
	output = w
}

//SetLevel - setting log level for given module
func SetLevel(module string, level api.Level) {
	rwmutex.Lock()
	defer rwmutex.Unlock()
	moduleLevels.SetLevel(module, level)
}

//GetLevel - getting log level for given module
func GetLevel(module string) api.Level {
	rwmutex.RLock()
	defer rwmutex.RUnlock()
	return moduleLevels.GetLevel(module)
}

//IsEnabledFor - Check if given log level is enabled for given module
func IsEnabledFor(module string, level api.Level) bool {
	rwmutex.RLock()
	defer rwmutex.RUnlock()
	return moduleLevels.IsEnabledFor(module, level)
}

//ShowCallerInfo - Show caller info in log lines for the given module
func ShowCallerInfo(module string) {
	rwmutex.Lock()
	defer rwmutex.Unlock()
	callerInfoModules[module] = true
}

//HideCallerInfo - Do not show caller info in log lines for the given module
func HideCallerInfo(module string) {
	rwmutex.Lock()
	defer rwmutex.Unlock()
	delete(callerInfoModules, module)
}

func isCallerInfoEnabled(module string) bool {
	rwmutex.RLock()
	defer rwmutex.RUnlock()
	return callerInfoModules[module]
}

//Log is the standard module logger
type Log struct {
	deflogger *log.Logger
	module    string
}

// ChangeOutput for changing output destination for the logger.
func (l *Log) ChangeOutput(w io.Writer) {
	l.deflogger.SetOutput(w)
}

// Fatalf is CRITICAL log formatted followed by a call to os.Exit(1).
func (l *Log) Fatalf(format string, args ...interface{}) {
	l.print(api.CRITICAL, fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Panicf is CRITICAL log formatted followed by a call to panic()
func (l *Log) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.print(api.CRITICAL, msg)
	panic(msg)
}

// Debug logs at DEBUG level, arguments are handled in the manner of fmt.Print.
func (l *Log) Debug(args ...interface{}) { l.print(api.DEBUG, args...) }

// Debugf logs at DEBUG level, arguments are handled in the manner of fmt.Printf.
func (l *Log) Debugf(format string, args ...interface{}) { l.printf(api.DEBUG, format, args...) }

// Info logs at INFO level.
func (l *Log) Info(args ...interface{}) { l.print(api.INFO, args...) }

// Infof logs at INFO level.
func (l *Log) Infof(format string, args ...interface{}) { l.printf(api.INFO, format, args...) }

// Warn logs at WARNING level.
func (l *Log) Warn(args ...interface{}) { l.print(api.WARNING, args...) }

// Warnf logs at WARNING level.
func (l *Log) Warnf(format string, args ...interface{}) { l.printf(api.WARNING, format, args...) }

// Error logs at ERROR level.
func (l *Log) Error(args ...interface{}) { l.print(api.ERROR, args...) }

// Errorf logs at ERROR level.
func (l *Log) Errorf(format string, args ...interface{}) { l.printf(api.ERROR, format, args...) }

func (l *Log) print(level api.Level, args ...interface{}) {
	if !IsEnabledFor(l.module, level) {
		return
	}
	l.output(level, fmt.Sprint(args...))
}

func (l *Log) printf(level api.Level, format string, args ...interface{}) {
	if !IsEnabledFor(l.module, level) {
		return
	}
	l.output(level, fmt.Sprintf(format, args...))
}

func (l *Log) output(level api.Level, msg string) {
	//Format prefix to show function name and log level and to indicate that timezone used is UTC
	prefix := fmt.Sprintf(logLevelFormatter, l.callerInfo(), metadata.ParseString(level))
	if err := l.deflogger.Output(4, prefix+msg); err != nil {
		fmt.Printf("error from deflogger.Output %v\n", err)
	}
}

func (l *Log) callerInfo() string {
	if !isCallerInfoEnabled(l.module) {
		return ""
	}

	const fullFuncName = 4
	pc := make([]uintptr, 1)
	n := runtime.Callers(fullFuncName+1, pc)
	if n == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames(pc).Next()
	name := frame.Function
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return fmt.Sprintf(callerInfoFormatter, fmt.Sprintf("%s(%s:%d)", name, filepath.Base(frame.File), frame.Line))
}
