// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var _ Logger = (*DefaultLogger)(nil)

// LoggerOptions configures a DefaultLogger.
type LoggerOptions struct {
	Level  LogLevel
	Format LogFormat
	// Formatter overrides Format when set.
	Formatter Formatter
	// Output receives debug and info entries. Defaults to os.Stdout.
	Output io.Writer
	// ErrOutput receives warn and error entries. Defaults to os.Stderr.
	ErrOutput io.Writer
	// TimeFormat enables timestamps in text output.
	TimeFormat string
	// ShowLevel prefixes text entries with [LEVEL].
	ShowLevel bool
}

// DefaultLoggerOptions returns info-level text output on stdout/stderr.
func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		Level:     LevelInfo,
		Format:    FormatText,
		Output:    os.Stdout,
		ErrOutput: os.Stderr,
	}
}

// DefaultLogger writes formatted entries to two writers split by level.
type DefaultLogger struct {
	mu        *sync.Mutex
	level     LogLevel
	formatter Formatter
	out       io.Writer
	errOut    io.Writer
	fields    map[string]interface{}
}

// NewLogger builds a DefaultLogger from opts.
func NewLogger(opts LoggerOptions) *DefaultLogger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.ErrOutput
	if errOut == nil {
		errOut = os.Stderr
	}

	formatter := opts.Formatter
	if formatter == nil {
		switch opts.Format {
		case FormatJSON:
			formatter = &JSONFormatter{TimeFormat: opts.TimeFormat}
		default:
			formatter = &TextFormatter{TimeFormat: opts.TimeFormat, ShowLevel: opts.ShowLevel}
		}
	}

	return &DefaultLogger{
		mu:        &sync.Mutex{},
		level:     opts.Level,
		formatter: formatter,
		out:       out,
		errOut:    errOut,
	}
}

// WithFields returns a child logger sharing writers and lock with l.
func (l *DefaultLogger) WithFields(fields map[string]interface{}) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &DefaultLogger{
		mu:        l.mu,
		level:     l.level,
		formatter: l.formatter,
		out:       l.out,
		errOut:    l.errOut,
		fields:    merged,
	}
}

func (l *DefaultLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *DefaultLogger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// IsLevelEnabled reports whether entries at level are written.
func (l *DefaultLogger) IsLevelEnabled(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level && level < LevelSilent
}

func (l *DefaultLogger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	w := l.out
	if level >= LevelWarn {
		w = l.errOut
	}

	data, err := l.formatter.Format(LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
		Fields:    l.fields,
	})
	if err != nil {
		fmt.Fprintf(l.errOut, "logging error: %v\n", err)
		return
	}
	_, _ = w.Write(data)
}

func (l *DefaultLogger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *DefaultLogger) Debugln(msg string)                       { l.log(LevelDebug, "%s", msg) }
func (l *DefaultLogger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *DefaultLogger) Infoln(msg string)                        { l.log(LevelInfo, "%s", msg) }
func (l *DefaultLogger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *DefaultLogger) Warnln(msg string)                        { l.log(LevelWarn, "%s", msg) }
func (l *DefaultLogger) Error(format string, args ...interface{}) { l.log(LevelError, format, args...) }
func (l *DefaultLogger) Errorln(msg string)                       { l.log(LevelError, "%s", msg) }
