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

// Package logging provides the leveled logger used by dxil-signing.
//
// Progress messages (debug, info) go to standard output and problems (warn,
// error) go to standard error, so scripted callers can capture the signing
// report separately from failures.
package logging

import "strings"

// LogLevel is the severity of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelSilent disables all output.
	LevelSilent
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelSilent:
		return "silent"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a level name. Unknown names map to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "silent", "none", "off":
		return LevelSilent
	default:
		return LevelInfo
	}
}

// LogFormat selects the output encoding.
type LogFormat int

const (
	FormatText LogFormat = iota
	FormatJSON
)

func (f LogFormat) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseLogFormat parses a format name. Unknown names map to FormatText.
func ParseLogFormat(s string) LogFormat {
	if strings.ToLower(strings.TrimSpace(s)) == "json" {
		return FormatJSON
	}
	return FormatText
}

// Logger is the logging interface accepted by the signing and validator
// packages.
type Logger interface {
	Debug(format string, args ...interface{})
	Debugln(msg string)
	Info(format string, args ...interface{})
	Infoln(msg string)
	Warn(format string, args ...interface{})
	Warnln(msg string)
	Error(format string, args ...interface{})
	Errorln(msg string)

	// GetLevel returns the minimum level that produces output.
	GetLevel() LogLevel

	// WithField returns a Logger that adds key=value to every entry.
	WithField(key string, value interface{}) Logger
	// WithFields returns a Logger that adds all fields to every entry.
	WithFields(fields map[string]interface{}) Logger
}

// Default returns an info-level text logger on stdout/stderr.
func Default() Logger {
	return NewLogger(DefaultLoggerOptions())
}

// EnsureLogger returns l, or Default() when l is nil.
func EnsureLogger(l Logger) Logger {
	if l == nil {
		return Default()
	}
	return l
}
