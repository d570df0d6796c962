// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging writes leveled operator log lines to stderr. Level tags are
// styled with lipgloss when the destination is a terminal and plain otherwise.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Logger is safe for concurrent use; deferred cancel tasks log from their own goroutines.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	styles map[Level]lipgloss.Style
}

// New creates a Logger writing to w. Debug lines are dropped unless verbose is set.
func New(w io.Writer, verbose bool) *Logger {
	r := lipgloss.NewRenderer(w)
	threshold := LevelInfo
	if verbose {
		threshold = LevelDebug
	}
	return &Logger{
		out:    w,
		level:  threshold,
		styles: map[Level]lipgloss.Style{
			LevelDebug: r.NewStyle().Faint(true),
			LevelInfo:  r.NewStyle().Foreground(lipgloss.Color("12")),
			LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
			LevelError: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		},
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, false)
}

// Debugf logs request-level detail, shown only with --verbose.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(LevelDebug, format, args...)
}

// Infof logs a normal informational line.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(LevelInfo, format, args...)
}

// Warnf logs a failure the run recovers from.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(LevelWarn, format, args...)
}

// Errorf logs a failure.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(LevelError, format, args...)
}

// Enabled reports whether lines at level are written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.level
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	tag := l.styles[level].Render(fmt.Sprintf("%-5s", level))

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s\n", tag, msg)
}
