// Package logger keeps a bounded record of diagnostic messages raised by the
// machine. Entries are tagged with the part of the machine that made them.
// Consecutive identical entries are folded into a single entry with a repeat
// count so that a program spinning on an undefined I/O address doesn't flood
// the log.
package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"
)

// DefaultMax is the number of entries kept by a logger created with New(0).
const DefaultMax = 256

// Entry is a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.Repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.Repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// Logger is a bounded list of log entries. The zero value is not usable, use
// New().
type Logger struct {
	mu      sync.Mutex
	max     int
	entries []Entry
	echo    *log.Logger
}

// New creates a logger holding at most max entries.
func New(max int) *Logger {
	if max <= 0 {
		max = DefaultMax
	}
	return &Logger{
		max:     max,
		entries: make([]Entry, 0, max),
	}
}

// SetEcho prints every new entry through the standard logger. A nil value
// stops echoing.
func (l *Logger) SetEcho(echo *log.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.echo = echo
}

// Log adds an entry.
func (l *Logger) Log(tag, detail string) {
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	l.mu.Lock()
	defer l.mu.Unlock()

	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		l.entries[n-1].Repeated++
		l.entries[n-1].Timestamp = time.Now()
	} else {
		l.entries = append(l.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
		if len(l.entries) > l.max {
			l.entries = l.entries[len(l.entries)-l.max:]
		}
	}

	if l.echo != nil {
		l.echo.Printf("%s: %s", tag, detail)
	}
}

// Logf adds a formatted entry.
func (l *Logger) Logf(tag, pattern string, args ...interface{}) {
	l.Log(tag, fmt.Sprintf(pattern, args...))
}

// Len returns the number of entries currently held.
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of the current entries, oldest first.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := make([]Entry, len(l.entries))
	copy(c, l.entries)
	return c
}

// Clear removes all entries.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Write all entries to output.
func (l *Logger) Write(output io.Writer) {
	l.Tail(output, -1)
}

// Tail writes the last number entries to output. A negative number writes
// everything.
func (l *Logger) Tail(output io.Writer, number int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if number < 0 || number > len(l.entries) {
		number = len(l.entries)
	}
	for _, e := range l.entries[len(l.entries)-number:] {
		io.WriteString(output, e.String())
	}
}
