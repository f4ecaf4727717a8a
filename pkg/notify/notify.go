// Package notify carries user-facing notices out of the scheduling engine.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Level classifies a notice.
type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "info"
}

// Notice is a single message for the user.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

func (n Notice) String() string {
	if n.Message == "" {
		return n.Title
	}
	return fmt.Sprintf("%s: %s", n.Title, n.Message)
}

// Sink receives notices. Implementations must not block.
type Sink interface {
	Notify(Notice)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notice)

func (f SinkFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Sink = SinkFunc(func(Notice) {})

// ColorSink writes notices to a terminal, colored by level.
type ColorSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewColorSink writes to out, or stderr when out is nil.
func NewColorSink(out io.Writer) *ColorSink {
	if out == nil {
		out = color.Error
	}
	return &ColorSink{out: out}
}

func (s *ColorSink) Notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c *color.Color
	switch n.Level {
	case Error:
		c = color.New(color.FgRed, color.Bold)
	case Success:
		c = color.New(color.FgGreen)
	default:
		c = color.New(color.Faint)
	}
	if _, err := c.Fprintln(s.out, n.String()); err != nil {
		fmt.Fprintf(os.Stderr, "notify: %v\n", err)
	}
}

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of what was recorded.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Count returns how many notices had level l.
func (r *Recorder) Count(l Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, notice := range r.notices {
		if notice.Level == l {
			n++
		}
	}
	return n
}

// Reset forgets every notice.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notices = nil
	r.mu.Unlock()
}
