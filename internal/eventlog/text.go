// Package eventlog holds the sinks that consume the simulation's event
// stream.
package eventlog

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/swbattle/server/internal/core/event"
)

// Format renders a record as "<turn> <NAME> key=value ...".
func Format(r event.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", r.Turn, r.Event.Name())
	for _, f := range r.Event.Fields() {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}

// TextSink writes one formatted line per record. Each line is flushed
// before Publish returns, so output interleaves correctly with anything
// else writing to the same stream.
type TextSink struct {
	w   *bufio.Writer
	err error
}

func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: bufio.NewWriter(w)}
}

func (s *TextSink) Publish(r event.Record) {
	if s.err != nil {
		return
	}
	if _, err := s.w.WriteString(Format(r) + "\n"); err != nil {
		s.err = err
		return
	}
	s.err = s.w.Flush()
}

// Err returns the first write error, if any. Later records are dropped.
func (s *TextSink) Err() error { return s.err }
