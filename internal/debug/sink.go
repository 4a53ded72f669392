package debug

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Sink is the interface for debug output destinations.
type Sink interface {
	Write(event Event) error
	Flush() error
	Close() error
}

// JSONSink writes events in JSON Lines format.
type JSONSink struct {
	w       *bufio.Writer
	encoder *json.Encoder
}

// NewJSONSink creates a new JSON Lines sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	bw := bufio.NewWriter(w)
	return &JSONSink{
		w:       bw,
		encoder: json.NewEncoder(bw),
	}
}

// Write encodes and writes an event as a JSON line.
func (s *JSONSink) Write(event Event) error {
	return s.encoder.Encode(event)
}

// Flush writes any buffered data to the underlying writer.
func (s *JSONSink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *JSONSink) Close() error {
	return s.Flush()
}

// PrettySink writes events in human-readable format.
type PrettySink struct {
	w *bufio.Writer
}

// NewPrettySink creates a new pretty-format sink writing to w.
func NewPrettySink(w io.Writer) *PrettySink {
	return &PrettySink{
		w: bufio.NewWriter(w),
	}
}

// NewSink picks the pretty or JSON sink.
func NewSink(w io.Writer, pretty bool) Sink {
	if pretty {
		return NewPrettySink(w)
	}
	return NewJSONSink(w)
}

// Write formats and writes an event in human-readable format.
func (s *PrettySink) Write(event Event) error {
	// Format: [timestamp] [phase/event]
	fmt.Fprintf(s.w, "[%s] [%s/%s] session=%s\n", event.Timestamp, event.Phase, event.Event, event.SessionID)

	switch d := event.Data.(type) {
	case TokenData:
		fmt.Fprintf(s.w, "  token #%d: %s %q at %d\n", d.Index, d.Kind, d.Text, d.Offset)
	case BoxData:
		fmt.Fprintf(s.w, "  %s%s at %d: %s\n", indent(d.Nesting), d.Kind, d.Offset, geometry(d.Width, d.Height, d.Depth))
	case RenderStartData:
		fmt.Fprintf(s.w, "  input: %q (length: %d)\n", d.Input, d.InputLength)
		fmt.Fprintf(s.w, "  root: %s, glyphs: %s\n", geometry(d.Width, d.Height, d.Depth), d.Glyphs)
	case PaintData:
		fmt.Fprintf(s.w, "  %s at baseline=%d col=%d width=%d\n", d.Kind, d.Baseline, d.Col, d.Width)
	case RenderEndData:
		fmt.Fprintf(s.w, "  canvas: %d rows x %d cols\n", d.Rows, d.Columns)
		fmt.Fprintf(s.w, "  elapsed_ms: %d, bytes_written: %d\n", d.ElapsedMs, d.BytesWritten)
	case SegmentData:
		fmt.Fprintf(s.w, "  segment #%d: %s (length: %d)", d.Index, d.Type, d.Length)
		if d.Fallback {
			fmt.Fprint(s.w, " fallback")
		}
		fmt.Fprintln(s.w)
	case OptionsData:
		fmt.Fprintf(s.w, "  metrics: pad=%d drop=%d rise=%d\n", d.FractionPadding, d.SuperscriptDrop, d.SubscriptRise)
		fmt.Fprintf(s.w, "  glyphs: %s, trim_whitespace: %t\n", d.Glyphs, d.TrimWhitespace)
	case ErrorData:
		fmt.Fprintf(s.w, "  %s: %s\n", d.Type, d.Message)
		s.writeMap(d.Context)
	case map[string]interface{}:
		s.writeMap(d)
	case SessionData:
		if d.Version != "" {
			fmt.Fprintf(s.w, "  trace version: %s\n", d.Version)
		} else {
			fmt.Fprintf(s.w, "  elapsed_ms: %d\n", d.ElapsedMs)
		}
	default:
		fmt.Fprintf(s.w, "  data: %+v\n", d)
	}

	return nil
}

func (s *PrettySink) writeMap(d map[string]interface{}) {
	for _, k := range sortedKeys(d) {
		fmt.Fprintf(s.w, "  %s: %v\n", k, d[k])
	}
}

// Flush writes any buffered data to the underlying writer.
func (s *PrettySink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *PrettySink) Close() error {
	return s.Flush()
}

// geometry formats box extents as WxH+D.
func geometry(w, h, d int) string {
	return fmt.Sprintf("%dx%d+%d", w, h, d)
}

func indent(n int) string {
	out := make([]byte, 2*n)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
