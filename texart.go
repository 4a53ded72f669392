// Package texart renders TeX-like math markup as multi-line text art.
//
// The markup covers characters, {} groups, \frac{A}{B}, \sqrt{A} and the
// ^ and _ script markers. Whitespace between tokens is ignored:
//
//	out, err := texart.Render(`\frac{a}{b}`)
//	//  a
//	// ---
//	//  b
//
// Each call lexes, parses, lays out and paints independently, so every
// function here is safe for concurrent use. Errors are returned per call as
// *Error values and never leak into later calls.
package texart

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ryanlewis/texart/internal/debug"
	"github.com/ryanlewis/texart/internal/parser"
	"github.com/ryanlewis/texart/internal/renderer"
)

// Render converts markup to text art. On failure it returns "" and an
// error; there is no partial output.
func Render(input string, opts ...Option) (string, error) {
	o, err := newOptions(opts)
	if err != nil {
		return "", err
	}

	buf := renderer.AcquireBuffer()
	defer func() { renderer.ReleaseBuffer(buf) }()

	buf, err = o.appendRender(buf, input)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// RenderTo writes the text art for input directly to w. Nothing is written
// if rendering fails.
func RenderTo(w io.Writer, input string, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}

	buf := renderer.AcquireBuffer()
	defer func() { renderer.ReleaseBuffer(buf) }()

	buf, err = o.appendRender(buf, input)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// Output is a rendering held in a pooled buffer.
//
// The caller owns an Output until it calls Release, which must happen
// exactly once. Releasing twice, or releasing a value that did not come from
// RenderBytes, is undefined. The bytes must not be used after Release.
type Output struct {
	buf []byte
}

var outputPool = sync.Pool{
	New: func() interface{} {
		return &Output{}
	},
}

// RenderBytes renders input into a pooled buffer and hands ownership of it to
// the caller. It avoids the string copy Render makes for callers that only
// write the result somewhere.
func RenderBytes(input string, opts ...Option) (*Output, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	buf := renderer.AcquireBuffer()
	buf, err = o.appendRender(buf, input)
	if err != nil {
		renderer.ReleaseBuffer(buf)
		return nil, err
	}

	out := outputPool.Get().(*Output)
	out.buf = buf
	return out, nil
}

// Bytes returns the rendered text. The slice is only valid until Release.
func (o *Output) Bytes() []byte {
	return o.buf
}

// String returns a copy of the rendered text.
func (o *Output) String() string {
	return string(o.buf)
}

// WriteTo writes the rendered text to w.
func (o *Output) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(o.buf)
	return int64(n), err
}

// Release returns the buffer to the pool. See Output for the rules.
func (o *Output) Release() {
	renderer.ReleaseBuffer(o.buf)
	o.buf = nil
	outputPool.Put(o)
}

// Release is shorthand for o.Release that ignores nil.
func Release(o *Output) {
	if o != nil {
		o.Release()
	}
}

// Parse builds the box tree for input without painting it.
func Parse(input string, opts ...Option) (*Box, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	session := o.session()
	defer session.Close()

	return parser.Parse(input, &parser.Options{Metrics: o.metrics, Debug: session})
}

// appendRender runs the whole pipeline and appends the result to dst.
func (o *options) appendRender(dst []byte, input string) ([]byte, error) {
	session := o.session()
	defer session.Close()

	session.Emit("api", "Input", debug.RenderStartData{
		Input:       truncate(input, 200),
		InputLength: len(input),
	})

	root, err := parser.Parse(input, &parser.Options{Metrics: o.metrics, Debug: session})
	if err != nil {
		session.Emit("api", "Error", debug.ErrorData{Type: "parse", Message: err.Error()})
		return dst, err
	}

	return renderer.AppendTo(dst, root, &renderer.Options{
		Glyphs:         o.glyphs,
		TrimWhitespace: o.trimWhitespace,
		Debug:          session,
	})
}

// truncate shortens s for trace events.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "..."
}
