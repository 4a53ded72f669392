// Package renderer paints a box tree onto a character canvas and serializes
// the canvas as text.
package renderer

import (
	"io"
	"time"

	"github.com/ryanlewis/texart/internal/box"
	"github.com/ryanlewis/texart/internal/common"
	"github.com/ryanlewis/texart/internal/debug"
)

// painter holds the state of one paint pass.
type painter struct {
	canvas *Canvas
	glyphs Glyphs
	debug  *debug.Session
}

// RenderTo writes the text rendering of root directly to the provided writer.
// Nothing is written if painting fails.
func RenderTo(w io.Writer, root *box.Box, opts *Options) error {
	buf := AcquireBuffer()
	defer func() { ReleaseBuffer(buf) }()

	var err error
	buf, err = AppendTo(buf, root, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// Render returns the text rendering of root.
func Render(root *box.Box, opts *Options) (string, error) {
	buf := AcquireBuffer()
	defer func() { ReleaseBuffer(buf) }()

	var err error
	buf, err = AppendTo(buf, root, opts)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// AppendTo paints root and appends the serialized rows to dst. On error dst
// is returned unchanged in length.
func AppendTo(dst []byte, root *box.Box, opts *Options) ([]byte, error) {
	if root == nil {
		return dst, ErrNilBox
	}

	p := &painter{glyphs: opts.glyphs()}
	trim := false
	if opts != nil {
		p.debug = opts.Debug
		trim = opts.TrimWhitespace
	}
	if err := p.glyphs.Validate(); err != nil {
		return dst, err
	}

	var startTime time.Time
	if p.debug != nil {
		startTime = time.Now()
		p.debug.Emit("render", "Start", debug.RenderStartData{
			Width:  root.Width,
			Height: root.Height,
			Depth:  root.Depth,
			Glyphs: string([]rune{p.glyphs.FractionBar, p.glyphs.Overline, p.glyphs.RadicalStem, p.glyphs.RadicalBottom}),
		})
	}

	p.canvas = acquireCanvas(root.Rows(), root.Width)
	defer releaseCanvas(p.canvas)

	if err := p.paint(root, root.Height-1, 0); err != nil {
		if p.debug != nil {
			p.debug.Emit("render", "Error", debug.ErrorData{
				Type:    string(common.ReasonOf(err)),
				Message: err.Error(),
			})
		}
		return dst, err
	}

	start := len(dst)
	dst = p.canvas.AppendTo(dst, trim)

	if p.debug != nil {
		p.debug.Emit("render", "End", debug.RenderEndData{
			Rows:         p.canvas.Rows(),
			Columns:      p.canvas.Cols(),
			ElapsedMs:    time.Since(startTime).Milliseconds(),
			BytesWritten: len(dst) - start,
		})
	}
	return dst, nil
}

// paint draws b with its baseline on the given canvas row and its left edge
// at col.
func (p *painter) paint(b *box.Box, baseline, col int) error {
	if p.debug != nil {
		p.debug.Emit("render", "Paint", debug.PaintData{
			Kind:     b.Kind.String(),
			Baseline: baseline,
			Col:      col,
			Width:    b.Width,
		})
	}

	switch b.Kind {
	case box.Empty:
		return nil

	case box.Char:
		return p.canvas.Set(baseline, col, b.Rune)

	case box.HList:
		x := col
		for _, c := range b.Children {
			if err := p.paint(c, baseline, x); err != nil {
				return err
			}
			x += c.Width
		}
		return nil

	case box.Fraction:
		return p.paintFraction(b, baseline, col)

	case box.Radical:
		return p.paintRadical(b, baseline, col)

	case box.Scripted:
		base := b.Base()
		if err := p.paint(base, baseline, col); err != nil {
			return err
		}
		x := col + base.Width
		if b.Sup != nil {
			if err := p.paint(b.Sup, baseline-b.SupShift, x); err != nil {
				return err
			}
		}
		if b.Sub != nil {
			if err := p.paint(b.Sub, baseline+b.SubShift, x); err != nil {
				return err
			}
		}
		return nil

	default:
		return common.Newf(common.KindInternal, common.ReasonGeometryMismatch, -1,
			"cannot paint box of kind %s", b.Kind)
	}
}

// paintFraction draws the bar on the baseline row with the numerator above
// and the denominator below, each centered.
func (p *painter) paintFraction(b *box.Box, baseline, col int) error {
	num, den := b.Children[0], b.Children[1]

	if err := p.canvas.HLine(baseline, col, b.Width, p.glyphs.FractionBar); err != nil {
		return err
	}
	if err := p.paint(num, baseline-1-num.Depth, col+(b.Width-num.Width)/2); err != nil {
		return err
	}
	return p.paint(den, baseline+den.Height, col+(b.Width-den.Width)/2)
}

// paintRadical draws the radical column to the left of the radicand and an
// overline across its top.
func (p *painter) paintRadical(b *box.Box, baseline, col int) error {
	child := b.Children[0]

	// An empty radicand leaves only the bottom glyph on the baseline.
	if child.Rows() == 0 {
		return p.canvas.Set(baseline, col, p.glyphs.RadicalBottom)
	}

	top := baseline - child.Height
	if err := p.canvas.HLine(top, col+1, child.Width, p.glyphs.Overline); err != nil {
		return err
	}

	last := baseline + child.Depth
	for row := top + 1; row < last; row++ {
		if err := p.canvas.Set(row, col, p.glyphs.RadicalStem); err != nil {
			return err
		}
	}
	if err := p.canvas.Set(last, col, p.glyphs.RadicalBottom); err != nil {
		return err
	}

	return p.paint(child, baseline, col+1)
}
