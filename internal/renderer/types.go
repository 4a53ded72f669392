package renderer

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/ryanlewis/texart/internal/debug"
	"github.com/ryanlewis/texart/internal/strutil"
)

// Error definitions for the renderer package
var (
	// ErrNilBox is returned when a nil box is provided to Render
	ErrNilBox = errors.New("box cannot be nil")
	// ErrInvalidGlyphs is returned when a glyph set contains an unusable rune
	ErrInvalidGlyphs = errors.New("invalid glyphs")
)

// Glyphs are the decoration runes painted around boxes. Each must be a
// printable rune one cell wide.
type Glyphs struct {
	// FractionBar fills the fraction's baseline row
	FractionBar rune
	// Overline runs across the top of a radicand
	Overline rune
	// RadicalStem fills the radical column above its last row
	RadicalStem rune
	// RadicalBottom is the last row of the radical column
	RadicalBottom rune
}

// UnicodeGlyphs is the default glyph set.
var UnicodeGlyphs = Glyphs{
	FractionBar:   '-',
	Overline:      '_',
	RadicalStem:   '│',
	RadicalBottom: '√',
}

// ASCIIGlyphs uses only 7-bit characters.
var ASCIIGlyphs = Glyphs{
	FractionBar:   '-',
	Overline:      '_',
	RadicalStem:   '|',
	RadicalBottom: 'V',
}

// Validate checks that every glyph is printable and one cell wide.
func (g Glyphs) Validate() error {
	for _, r := range []rune{g.FractionBar, g.Overline, g.RadicalStem, g.RadicalBottom} {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return fmt.Errorf("%w: %q is not a printable rune", ErrInvalidGlyphs, r)
		}
		if strutil.RuneWidth(r) != 1 {
			return fmt.Errorf("%w: %q is wider than one cell", ErrInvalidGlyphs, r)
		}
	}
	return nil
}

// Options contains rendering options passed from the main package
type Options struct {
	// Glyphs are the decoration runes. The zero value means UnicodeGlyphs.
	Glyphs Glyphs
	// TrimWhitespace removes trailing spaces from each line
	TrimWhitespace bool
	// Debug receives render events. Nil disables tracing.
	Debug *debug.Session
}

func (o *Options) glyphs() Glyphs {
	if o == nil || o.Glyphs == (Glyphs{}) {
		return UnicodeGlyphs
	}
	return o.Glyphs
}
