package texart

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ryanlewis/texart/internal/box"
	"github.com/ryanlewis/texart/internal/common"
	"github.com/ryanlewis/texart/internal/debug"
	"github.com/ryanlewis/texart/internal/renderer"
)

// Box is a node of the render tree returned by Parse. Its geometry is in
// character cells: Height counts the rows down to and including the
// baseline, Depth the rows below it.
type Box = box.Box

// Metrics holds the decoration allowances used when boxes are built.
type Metrics = box.Metrics

// Glyphs are the runes used to draw fraction bars and radicals.
type Glyphs = renderer.Glyphs

// Glyph presets.
var (
	// UnicodeGlyphs draws radicals with '│' and '√'. It is the default.
	UnicodeGlyphs = renderer.UnicodeGlyphs
	// ASCIIGlyphs draws radicals with '|' and 'V'.
	ASCIIGlyphs = renderer.ASCIIGlyphs
)

// DefaultMetrics returns the metrics used when WithMetrics is not given.
func DefaultMetrics() Metrics {
	return box.DefaultMetrics()
}

// GlyphsByName maps a preset name ("unicode" or "ascii") to its glyph set.
// The empty name selects the default.
func GlyphsByName(name string) (Glyphs, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unicode":
		return UnicodeGlyphs, nil
	case "ascii":
		return ASCIIGlyphs, nil
	default:
		return Glyphs{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidGlyphs, name)
	}
}

// Error is the error returned by every failed render. Use errors.As to
// inspect Kind, Reason and Offset.
type Error = common.Error

// ErrorKind classifies which stage produced an Error.
type ErrorKind = common.Kind

// Reason is the machine-readable cause of an Error.
type Reason = common.Reason

// Error kinds.
const (
	KindLex      = common.KindLex
	KindParse    = common.KindParse
	KindInternal = common.KindInternal
)

// Error reasons.
const (
	ReasonMalformedEscape    = common.ReasonMalformedEscape
	ReasonUnterminatedEscape = common.ReasonUnterminatedEscape
	ReasonInvalidEncoding    = common.ReasonInvalidEncoding
	ReasonInvalidCharacter   = common.ReasonInvalidCharacter
	ReasonUnbalancedGroup    = common.ReasonUnbalancedGroup
	ReasonMissingArgument    = common.ReasonMissingArgument
	ReasonUnknownControlWord = common.ReasonUnknownControlWord
	ReasonTrailingTokens     = common.ReasonTrailingTokens
	ReasonDoubleScript       = common.ReasonDoubleScript
	ReasonTooDeep            = common.ReasonTooDeep
	ReasonGeometryMismatch   = common.ReasonGeometryMismatch
)

// Common errors returned by the texart package
var (
	// ErrLex matches any error from the lexer via errors.Is
	ErrLex = common.ErrLex

	// ErrParse matches any grammar error via errors.Is
	ErrParse = common.ErrParse

	// ErrInternal matches a box geometry and canvas disagreement
	ErrInternal = common.ErrInternal

	// ErrInvalidMetrics is returned for metrics with a negative field
	ErrInvalidMetrics = box.ErrInvalidMetrics

	// ErrInvalidGlyphs is returned for a glyph set that cannot be drawn
	ErrInvalidGlyphs = renderer.ErrInvalidGlyphs
)

// Option configures rendering behavior.
type Option func(*options)

type options struct {
	glyphs         Glyphs
	metrics        Metrics
	trimWhitespace bool
	debugOut       io.Writer
	debugPretty    bool
}

func defaultOptions() *options {
	return &options{
		glyphs:  UnicodeGlyphs,
		metrics: DefaultMetrics(),
	}
}

// newOptions applies opts over the defaults and validates the result.
func newOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.metrics.Validate(); err != nil {
		return nil, err
	}
	if err := o.glyphs.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// key identifies the settings that change rendered output.
func (o *options) key() string {
	return fmt.Sprintf("%q|%d|%d|%d|%t",
		[]rune{o.glyphs.FractionBar, o.glyphs.Overline, o.glyphs.RadicalStem, o.glyphs.RadicalBottom},
		o.metrics.FractionPadding, o.metrics.SuperscriptDrop, o.metrics.SubscriptRise,
		o.trimWhitespace)
}

// session opens a debug session for one render call, or returns nil when
// tracing is off. The caller closes it.
func (o *options) session() *debug.Session {
	if o.debugOut == nil {
		return nil
	}
	s := debug.NewSession(debug.NewSink(o.debugOut, o.debugPretty))
	s.Emit("api", "Options", debug.OptionsData{
		FractionPadding: o.metrics.FractionPadding,
		SuperscriptDrop: o.metrics.SuperscriptDrop,
		SubscriptRise:   o.metrics.SubscriptRise,
		Glyphs:          string([]rune{o.glyphs.FractionBar, o.glyphs.Overline, o.glyphs.RadicalStem, o.glyphs.RadicalBottom}),
		TrimWhitespace:  o.trimWhitespace,
	})
	return s
}

// WithGlyphs selects the runes used for fraction bars and radicals.
// Every glyph must be printable and one cell wide, or rendering fails with
// ErrInvalidGlyphs.
func WithGlyphs(g Glyphs) Option {
	return func(opts *options) {
		opts.glyphs = g
	}
}

// WithMetrics overrides the decoration allowances.
//
// FractionPadding widens the bar past the wider of numerator and
// denominator. SuperscriptDrop and SubscriptRise pull scripts toward the
// base's baseline; a script never lands on the baseline itself. Negative
// values fail with ErrInvalidMetrics.
func WithMetrics(m Metrics) Option {
	return func(opts *options) {
		opts.metrics = m
	}
}

// WithTrimWhitespace enables trimming of trailing whitespace from each line.
// By default every row is padded to the full width of the drawing so that
// columns line up.
func WithTrimWhitespace(trim bool) Option {
	return func(opts *options) {
		opts.trimWhitespace = trim
	}
}

// WithDebug writes a trace of each render call to w, as JSON Lines or in a
// human-readable form when pretty is set. Tracing also needs debug mode,
// switched on by EnableDebug or TEXART_DEBUG=1.
//
// The writes of one RenderDocument call are serialized; callers rendering
// concurrently with separate options must supply a w that is safe for
// concurrent use.
func WithDebug(w io.Writer, pretty bool) Option {
	var out io.Writer
	if w != nil {
		out = &lockedWriter{w: w}
	}
	return func(opts *options) {
		opts.debugOut = out
		opts.debugPretty = pretty
	}
}

// EnableDebug switches debug mode on or off for the whole process.
func EnableDebug(on bool) {
	debug.SetEnabled(on)
}

// DebugFromEnv enables debug mode when TEXART_DEBUG=1 and reports whether
// TEXART_DEBUG_PRETTY=1 asks for the pretty format.
func DebugFromEnv() (pretty bool) {
	debug.InitFromEnv()
	return debug.PrettyFromEnv()
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
