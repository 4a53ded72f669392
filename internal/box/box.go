// Package box defines the render tree. Every constructor computes the node's
// geometry from its children, so a finished tree needs no separate layout pass.
//
// Geometry is measured in character cells relative to the baseline row:
// Height counts the rows from the top of the box down to and including the
// baseline, Depth counts the rows below it. A box therefore spans
// Height+Depth rows and Width columns.
package box

import (
	"errors"
	"fmt"

	"github.com/ryanlewis/texart/internal/common"
	"github.com/ryanlewis/texart/internal/strutil"
)

// Kind is the closed set of box variants.
type Kind int

const (
	Empty Kind = iota
	Char
	HList
	Fraction
	Radical
	Scripted
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Char:
		return "char"
	case HList:
		return "hlist"
	case Fraction:
		return "fraction"
	case Radical:
		return "radical"
	case Scripted:
		return "scripted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Box is one node of the render tree.
//
// Children holds the owned sub-boxes: none for Char and Empty, the elements of
// an HList, [numerator, denominator] for a Fraction, [radicand] for a Radical
// and [base] for a Scripted box. Scripted boxes keep their scripts in Sup and
// Sub, either of which may be nil.
type Box struct {
	Kind     Kind
	Width    int
	Height   int
	Depth    int
	Rune     rune
	Children []*Box
	Sup      *Box
	Sub      *Box

	// SupShift and SubShift are the baseline offsets of the scripts, in rows.
	SupShift int
	SubShift int
}

// ErrInvalidMetrics is returned when a Metrics value has a negative field.
var ErrInvalidMetrics = errors.New("invalid metrics")

// Metrics holds the fixed decoration allowances used by the constructors.
type Metrics struct {
	// FractionPadding is added to the wider of numerator and denominator.
	FractionPadding int
	// SuperscriptDrop moves a superscript down from sitting fully above its base.
	SuperscriptDrop int
	// SubscriptRise moves a subscript up from sitting fully below its base.
	SubscriptRise int
}

// DefaultMetrics returns the metrics used when none are configured.
func DefaultMetrics() Metrics {
	return Metrics{
		FractionPadding: common.DefaultFractionPadding,
		SuperscriptDrop: common.DefaultSuperscriptDrop,
		SubscriptRise:   common.DefaultSubscriptRise,
	}
}

// Validate rejects negative allowances.
func (m Metrics) Validate() error {
	switch {
	case m.FractionPadding < 0:
		return fmt.Errorf("%w: fraction padding %d is negative", ErrInvalidMetrics, m.FractionPadding)
	case m.SuperscriptDrop < 0:
		return fmt.Errorf("%w: superscript drop %d is negative", ErrInvalidMetrics, m.SuperscriptDrop)
	case m.SubscriptRise < 0:
		return fmt.Errorf("%w: subscript rise %d is negative", ErrInvalidMetrics, m.SubscriptRise)
	}
	return nil
}

// NewEmpty returns a zero-sized box.
func NewEmpty() *Box {
	return &Box{Kind: Empty}
}

// NewChar returns a one-row box for r sitting on the baseline.
func NewChar(r rune) *Box {
	return &Box{
		Kind:   Char,
		Rune:   r,
		Width:  strutil.RuneWidth(r),
		Height: 1,
	}
}

// NewHList concatenates children left to right on a shared baseline.
// A single child is returned as is and no children yield an Empty box.
func NewHList(children []*Box) *Box {
	switch len(children) {
	case 0:
		return NewEmpty()
	case 1:
		return children[0]
	}

	b := &Box{Kind: HList, Children: children}
	for _, c := range children {
		b.Width += c.Width
		b.Height = max(b.Height, c.Height)
		b.Depth = max(b.Depth, c.Depth)
	}
	return b
}

// NewFraction stacks num over den with a bar on the baseline row.
func NewFraction(num, den *Box, m Metrics) *Box {
	return &Box{
		Kind:     Fraction,
		Children: []*Box{num, den},
		Width:    max(num.Width, den.Width) + m.FractionPadding,
		Height:   num.Height + num.Depth + 1,
		Depth:    den.Height + den.Depth,
	}
}

// NewRadical prefixes child with a radical column and an overline row.
func NewRadical(child *Box) *Box {
	return &Box{
		Kind:     Radical,
		Children: []*Box{child},
		Width:    child.Width + 1,
		Height:   child.Height + 1,
		Depth:    child.Depth,
	}
}

// NewScripted attaches an optional superscript and subscript to base. Both
// scripts start right after the base; a script is never placed on the base's
// own baseline.
func NewScripted(base, sup, sub *Box, m Metrics) *Box {
	b := &Box{
		Kind:     Scripted,
		Children: []*Box{base},
		Sup:      sup,
		Sub:      sub,
		Width:    base.Width,
		Height:   base.Height,
		Depth:    base.Depth,
	}

	scriptWidth := 0
	if sup != nil {
		b.SupShift = max(1, base.Height+sup.Depth-m.SuperscriptDrop)
		scriptWidth = max(scriptWidth, sup.Width)
		b.Height = max(b.Height, b.SupShift+sup.Height)
		b.Depth = max(b.Depth, sup.Depth-b.SupShift)
	}
	if sub != nil {
		b.SubShift = max(1, base.Depth+sub.Height-m.SubscriptRise)
		scriptWidth = max(scriptWidth, sub.Width)
		b.Height = max(b.Height, sub.Height-b.SubShift)
		b.Depth = max(b.Depth, b.SubShift+sub.Depth)
	}
	b.Width += scriptWidth
	return b
}

// Rows is the total number of canvas rows the box spans.
func (b *Box) Rows() int {
	return b.Height + b.Depth
}

// Base returns the base of a Scripted box, or nil for other kinds.
func (b *Box) Base() *Box {
	if b.Kind != Scripted || len(b.Children) == 0 {
		return nil
	}
	return b.Children[0]
}

// String renders a compact structural description, for tests and tracing.
func (b *Box) String() string {
	if b == nil {
		return "<nil>"
	}
	geom := fmt.Sprintf("%dx%d+%d", b.Width, b.Height, b.Depth)
	switch b.Kind {
	case Char:
		return fmt.Sprintf("char(%q %s)", b.Rune, geom)
	case Scripted:
		return fmt.Sprintf("scripted(%s ^%s _%s %s)", b.Base(), b.Sup, b.Sub, geom)
	case Empty:
		return "empty"
	default:
		s := b.Kind.String() + "("
		for i, c := range b.Children {
			if i > 0 {
				s += " "
			}
			s += c.String()
		}
		return s + " " + geom + ")"
	}
}
