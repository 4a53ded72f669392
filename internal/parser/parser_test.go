package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ryanlewis/texart/internal/box"
	"github.com/ryanlewis/texart/internal/common"
	"github.com/ryanlewis/texart/internal/debug"
)

func TestParse(t *testing.T) {
	m := box.DefaultMetrics()
	c := box.NewChar

	tests := []struct {
		name  string
		input string
		want  *box.Box
	}{
		{"empty input", "", box.NewEmpty()},
		{"whitespace only", "  \n\t", box.NewEmpty()},
		{"single char", "x", c('x')},
		{"list", "a+b", box.NewHList([]*box.Box{c('a'), c('+'), c('b')})},
		{"whitespace skipped", "a b", box.NewHList([]*box.Box{c('a'), c('b')})},
		{"group collapses", "{a}", c('a')},
		{"empty group", "{}", box.NewEmpty()},
		{"nested groups", "{{ab}}", box.NewHList([]*box.Box{c('a'), c('b')})},
		{"fraction", `\frac{a}{b}`, box.NewFraction(c('a'), c('b'), m)},
		{"fraction of lists", `\frac{a+b}{c}`, box.NewFraction(box.NewHList([]*box.Box{c('a'), c('+'), c('b')}), c('c'), m)},
		{"empty fraction", `\frac{}{}`, box.NewFraction(box.NewEmpty(), box.NewEmpty(), m)},
		{"radical", `\sqrt{x}`, box.NewRadical(c('x'))},
		{"radical of fraction", `\sqrt{\frac{a}{b}}`, box.NewRadical(box.NewFraction(c('a'), c('b'), m))},
		{"bare superscript", "a^2", box.NewScripted(c('a'), c('2'), nil, m)},
		{"grouped superscript", "a^{2}", box.NewScripted(c('a'), c('2'), nil, m)},
		{"subscript", "a_{2}", box.NewScripted(c('a'), nil, c('2'), m)},
		{"both scripts", "x^2_i", box.NewScripted(c('x'), c('2'), c('i'), m)},
		{"both scripts reversed", "x_i^2", box.NewScripted(c('x'), c('2'), c('i'), m)},
		{"script binds tighter than concatenation", "ab^2", box.NewHList([]*box.Box{c('a'), box.NewScripted(c('b'), c('2'), nil, m)})},
		{"script on group", "{ab}^2", box.NewScripted(box.NewHList([]*box.Box{c('a'), c('b')}), c('2'), nil, m)},
		{"fraction as script", `a^\frac{1}{2}`, box.NewScripted(c('a'), box.NewFraction(c('1'), c('2'), m), nil, m)},
		{"script without base", "^2", box.NewScripted(box.NewEmpty(), c('2'), nil, m)},
		{"wide char", "中", c('中')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, nil)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	type failure struct {
		Kind   common.Kind
		Reason common.Reason
		Offset int
	}

	deep := strings.Repeat("{", common.MaxDepth+10) + "a" + strings.Repeat("}", common.MaxDepth+10)

	tests := []struct {
		name  string
		input string
		want  failure
	}{
		{"fraction missing denominator", `\frac{a}`, failure{common.KindParse, common.ReasonMissingArgument, 0}},
		{"fraction without groups", `\frac a b`, failure{common.KindParse, common.ReasonMissingArgument, 0}},
		{"radical without argument", `\sqrt`, failure{common.KindParse, common.ReasonMissingArgument, 0}},
		{"unknown control word", `\foo{a}`, failure{common.KindParse, common.ReasonUnknownControlWord, 0}},
		{"unclosed group", "{a", failure{common.KindParse, common.ReasonUnbalancedGroup, 0}},
		{"unclosed inner group", "x{a", failure{common.KindParse, common.ReasonUnbalancedGroup, 1}},
		{"unclosed fraction group", `\frac{a}{b`, failure{common.KindParse, common.ReasonUnbalancedGroup, 8}},
		{"stray close", "a}", failure{common.KindParse, common.ReasonTrailingTokens, 1}},
		{"script at end", "a^", failure{common.KindParse, common.ReasonMissingArgument, 1}},
		{"script before close", "{a^}", failure{common.KindParse, common.ReasonMissingArgument, 2}},
		{"script before script", "a^_b", failure{common.KindParse, common.ReasonMissingArgument, 1}},
		{"double superscript", "a^2^3", failure{common.KindParse, common.ReasonDoubleScript, 3}},
		{"double subscript", "a_1_2", failure{common.KindParse, common.ReasonDoubleScript, 3}},
		{"too deep", deep, failure{common.KindParse, common.ReasonTooDeep, common.MaxDepth}},
		{"lone backslash", `\`, failure{common.KindLex, common.ReasonUnterminatedEscape, 0}},
		{"malformed escape", `a\1`, failure{common.KindLex, common.ReasonMalformedEscape, 1}},
		{"invalid encoding", "a\xff", failure{common.KindLex, common.ReasonInvalidEncoding, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, nil)
			if err == nil {
				t.Fatalf("Parse(%q) = %s, want error", tt.input, got)
			}
			if got != nil {
				t.Errorf("Parse(%q) returned a box alongside the error", tt.input)
			}

			var perr *common.Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %v is not a *common.Error", err)
			}
			if diff := cmp.Diff(tt.want, failure{perr.Kind, perr.Reason, perr.Offset}); diff != "" {
				t.Errorf("error mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseMetrics(t *testing.T) {
	got, err := Parse(`\frac{a}{bb}`, &Options{Metrics: box.Metrics{FractionPadding: 0}})
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 2 {
		t.Errorf("fraction width = %d with no padding, want 2", got.Width)
	}
}

func TestParseEmitsDebugEvents(t *testing.T) {
	debug.SetEnabled(true)
	defer debug.SetEnabled(false)

	var buf bytes.Buffer
	session := debug.NewSession(debug.NewJSONSink(&buf))
	if _, err := Parse(`\sqrt{x}`, &Options{Metrics: box.DefaultMetrics(), Debug: session}); err != nil {
		t.Fatal(err)
	}
	if err := session.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{`"phase":"lex"`, `"text":"sqrt"`, `"kind":"radical"`} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %s:\n%s", want, out)
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	const input = `\frac{x^2_i}{\sqrt{a+b}}`
	first, err := Parse(input, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Parse(input, nil)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("parse %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	const input = `x = \frac{-b + \sqrt{b^2 - 4ac}}{2a}`
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(input, nil); err != nil {
			b.Fatal(err)
		}
	}
}
