package texart

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderDocument(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain text untouched",
			text: "no math here\n  at all ",
			want: "no math here\n  at all ",
		},
		{
			name: "inline math spliced",
			text: "Area $a+b$ done",
			want: "Area a+b done",
		},
		{
			name: "inline paren math spliced",
			text: `so \(ab\) holds`,
			want: "so ab holds",
		},
		{
			name: "tall inline math kept as source",
			text: `$\frac{a}{b}$ stays and \(x^2\) too`,
			want: `$\frac{a}{b}$ stays and \(x^2\) too`,
		},
		{
			name: "escaped dollars are text",
			text: `costs \$5 and \$6`,
			want: `costs \$5 and \$6`,
		},
		{
			name: "unterminated inline math is text",
			text: "just $a",
			want: "just $a",
		},
		{
			name: "display math on its own lines",
			text: `Then $$\frac{a}{b}$$ end`,
			want: join("Then ", " a ", "---", " b ", " end"),
		},
		{
			name: "display math block",
			text: "$$\n\\frac{1}{2}\n$$\nafter",
			want: join(" 1 ", "---", " 2 ", "after"),
		},
		{
			name: "bracket display with CRLF",
			text: "\\[\r\n\\sqrt{x}\r\n\\]",
			want: join(" _", "√x"),
		},
		{
			name: "failed display falls back to source",
			text: `$$ \foo{x} $$`,
			want: `\foo{x}`,
		},
		{
			name: "failed inline keeps delimiters",
			text: `a $\frac{1}$ b`,
			want: `a $\frac{1}$ b`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderDocument(context.Background(), tt.text)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRenderDocumentOptions(t *testing.T) {
	got, err := RenderDocument(context.Background(), `$$\sqrt{x}$$`, WithGlyphs(ASCIIGlyphs))
	require.NoError(t, err)
	require.Equal(t, join(" _", "Vx"), got)

	_, err = RenderDocument(context.Background(), "x", WithMetrics(Metrics{SubscriptRise: -1}))
	require.ErrorIs(t, err, ErrInvalidMetrics)
}

func TestRenderDocumentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RenderDocument(ctx, "a $b$ c")
	require.ErrorIs(t, err, context.Canceled)
}

func TestRenderDocumentTrace(t *testing.T) {
	EnableDebug(true)
	defer EnableDebug(false)

	var trace bytes.Buffer
	_, err := RenderDocument(context.Background(), `x $y$ $$\foo$$`, WithDebug(&trace, false))
	require.NoError(t, err)
	require.Contains(t, trace.String(), `"type":"inline"`)
	require.Contains(t, trace.String(), `"fallback":true`)
}

func TestSplitSegments(t *testing.T) {
	type seg struct {
		Kind  segmentKind
		Value string
	}

	got := splitSegments(`a $x$ b $$y$$ \(z\) \[w\] \$ $$`)
	var simple []seg
	for _, s := range got {
		simple = append(simple, seg{s.kind, s.value})
	}

	require.Equal(t, []seg{
		{segmentText, "a "},
		{segmentInline, "x"},
		{segmentText, " b "},
		{segmentDisplay, "y"},
		{segmentText, " "},
		{segmentInline, "z"},
		{segmentText, " "},
		{segmentDisplay, "w"},
		{segmentText, ` \$ $$`},
	}, simple)
}

// An even run of backslashes escapes itself and leaves no opener behind.
func TestSplitSegmentsEscapedOpeners(t *testing.T) {
	for _, text := range []string{`\\(x\)`, `\\[x\]`, `a \\\\(y\)`} {
		t.Run(text, func(t *testing.T) {
			got := splitSegments(text)
			require.Len(t, got, 1)
			require.Equal(t, segmentText, got[0].kind)
			require.Equal(t, text, got[0].value)
		})
	}
}

func TestSplitSegmentsEscapedBackslash(t *testing.T) {
	// A doubled backslash escapes itself, so the dollar opens math.
	got := splitSegments(`\\$x$`)
	require.Len(t, got, 2)
	require.Equal(t, segmentInline, got[1].kind)
	require.Equal(t, "x", got[1].value)
}
