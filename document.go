package texart

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ryanlewis/texart/internal/debug"
)

type segmentKind int

const (
	segmentText segmentKind = iota
	segmentInline
	segmentDisplay
)

func (k segmentKind) String() string {
	switch k {
	case segmentInline:
		return "inline"
	case segmentDisplay:
		return "display"
	default:
		return "text"
	}
}

// segment is one piece of a document. For math, value is the markup between
// the delimiters and source the span including them.
type segment struct {
	kind   segmentKind
	value  string
	source string
}

// RenderDocument renders the math embedded in plain text and leaves the text
// itself untouched.
//
// Display math ($$...$$ or \[...\]) is drawn on lines of its own. Inline math
// ($...$ or \(...\)) is spliced into the line when it renders as a single
// row; taller inline math is left as written. A dollar sign preceded by a
// backslash is not a delimiter. Math that fails to render is kept as source
// text rather than failing the document, so the only errors are invalid
// options and ctx cancellation.
//
// Segments render concurrently through the default Cache.
func RenderDocument(ctx context.Context, text string, opts ...Option) (string, error) {
	o, err := newOptions(opts)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	segments := splitSegments(text)
	rendered := make([]string, len(segments))
	fallback := make([]bool, len(segments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, seg := range segments {
		if seg.kind == segmentText {
			rendered[i] = seg.value
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rendered[i], fallback[i] = renderSegment(seg, o)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	// Sessions are not safe for concurrent use, so events go out after the fan-in.
	session := o.session()
	defer session.Close()
	for i, seg := range segments {
		session.Emit("document", "Segment", debug.SegmentData{
			Index:    i,
			Type:     seg.kind.String(),
			Length:   len(seg.source),
			Fallback: fallback[i],
		})
	}

	return joinSegments(segments, rendered), nil
}

// renderSegment renders one math segment, reporting whether it fell back to
// the source text.
func renderSegment(seg segment, o *options) (string, bool) {
	switch seg.kind {
	case segmentDisplay:
		src := strings.TrimSpace(strings.ReplaceAll(seg.value, "\r\n", "\n"))
		out, err := defaultCache.render(src, o)
		if err != nil || strings.TrimSpace(out) == "" {
			return src, true
		}
		return out, false
	case segmentInline:
		out, err := defaultCache.render(seg.value, o)
		if err != nil || out == "" || strings.Contains(out, "\n") {
			return seg.source, true
		}
		return out, false
	default:
		return seg.value, false
	}
}

// joinSegments concatenates the rendered pieces, putting display math on
// lines of its own.
func joinSegments(segments []segment, rendered []string) string {
	var sb strings.Builder
	atLineStart := true
	for i, seg := range segments {
		r := rendered[i]
		if seg.kind == segmentDisplay {
			if !atLineStart {
				sb.WriteByte('\n')
			}
			sb.WriteString(r)
			if i+1 < len(segments) && !strings.HasPrefix(rendered[i+1], "\n") {
				sb.WriteByte('\n')
				atLineStart = true
				continue
			}
		} else {
			sb.WriteString(r)
		}
		if r != "" {
			atLineStart = strings.HasSuffix(r, "\n")
		}
	}
	return sb.String()
}

// splitSegments cuts text into plain text and math. Display delimiters are
// tried before inline ones at every position.
func splitSegments(text string) []segment {
	var segments []segment
	textStart := 0

	pushText := func(end int) {
		if end > textStart {
			segments = append(segments, segment{kind: segmentText, value: text[textStart:end], source: text[textStart:end]})
		}
	}

	for i := 0; i < len(text); {
		seg, end, ok := displayAt(text, i)
		if !ok {
			seg, end, ok = inlineAt(text, i)
		}
		if !ok {
			i++
			continue
		}
		pushText(i)
		segments = append(segments, seg)
		i = end
		textStart = end
	}
	pushText(len(text))
	return segments
}

func displayAt(text string, i int) (segment, int, bool) {
	if strings.HasPrefix(text[i:], "$$") && !escaped(text, i) {
		if end := findUnescaped(text, "$$", i+2); end >= 0 {
			return segment{kind: segmentDisplay, value: text[i+2 : end], source: text[i : end+2]}, end + 2, true
		}
		return segment{}, 0, false
	}
	if strings.HasPrefix(text[i:], `\[`) && !escaped(text, i) {
		if end := strings.Index(text[i+2:], `\]`); end >= 0 {
			end += i + 2
			return segment{kind: segmentDisplay, value: text[i+2 : end], source: text[i : end+2]}, end + 2, true
		}
	}
	return segment{}, 0, false
}

func inlineAt(text string, i int) (segment, int, bool) {
	if text[i] == '$' && !escaped(text, i) && !strings.HasPrefix(text[i:], "$$") {
		end := findUnescaped(text, "$", i+1)
		if end < 0 || strings.HasPrefix(text[end:], "$$") {
			return segment{}, 0, false
		}
		return segment{kind: segmentInline, value: text[i+1 : end], source: text[i : end+1]}, end + 1, true
	}
	if strings.HasPrefix(text[i:], `\(`) && !escaped(text, i) {
		if end := strings.Index(text[i+2:], `\)`); end >= 0 {
			end += i + 2
			return segment{kind: segmentInline, value: text[i+2 : end], source: text[i : end+2]}, end + 2, true
		}
	}
	return segment{}, 0, false
}

// escaped reports whether text[i] is preceded by an odd number of backslashes.
func escaped(text string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && text[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// findUnescaped returns the index of the first unescaped needle at or after
// from, or -1.
func findUnescaped(text, needle string, from int) int {
	for from <= len(text) {
		at := strings.Index(text[from:], needle)
		if at < 0 {
			return -1
		}
		at += from
		if !escaped(text, at) {
			return at
		}
		from = at + len(needle)
	}
	return -1
}
