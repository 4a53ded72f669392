package renderer

import (
	"unicode/utf8"

	"github.com/ryanlewis/texart/internal/common"
	"github.com/ryanlewis/texart/internal/strutil"
)

// continuation marks the cells covered by the right half of a wide rune.
// They are skipped when the canvas is serialized.
const continuation rune = -1

// Canvas is a fixed-size grid of runes, blank cells holding a space.
// Writes outside the grid report a geometry mismatch instead of panicking.
type Canvas struct {
	rows, cols int
	cells      []rune
}

// Rows returns the canvas height.
func (c *Canvas) Rows() int { return c.rows }

// Cols returns the canvas width.
func (c *Canvas) Cols() int { return c.cols }

// Set writes r at (row, col). A wide rune also claims the cells to its right.
func (c *Canvas) Set(row, col int, r rune) error {
	w := strutil.RuneWidth(r)
	if row < 0 || row >= c.rows || col < 0 || col+w > c.cols {
		return common.Newf(common.KindInternal, common.ReasonGeometryMismatch, -1,
			"write of %q at row %d col %d outside %dx%d canvas", r, row, col, c.rows, c.cols)
	}
	i := row*c.cols + col
	c.cells[i] = r
	for k := 1; k < w; k++ {
		c.cells[i+k] = continuation
	}
	return nil
}

// HLine writes n copies of r starting at (row, col).
func (c *Canvas) HLine(row, col, n int, r rune) error {
	for k := 0; k < n; k++ {
		if err := c.Set(row, col+k, r); err != nil {
			return err
		}
	}
	return nil
}

// AppendTo serializes the canvas onto dst: rows joined by '\n' with no
// trailing newline. Trailing spaces are kept unless trim is set.
func (c *Canvas) AppendTo(dst []byte, trim bool) []byte {
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			dst = append(dst, '\n')
		}
		line := c.cells[row*c.cols : (row+1)*c.cols]
		end := len(line)
		if trim {
			for end > 0 && (line[end-1] == ' ' || line[end-1] == continuation) {
				end--
			}
		}
		dst = strutil.Grow(dst, end*utf8.UTFMax)
		for _, r := range line[:end] {
			if r == continuation {
				continue
			}
			dst = utf8.AppendRune(dst, r)
		}
	}
	return dst
}

// String serializes the canvas with trailing spaces kept.
func (c *Canvas) String() string {
	return string(c.AppendTo(nil, false))
}
