package renderer

import (
	"sync"

	"github.com/ryanlewis/texart/internal/strutil"
)

// Default sizes for buffer allocation
const (
	defaultCanvasCells = 256
	defaultBufferSize  = 256

	// Buffer retention thresholds - buffers larger than these are released
	// to prevent memory bloat in the pool from occasional large renders
	maxRetainCanvasCells = 64 * 1024 // 256KB of runes
	maxRetainBuffer      = 64 * 1024
)

// canvasPool manages a pool of Canvas objects to reduce allocations.
//
// Every render call acquires exactly one canvas and returns it when the
// output has been serialized, so a canvas is never seen by two calls at once.
var canvasPool = sync.Pool{
	New: func() interface{} {
		return &Canvas{cells: make([]rune, 0, defaultCanvasCells)}
	},
}

// bufferPool manages byte buffers for serialization and pooled outputs
var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, defaultBufferSize)
		return &buf
	},
}

// acquireCanvas gets a blank canvas of the given size from the pool.
func acquireCanvas(rows, cols int) *Canvas {
	c := canvasPool.Get().(*Canvas)
	c.rows, c.cols = rows, cols

	n := rows * cols
	c.cells = strutil.Grow(c.cells[:0], n)[:n]
	for i := range c.cells {
		c.cells[i] = ' '
	}
	return c
}

// releaseCanvas returns a canvas to the pool.
// Oversized cell buffers are dropped so one large render does not pin memory.
func releaseCanvas(c *Canvas) {
	if c == nil {
		return
	}
	if cap(c.cells) > maxRetainCanvasCells {
		c.cells = nil
	}
	c.rows, c.cols = 0, 0
	canvasPool.Put(c)
}

// AcquireBuffer gets an empty byte buffer from the pool.
func AcquireBuffer() []byte {
	bufPtr := bufferPool.Get().(*[]byte)
	buf := *bufPtr
	return buf[:0] // Reset length but keep capacity
}

// ReleaseBuffer returns a byte buffer to the pool.
func ReleaseBuffer(buf []byte) {
	if buf == nil || cap(buf) < defaultBufferSize/2 {
		return // Don't pool small buffers
	}
	if cap(buf) > maxRetainBuffer {
		return // Prevent memory bloat
	}
	buf = buf[:0]
	bufferPool.Put(&buf)
}
