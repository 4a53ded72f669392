package debug

// TokenData describes one token consumed by the parser.
type TokenData struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	Offset int    `json:"offset"`
}

// BoxData describes a box as it is built, geometry included.
type BoxData struct {
	Kind    string `json:"kind"`
	Offset  int    `json:"offset"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Depth   int    `json:"depth"`
	Nesting int    `json:"nesting"`
}

// RenderStartData contains information about the start of a render operation.
type RenderStartData struct {
	Input       string `json:"input"`
	InputLength int    `json:"input_length"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Depth       int    `json:"depth"`
	Glyphs      string `json:"glyphs"`
}

// PaintData records where a box was painted on the canvas.
type PaintData struct {
	Kind     string `json:"kind"`
	Baseline int    `json:"baseline"`
	Col      int    `json:"col"`
	Width    int    `json:"width"`
}

// RenderEndData contains information about the end of a render operation.
type RenderEndData struct {
	Rows         int   `json:"rows"`
	Columns      int   `json:"columns"`
	ElapsedMs    int64 `json:"elapsed_ms"`
	BytesWritten int   `json:"bytes_written"`
}

// SegmentData describes one segment of a document render.
type SegmentData struct {
	Index    int    `json:"index"`
	Type     string `json:"type"`
	Length   int    `json:"length"`
	Fallback bool   `json:"fallback,omitempty"`
}

// OptionsData contains render options information.
type OptionsData struct {
	FractionPadding int    `json:"fraction_padding"`
	SuperscriptDrop int    `json:"superscript_drop"`
	SubscriptRise   int    `json:"subscript_rise"`
	Glyphs          string `json:"glyphs"`
	TrimWhitespace  bool   `json:"trim_whitespace"`
}

// ErrorData contains error information.
type ErrorData struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// SessionData opens and closes a session. Version is set on start,
// ElapsedMs on end.
type SessionData struct {
	Version   string `json:"version,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms,omitempty"`
}
