// Package lexer turns markup text into a lazy stream of tokens.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/ryanlewis/texart/internal/common"
)

// Kind identifies the token type.
type Kind int

const (
	EOF Kind = iota
	Char
	ControlWord
	GroupOpen
	GroupClose
	Superscript
	Subscript
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Char:
		return "Char"
	case ControlWord:
		return "ControlWord"
	case GroupOpen:
		return "GroupOpen"
	case GroupClose:
		return "GroupClose"
	case Superscript:
		return "Superscript"
	case Subscript:
		return "Subscript"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one lexical unit. Text holds the character, or the control word
// name without its backslash. Offset is the byte offset in the input.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}

func (t Token) String() string {
	if t.Kind == ControlWord {
		return fmt.Sprintf(`\%s@%d`, t.Text, t.Offset)
	}
	if t.Kind == EOF {
		return fmt.Sprintf("EOF@%d", t.Offset)
	}
	return fmt.Sprintf("%q@%d", t.Text, t.Offset)
}

// Lexer produces tokens on demand. It is not safe for concurrent use.
type Lexer struct {
	input string
	pos   int

	peeked  *Token
	peekErr error
}

// New returns a lexer positioned at the start of input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Reset rewinds the lexer to the start of its input.
func (l *Lexer) Reset() {
	l.pos = 0
	l.peeked = nil
	l.peekErr = nil
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	if l.peeked == nil && l.peekErr == nil {
		tok, err := l.scan()
		if err != nil {
			l.peekErr = err
		} else {
			l.peeked = &tok
		}
	}
	if l.peekErr != nil {
		return Token{}, l.peekErr
	}
	return *l.peeked, nil
}

// Next consumes and returns the next token. Once the input is exhausted it
// keeps returning EOF.
func (l *Lexer) Next() (Token, error) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, nil
	}
	if l.peekErr != nil {
		return Token{}, l.peekErr
	}
	return l.scan()
}

func (l *Lexer) scan() (Token, error) {
	l.whitespaces()
	if l.pos >= len(l.input) {
		return Token{Kind: EOF, Offset: len(l.input)}, nil
	}

	start := l.pos
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if r == utf8.RuneError && size == 1 {
		return Token{}, common.Newf(common.KindLex, common.ReasonInvalidEncoding, start,
			"invalid UTF-8 byte 0x%02X", l.input[start])
	}
	// Control and format runes have no cell of their own.
	if !unicode.IsGraphic(r) {
		return Token{}, common.Newf(common.KindLex, common.ReasonInvalidCharacter, start,
			"unprintable character %U", r)
	}
	l.pos += size

	switch r {
	case '{':
		return Token{Kind: GroupOpen, Text: "{", Offset: start}, nil
	case '}':
		return Token{Kind: GroupClose, Text: "}", Offset: start}, nil
	case '^':
		return Token{Kind: Superscript, Text: "^", Offset: start}, nil
	case '_':
		return Token{Kind: Subscript, Text: "_", Offset: start}, nil
	case '\\':
		return l.readControlWord(start)
	default:
		return Token{Kind: Char, Text: string(r), Offset: start}, nil
	}
}

// readControlWord reads the maximal run of letters after a backslash.
func (l *Lexer) readControlWord(start int) (Token, error) {
	nameStart := l.pos
	for l.pos < len(l.input) && isLetter(l.input[l.pos]) {
		l.pos++
	}

	if l.pos == nameStart {
		if l.pos >= len(l.input) {
			return Token{}, common.Newf(common.KindLex, common.ReasonUnterminatedEscape, start,
				"input ends after backslash")
		}
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		return Token{}, common.Newf(common.KindLex, common.ReasonMalformedEscape, start,
			"backslash must be followed by a letter, got %q", r)
	}

	return Token{Kind: ControlWord, Text: l.input[nameStart:l.pos], Offset: start}, nil
}

// whitespaces skips until next non-whitespace byte
func (l *Lexer) whitespaces() {
	for l.pos < len(l.input) && isWhitespace(l.input[l.pos]) {
		l.pos++
	}
}

// isLetter returns true for an ASCII letter
func isLetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\n', '\t', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}
