// Package parser implements the recursive-descent markup parser.
//
// Grammar, tightest binding first:
//
//	list    := term*
//	term    := primary (('^' | '_') primary)*
//	primary := char | '{' list '}' | \frac group group | \sqrt group
//
// Box geometry is computed by the box constructors as each node is built, so
// the returned tree is ready to paint.
package parser

import (
	"github.com/ryanlewis/texart/internal/box"
	"github.com/ryanlewis/texart/internal/common"
	"github.com/ryanlewis/texart/internal/debug"
	"github.com/ryanlewis/texart/internal/lexer"
)

// Options configures a parse.
type Options struct {
	// Metrics are the decoration allowances handed to the box constructors.
	Metrics box.Metrics
	// Debug receives token and box events. Nil disables tracing.
	Debug *debug.Session
}

// parser holds the state of one parse. It is never shared.
type parser struct {
	lex     *lexer.Lexer
	metrics box.Metrics
	debug   *debug.Session

	depth  int
	tokens int
}

// Parse builds the box tree for input. A nil opts uses the default metrics.
func Parse(input string, opts *Options) (*box.Box, error) {
	p := &parser{
		lex:     lexer.New(input),
		metrics: box.DefaultMetrics(),
	}
	if opts != nil {
		p.metrics = opts.Metrics
		p.debug = opts.Debug
	}

	root, err := p.parseList(false)
	if err != nil {
		return nil, err
	}

	// parseList only stops at EOF or a group close.
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != lexer.EOF {
		return nil, common.Newf(common.KindParse, common.ReasonTrailingTokens, tok.Offset,
			"unexpected %q with no open group", tok.Text)
	}

	p.emitBox(root, 0)
	return root, nil
}

func (p *parser) peek() (lexer.Token, error) {
	return p.lex.Peek()
}

func (p *parser) next() (lexer.Token, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return tok, err
	}
	if p.debug != nil && tok.Kind != lexer.EOF {
		p.debug.Emit("lex", "Token", debug.TokenData{
			Index:  p.tokens,
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Offset: tok.Offset,
		})
	}
	p.tokens++
	return tok, nil
}

// enter guards the recursion depth. Every call must be paired with leave.
func (p *parser) enter(offset int) error {
	p.depth++
	if p.depth > common.MaxDepth {
		return common.Newf(common.KindParse, common.ReasonTooDeep, offset,
			"nesting exceeds %d levels", common.MaxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// parseList reads terms until EOF or a closing brace, neither of which it
// consumes. A brace at top level (inGroup false) is left for Parse to report.
func (p *parser) parseList(inGroup bool) (*box.Box, error) {
	var items []*box.Box
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.EOF || tok.Kind == lexer.GroupClose {
			break
		}

		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		items = append(items, term)
	}

	list := box.NewHList(items)
	if len(items) > 1 {
		p.emitBox(list, -1)
	}
	return list, nil
}

// parseTerm reads a primary and any scripts attached to it. A script marker
// with nothing before it attaches to an empty base.
func (p *parser) parseTerm() (*box.Box, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	var base *box.Box
	if tok.Kind == lexer.Superscript || tok.Kind == lexer.Subscript {
		base = box.NewEmpty()
	} else {
		base, err = p.parsePrimary()
		if err != nil {
			return nil, err
		}
	}

	var sup, sub *box.Box
	for {
		marker, err := p.peek()
		if err != nil {
			return nil, err
		}
		if marker.Kind != lexer.Superscript && marker.Kind != lexer.Subscript {
			break
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}

		isSup := marker.Kind == lexer.Superscript
		if (isSup && sup != nil) || (!isSup && sub != nil) {
			return nil, common.Newf(common.KindParse, common.ReasonDoubleScript, marker.Offset,
				"second %q on the same base", marker.Text)
		}

		arg, err := p.parseScriptArg(marker)
		if err != nil {
			return nil, err
		}
		if isSup {
			sup = arg
		} else {
			sub = arg
		}
	}

	if sup == nil && sub == nil {
		return base, nil
	}
	scripted := box.NewScripted(base, sup, sub, p.metrics)
	p.emitBox(scripted, tok.Offset)
	return scripted, nil
}

// parseScriptArg reads the primary after a script marker.
func (p *parser) parseScriptArg(marker lexer.Token) (*box.Box, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case lexer.EOF, lexer.GroupClose, lexer.Superscript, lexer.Subscript:
		return nil, common.Newf(common.KindParse, common.ReasonMissingArgument, marker.Offset,
			"%q needs an argument", marker.Text)
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*box.Box, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case lexer.Char:
		b := box.NewChar([]rune(tok.Text)[0])
		p.emitBox(b, tok.Offset)
		return b, nil
	case lexer.GroupOpen:
		return p.parseGroupBody(tok)
	case lexer.ControlWord:
		return p.parseControlWord(tok)
	default:
		// Only reachable through a caller that did not peek first.
		return nil, common.Newf(common.KindParse, common.ReasonMissingArgument, tok.Offset,
			"expected an expression, got %s", tok.Kind)
	}
}

// parseGroupBody parses the list after an already consumed '{' and the
// matching '}'.
func (p *parser) parseGroupBody(open lexer.Token) (*box.Box, error) {
	if err := p.enter(open.Offset); err != nil {
		return nil, err
	}
	defer p.leave()

	list, err := p.parseList(true)
	if err != nil {
		return nil, err
	}

	closing, err := p.next()
	if err != nil {
		return nil, err
	}
	if closing.Kind != lexer.GroupClose {
		return nil, common.Newf(common.KindParse, common.ReasonUnbalancedGroup, open.Offset,
			"group opened here is never closed")
	}
	return list, nil
}

func (p *parser) parseControlWord(cw lexer.Token) (*box.Box, error) {
	switch cw.Text {
	case "frac":
		if err := p.enter(cw.Offset); err != nil {
			return nil, err
		}
		defer p.leave()

		num, err := p.parseGroupArg(cw, "numerator")
		if err != nil {
			return nil, err
		}
		den, err := p.parseGroupArg(cw, "denominator")
		if err != nil {
			return nil, err
		}
		b := box.NewFraction(num, den, p.metrics)
		p.emitBox(b, cw.Offset)
		return b, nil

	case "sqrt":
		if err := p.enter(cw.Offset); err != nil {
			return nil, err
		}
		defer p.leave()

		child, err := p.parseGroupArg(cw, "radicand")
		if err != nil {
			return nil, err
		}
		b := box.NewRadical(child)
		p.emitBox(b, cw.Offset)
		return b, nil

	default:
		return nil, common.Newf(common.KindParse, common.ReasonUnknownControlWord, cw.Offset,
			`unknown control word \%s`, cw.Text)
	}
}

// parseGroupArg reads a mandatory {...} argument of a control word.
func (p *parser) parseGroupArg(cw lexer.Token, what string) (*box.Box, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != lexer.GroupOpen {
		return nil, common.Newf(common.KindParse, common.ReasonMissingArgument, cw.Offset,
			`\%s is missing its %s group`, cw.Text, what)
	}
	open, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.parseGroupBody(open)
}

func (p *parser) emitBox(b *box.Box, offset int) {
	if p.debug == nil {
		return
	}
	p.debug.Emit("parse", "Box", debug.BoxData{
		Kind:    b.Kind.String(),
		Offset:  offset,
		Width:   b.Width,
		Height:  b.Height,
		Depth:   b.Depth,
		Nesting: p.depth,
	})
}
