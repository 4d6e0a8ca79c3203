// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package partial

import (
	"github.com/consensys/go-partial/pkg/util/source"
	"github.com/consensys/go-partial/pkg/util/source/lex"
)

// Parser recognises partial application invocations within an input file.
// Text between invocations is not interpreted in any way; the parser simply
// scans over it.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{srcfile, nil, 0}
}

// Parse scans an entire source file, returning every outermost invocation
// found (in source order) or some number of syntax errors.  Invocations
// nested within the target or a fixed slot of another invocation are recorded
// on the enclosing expression, not returned at the top level.
func Parse(srcfile *source.File) ([]*Invocation, []source.SyntaxError) {
	parser := NewParser(srcfile)
	//
	return parser.Parse()
}

// Parse the underlying source file, as per Parse above.
func (p *Parser) Parse() ([]*Invocation, []source.SyntaxError) {
	var (
		invs   []*Invocation
		errors []source.SyntaxError
	)
	// Convert source file into tokens
	if p.tokens, errors = Lex(p.srcfile); len(errors) > 0 {
		return nil, errors
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		if !p.invocationFollows() {
			p.index++
			continue
		}
		//
		inv, errs := p.parseInvocation()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		invs = append(invs, inv)
	}
	//
	return invs, nil
}

// Check whether an invocation starts at the current position, i.e. the
// identifier "partial" followed by "!" and "(".  Since a binary operator must
// separate an identifier from a prefix "!" in any valid Go expression, this
// token pattern cannot occur with another meaning.
func (p *Parser) invocationFollows() bool {
	if p.index+2 >= len(p.tokens) {
		return false
	}
	//
	return p.tokens[p.index].Kind == IDENTIFIER &&
		p.text(p.tokens[p.index]) == "partial" &&
		p.tokens[p.index+1].Kind == BANG &&
		p.tokens[p.index+2].Kind == LPAREN
}

// Parse a complete invocation, starting at the "partial" identifier and
// ending after the matching close parenthesis.
func (p *Parser) parseInvocation() (*Invocation, []source.SyntaxError) {
	var (
		inv   Invocation
		start = p.index
		errs  []source.SyntaxError
	)
	// Advance past "partial", "!" and "("
	p.index += 3
	// Check for ownership qualifier.  A bare "move" followed by a separator
	// is a target expression, not a qualifier.
	if p.lookahead().Kind == IDENTIFIER && p.text(p.lookahead()) == "move" &&
		!isSeparator(p.tokens[p.index+1].Kind) {
		inv.Move = true
		p.index++
	}
	// Parse target expression
	if inv.Target, errs = p.parseExpr(FATARROW, COMMA, SEMICOLON); len(errs) > 0 {
		return nil, errs
	} else if inv.Target.Span.Length() == 0 {
		return nil, p.syntaxErrors(p.lookahead(), "missing target")
	}
	// Consume separator
	if !isSeparator(p.lookahead().Kind) {
		return nil, p.syntaxErrors(p.lookahead(), "expected \"=>\", \",\" or \";\" after target")
	}
	//
	p.index++
	// Parse slot list
	if errs = p.parseSlots(&inv); len(errs) > 0 {
		return nil, errs
	}
	// Advance past ")"
	end := p.index
	p.index++
	//
	inv.Span = p.spanOf(start, end)
	//
	return &inv, nil
}

// Parse the (possibly empty) slot list of an invocation, up to but not
// including the closing parenthesis.  A trailing comma is permitted and has
// no semantic effect.
func (p *Parser) parseSlots(inv *Invocation) []source.SyntaxError {
	first := true
	//
	for p.lookahead().Kind != RPAREN {
		// look for ","
		if !first {
			if p.lookahead().Kind != COMMA {
				return p.syntaxErrors(p.lookahead(), "expected \",\" or \")\"")
			}
			//
			p.index++
			// Check for trailing comma
			if p.lookahead().Kind == RPAREN {
				break
			}
		}
		//
		first = false
		//
		slot, errs := p.parseSlot()
		//
		if len(errs) > 0 {
			return errs
		}
		//
		inv.Slots = append(inv.Slots, slot)
	}
	//
	return nil
}

// Parse a single slot, which is either the placeholder "_" or an arbitrary
// expression.
func (p *Parser) parseSlot() (Slot, []source.SyntaxError) {
	lookahead := p.lookahead()
	// Check for placeholder
	if lookahead.Kind == IDENTIFIER && p.text(lookahead) == "_" &&
		(p.tokens[p.index+1].Kind == COMMA || p.tokens[p.index+1].Kind == RPAREN) {
		p.index++
		//
		return Slot{nil, lookahead.Span}, nil
	}
	// Otherwise, must be a fixed expression
	expr, errs := p.parseExpr(COMMA)
	//
	if len(errs) > 0 {
		return Slot{}, errs
	} else if expr.Span.Length() == 0 {
		return Slot{}, p.syntaxErrors(p.lookahead(), "malformed argument")
	}
	//
	return Slot{expr, expr.Span}, nil
}

// Parse an expression at the token level, stopping at any of the given token
// kinds (or a close parenthesis) at bracket depth zero.  Brackets of all
// three kinds must balance; commas and separators inside nested brackets
// belong to the expression.  Nested invocations are parsed recursively and
// recorded on the expression.
func (p *Parser) parseExpr(stops ...uint) (*Expr, []source.SyntaxError) {
	var (
		expr  Expr
		depth = 0
		start = p.index
	)
	//
	for {
		lookahead := p.lookahead()
		// Check stop conditions at depth zero
		if depth == 0 && (lookahead.Kind == RPAREN || isStop(lookahead.Kind, stops)) {
			break
		}
		//
		switch {
		case lookahead.Kind == END_OF:
			return nil, p.syntaxErrors(lookahead, "unexpected end of file")
		case p.invocationFollows():
			nested, errs := p.parseInvocation()
			if len(errs) > 0 {
				return nil, errs
			}
			//
			expr.Nested = append(expr.Nested, nested)
			// parseInvocation consumed through its close parenthesis
			continue
		case lookahead.Kind == LPAREN || lookahead.Kind == LBRACK || lookahead.Kind == LCURLY:
			depth++
		case lookahead.Kind == RPAREN || lookahead.Kind == RBRACK || lookahead.Kind == RCURLY:
			depth--
			// A closer at depth zero other than ")" cannot belong to the
			// expression.
			if depth < 0 {
				return nil, p.syntaxErrors(lookahead, "unbalanced brackets")
			}
		}
		//
		p.index++
	}
	// Empty expressions are reported by the caller, which knows the context.
	if p.index == start {
		lookahead := p.lookahead()
		pos := lookahead.Span.Start()
		expr.Span = source.NewSpan(pos, pos)
	} else {
		expr.Span = p.spanOf(start, p.index-1)
	}
	//
	return &expr, nil
}

// Check whether a given token kind is one of the three interchangeable
// separator tokens.
func isSeparator(kind uint) bool {
	return kind == FATARROW || kind == COMMA || kind == SEMICOLON
}

func isStop(kind uint, stops []uint) bool {
	for _, s := range stops {
		if kind == s {
			return true
		}
	}
	//
	return false
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Get the text representing the given token as a string.
func (p *Parser) text(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	//
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
