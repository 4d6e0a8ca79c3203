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
	"unicode"

	"github.com/consensys/go-partial/pkg/util/source"
	"github.com/consensys/go-partial/pkg/util/source/lex"
)

// The lexer recognises Go-shaped tokens.  It does not need to understand Go
// expressions, only to find their boundaries: string / rune / comment tokens
// are consumed wholesale (so that "partial!(" inside them is never mistaken
// for an invocation), and bracket tokens allow tracking expression nesting.

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// LINE_COMMENT signals "// ... \n"
const LINE_COMMENT uint = 2

// BLOCK_COMMENT signals "/* ... */"
const BLOCK_COMMENT uint = 3

// LPAREN signals "("
const LPAREN uint = 4

// RPAREN signals ")"
const RPAREN uint = 5

// LBRACK signals "["
const LBRACK uint = 6

// RBRACK signals "]"
const RBRACK uint = 7

// LCURLY signals "{"
const LCURLY uint = 8

// RCURLY signals "}"
const RCURLY uint = 9

// COMMA signals ","
const COMMA uint = 10

// SEMICOLON signals ";"
const SEMICOLON uint = 11

// FATARROW signals "=>"
const FATARROW uint = 12

// BANG signals "!"
const BANG uint = 13

// IDENTIFIER signals an identifier
const IDENTIFIER uint = 14

// NUMBER signals a numeric literal
const NUMBER uint = 15

// STRING signals an interpreted string literal
const STRING uint = 16

// RAW_STRING signals a raw (backquoted) string literal
const RAW_STRING uint = 17

// RUNE signals a rune literal
const RUNE uint = 18

// OPERATOR signals a maximal run of operator characters
const OPERATOR uint = 19

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))

// Line comments continue until a newline or EOF.
var lineComment lex.Scanner[rune] = lex.And(lex.String("//"), lex.Until('\n'))

// Block comments continue until the closing "*/" (non-nesting, as in Go).
func blockComment(items []rune) uint {
	if len(items) < 2 || items[0] != '/' || items[1] != '*' {
		return 0
	}
	//
	for i := 2; i+1 < len(items); i++ {
		if items[i] == '*' && items[i+1] == '/' {
			return uint(i + 2)
		}
	}
	// Unterminated comment: consume everything, leaving the parser to
	// complain about the missing invocation terminator.
	return uint(len(items))
}

// Interpreted string literals, honouring backslash escapes.
func interpretedString(items []rune) uint {
	return quoted(items, '"')
}

// Rune literals, honouring backslash escapes.
func runeLiteral(items []rune) uint {
	return quoted(items, '\'')
}

func quoted(items []rune, delim rune) uint {
	if len(items) == 0 || items[0] != delim {
		return 0
	}
	//
	for i := 1; i < len(items); i++ {
		switch items[i] {
		case '\\':
			// skip escaped character
			i++
		case delim:
			return uint(i + 1)
		}
	}
	// Unterminated literal
	return uint(len(items))
}

// Raw string literals run to the next backquote, with no escapes.
func rawString(items []rune) uint {
	if len(items) == 0 || items[0] != '`' {
		return 0
	}
	//
	for i := 1; i < len(items); i++ {
		if items[i] == '`' {
			return uint(i + 1)
		}
	}
	// Unterminated literal
	return uint(len(items))
}

// Identifiers follow the Go specification (Unicode letters permitted).
func identifier(items []rune) uint {
	if len(items) == 0 || (items[0] != '_' && !unicode.IsLetter(items[0])) {
		return 0
	}
	//
	i := 1
	for i < len(items) && (items[i] == '_' || unicode.IsLetter(items[i]) || unicode.IsDigit(items[i])) {
		i++
	}
	//
	return uint(i)
}

// Numeric literals.  The lexer only needs their extent, not their value, so a
// digit followed by any run of alphanumerics, underscores and dots is enough
// to cover integer, float, hex and binary forms.  Exponent signs ("1e-3")
// split into separate tokens, which is harmless since expression text is
// lifted verbatim.
func number(items []rune) uint {
	if len(items) == 0 || items[0] < '0' || items[0] > '9' {
		return 0
	}
	//
	i := 1
	for i < len(items) && (items[i] == '_' || items[i] == '.' ||
		unicode.IsLetter(items[i]) || unicode.IsDigit(items[i])) {
		i++
	}
	//
	return uint(i)
}

// Operator characters, excluding "!" (which must remain a token of its own so
// that invocations can be recognised) and all delimiters handled above.
var opchar lex.Scanner[rune] = lex.Or(
	lex.Unit('+'), lex.Unit('-'), lex.Unit('*'), lex.Unit('/'), lex.Unit('%'),
	lex.Unit('&'), lex.Unit('|'), lex.Unit('^'), lex.Unit('<'), lex.Unit('>'),
	lex.Unit('='), lex.Unit(':'), lex.Unit('.'), lex.Unit('~'))

var operator lex.Scanner[rune] = lex.And(opchar, lex.Many(opchar))

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(lineComment, LINE_COMMENT),
	lex.Rule(blockComment, BLOCK_COMMENT),
	lex.Rule(interpretedString, STRING),
	lex.Rule(rawString, RAW_STRING),
	lex.Rule(runeLiteral, RUNE),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(lex.Unit('('), LPAREN),
	lex.Rule(lex.Unit(')'), RPAREN),
	lex.Rule(lex.Unit('['), LBRACK),
	lex.Rule(lex.Unit(']'), RBRACK),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(lex.String("=>"), FATARROW),
	lex.Rule(lex.Unit('!'), BANG),
	lex.Rule(number, NUMBER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(operator, OPERATOR),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.  Whitespace and comments are dropped from the
// resulting stream; the original text remains reachable through token spans.
func Lex(srcfile *source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		lexer  = lex.NewLexer(srcfile.Contents(), rules...)
		tokens = lexer.Collect()
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start, end := lexer.Index(), lexer.Index()+1
		err := srcfile.SyntaxError(source.NewSpan(int(start), int(end)), "unknown text encountered")
		// errors
		return nil, []source.SyntaxError{*err}
	}
	// Remove whitespace and comments
	filtered := make([]lex.Token, 0, len(tokens))
	//
	for _, t := range tokens {
		switch t.Kind {
		case WHITESPACE, LINE_COMMENT, BLOCK_COMMENT:
			// drop
		default:
			filtered = append(filtered, t)
		}
	}
	// Done
	return filtered, nil
}
