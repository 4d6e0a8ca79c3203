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
	"testing"

	"github.com/consensys/go-partial/pkg/util/assert"
	"github.com/consensys/go-partial/pkg/util/source"
)

func TestLex_01(t *testing.T) {
	checkLex(t, "f(x)", IDENTIFIER, LPAREN, IDENTIFIER, RPAREN, END_OF)
}

func TestLex_02(t *testing.T) {
	checkLex(t, "partial!(f => _, 1)", IDENTIFIER, BANG, LPAREN, IDENTIFIER,
		FATARROW, IDENTIFIER, COMMA, NUMBER, RPAREN, END_OF)
}

func TestLex_03(t *testing.T) {
	// Maximal munch keeps ">=" a single operator, whilst "=>" is its own
	// token.
	checkLex(t, "x >= 2 => _", IDENTIFIER, OPERATOR, NUMBER, FATARROW, IDENTIFIER, END_OF)
}

func TestLex_04(t *testing.T) {
	// Invocation syntax inside literals is just text.
	checkLex(t, "\"partial!(\"", STRING, END_OF)
	checkLex(t, "`partial!(`", RAW_STRING, END_OF)
	checkLex(t, "'('", RUNE, END_OF)
}

func TestLex_05(t *testing.T) {
	// Comments are dropped from the stream.
	checkLex(t, "f // partial!(\ng", IDENTIFIER, IDENTIFIER, END_OF)
	checkLex(t, "f /* partial!( */ g", IDENTIFIER, IDENTIFIER, END_OF)
}

func TestLex_06(t *testing.T) {
	// Escapes within literals
	checkLex(t, "\"a\\\"b\"", STRING, END_OF)
	checkLex(t, "'\\''", RUNE, END_OF)
}

func TestLex_07(t *testing.T) {
	// Unicode identifiers, numeric forms
	checkLex(t, "état 0x1f 1.5 1_000", IDENTIFIER, NUMBER, NUMBER, NUMBER, END_OF)
}

func TestLex_08(t *testing.T) {
	// Bang always stands alone, even against another operator.
	checkLex(t, "x != y", IDENTIFIER, BANG, OPERATOR, IDENTIFIER, END_OF)
	checkLex(t, "!x", BANG, IDENTIFIER, END_OF)
}

func TestLex_09(t *testing.T) {
	checkLex(t, "m[k] = struct{}{}", IDENTIFIER, LBRACK, IDENTIFIER, RBRACK,
		OPERATOR, IDENTIFIER, LCURLY, RCURLY, LCURLY, RCURLY, END_OF)
}

func TestLex_10(t *testing.T) {
	srcfile := source.NewSourceFile("test.gop", []byte("f #"))
	//
	_, errs := Lex(srcfile)
	//
	assert.Equal(t, 1, len(errs))
	assert.Equal(t, "unknown text encountered", errs[0].Message())
}

// ==================================================================
// Framework
// ==================================================================

func checkLex(t *testing.T, input string, expected ...uint) {
	srcfile := source.NewSourceFile("test.gop", []byte(input))
	//
	tokens, errs := Lex(srcfile)
	assert.NoErrors(t, errs)
	//
	kinds := make([]uint, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	//
	assert.Equal(t, expected, kinds)
}
