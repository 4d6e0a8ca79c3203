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

func TestParse_01(t *testing.T) {
	inv := parseOne(t, "x := partial!(f => _)")
	//
	assert.Equal(t, false, inv.Move)
	assert.Equal(t, 1, len(inv.Slots))
	assert.Equal(t, uint(1), inv.Placeholders())
}

func TestParse_02(t *testing.T) {
	// All three separators are interchangeable.
	for _, sep := range []string{"=>", ",", ";"} {
		inv := parseOne(t, "x := partial!(f "+sep+" _, 1)")
		//
		assert.Equal(t, 2, len(inv.Slots))
		assert.Equal(t, uint(1), inv.Placeholders())
	}
}

func TestParse_03(t *testing.T) {
	// Trailing comma is permitted.
	inv := parseOne(t, "x := partial!(f => _, 1,)")
	//
	assert.Equal(t, 2, len(inv.Slots))
}

func TestParse_04(t *testing.T) {
	// Empty slot list produces a thunk over a nullary target.
	inv := parseOne(t, "x := partial!(f =>)")
	//
	assert.Equal(t, 0, len(inv.Slots))
	assert.Equal(t, uint(0), inv.Placeholders())
}

func TestParse_05(t *testing.T) {
	src, inv := parseOneIn(t, "x := partial!(g(2,3).h => a[i], _, \"x,y\")")
	//
	assert.Equal(t, "g(2,3).h", src.Text(inv.Target.Span))
	assert.Equal(t, 3, len(inv.Slots))
	assert.Equal(t, "a[i]", src.Text(inv.Slots[0].Span))
	assert.Equal(t, true, inv.Slots[1].IsPlaceholder())
	assert.Equal(t, "\"x,y\"", src.Text(inv.Slots[2].Span))
}

func TestParse_06(t *testing.T) {
	inv := parseOne(t, "x := partial!(move f => i, _)")
	//
	assert.Equal(t, true, inv.Move)
	assert.Equal(t, 2, len(inv.Slots))
}

func TestParse_07(t *testing.T) {
	// A bare "move" before a separator is a target, not a qualifier.
	src, inv := parseOneIn(t, "x := partial!(move => _)")
	//
	assert.Equal(t, false, inv.Move)
	assert.Equal(t, "move", src.Text(inv.Target.Span))
}

func TestParse_08(t *testing.T) {
	src, inv := parseOneIn(t, "x := partial!(move move => _)")
	//
	assert.Equal(t, true, inv.Move)
	assert.Equal(t, "move", src.Text(inv.Target.Span))
}

func TestParse_09(t *testing.T) {
	// Nested invocations hang off the enclosing slot expression.
	inv := parseOne(t, "x := partial!(f => partial!(g => 1), _)")
	//
	assert.Equal(t, 2, len(inv.Slots))
	assert.Equal(t, 1, len(inv.Slots[0].Expr.Nested))
	assert.Equal(t, 2, len(inv.Invocations()))
}

func TestParse_10(t *testing.T) {
	// Invocations are returned in source order.
	srcfile := source.NewSourceFile("test.gop",
		[]byte("a := partial!(f => _)\nb := partial!(g => _)\n"))
	//
	invs, errs := Parse(srcfile)
	assert.NoErrors(t, errs)
	//
	assert.Equal(t, 2, len(invs))
	assert.Equal(t, "f", srcfile.Text(invs[0].Target.Span))
	assert.Equal(t, "g", srcfile.Text(invs[1].Target.Span))
}

func TestParse_11(t *testing.T) {
	// Invocation syntax within literals and comments is not an invocation.
	srcfile := source.NewSourceFile("test.gop",
		[]byte("s := \"partial!(\"\n// partial!(f => _)\n"))
	//
	invs, errs := Parse(srcfile)
	assert.NoErrors(t, errs)
	//
	assert.Equal(t, 0, len(invs))
}

func TestParse_12(t *testing.T) {
	// Span covers the entire invocation.
	src, inv := parseOneIn(t, "x := partial!(f => _, 1)")
	//
	assert.Equal(t, "partial!(f => _, 1)", src.Text(inv.Span))
}

func TestParseErr_01(t *testing.T) {
	checkParseErr(t, "x := partial!(=> _)", "missing target")
}

func TestParseErr_02(t *testing.T) {
	checkParseErr(t, "x := partial!(f)", "expected \"=>\", \",\" or \";\" after target")
}

func TestParseErr_03(t *testing.T) {
	checkParseErr(t, "x := partial!(f => ,)", "malformed argument")
}

func TestParseErr_04(t *testing.T) {
	checkParseErr(t, "x := partial!(f => _]", "unbalanced brackets")
}

func TestParseErr_05(t *testing.T) {
	checkParseErr(t, "x := partial!(f => _", "unexpected end of file")
}

func TestParseErr_06(t *testing.T) {
	// Not a parse error: "1 2" is a single (malformed) fixed expression,
	// rejected during resolution.
	inv := parseOne(t, "x := partial!(f => 1 2)")
	//
	assert.Equal(t, 1, len(inv.Slots))
}

// ==================================================================
// Framework
// ==================================================================

func parseOne(t *testing.T, input string) *Invocation {
	_, inv := parseOneIn(t, input)
	//
	return inv
}

func parseOneIn(t *testing.T, input string) (*source.File, *Invocation) {
	srcfile := source.NewSourceFile("test.gop", []byte(input))
	//
	invs, errs := Parse(srcfile)
	assert.NoErrors(t, errs)
	//
	assert.Equal(t, 1, len(invs))
	//
	return srcfile, invs[0]
}

func checkParseErr(t *testing.T, input string, msg string) {
	srcfile := source.NewSourceFile("test.gop", []byte(input))
	//
	_, errs := Parse(srcfile)
	//
	assert.Equal(t, 1, len(errs))
	assert.Equal(t, msg, errs[0].Message())
}
