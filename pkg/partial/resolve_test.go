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
	"strings"
	"testing"

	"github.com/consensys/go-partial/pkg/util/assert"
	"github.com/consensys/go-partial/pkg/util/source"
)

func TestResolve_01(t *testing.T) {
	binding := resolveOne(t, `package resolve

func use() func(int) int {
	return partial!(add => _, 1)
}
`)
	//
	assert.Equal(t, []string{"int", "int"}, binding.ParamTypes)
	assert.Equal(t, []string{"int"}, binding.ResultTypes)
	assert.Equal(t, 0, len(binding.MoveVars))
}

func TestResolve_02(t *testing.T) {
	// Multiple results
	binding := resolveOne(t, `package resolve

func use() func(int) (string, error) {
	return partial!(report => _)
}
`)
	//
	assert.Equal(t, []string{"int"}, binding.ParamTypes)
	assert.Equal(t, []string{"string", "error"}, binding.ResultTypes)
}

func TestResolve_03(t *testing.T) {
	// Method value target
	binding := resolveOne(t, `package resolve

func use(p pair) func(int) int {
	return partial!(p.plus => _)
}
`)
	//
	assert.Equal(t, []string{"int"}, binding.ParamTypes)
	assert.Equal(t, []string{"int"}, binding.ResultTypes)
}

func TestResolve_04(t *testing.T) {
	// Targets declared within the input file itself are visible.
	binding := resolveOne(t, `package resolve

func local(x uint) uint {
	return x + 1
}

func use() func(uint) uint {
	return partial!(local => _)
}
`)
	//
	assert.Equal(t, []string{"uint"}, binding.ParamTypes)
}

func TestResolve_05(t *testing.T) {
	// Move captures enclosing locals (and parameters), but never
	// package-level variables.
	binding := resolveOne(t, `package resolve

func use(m int) func(int) int {
	n := 1
	return partial!(move add => n+m+offset, _)
}
`)
	//
	assert.Equal(t, []string{"m", "n"}, binding.MoveVars)
}

func TestResolve_06(t *testing.T) {
	// Without move, nothing is captured by value.
	binding := resolveOne(t, `package resolve

func use() func(int) int {
	n := 1
	return partial!(add => n, _)
}
`)
	//
	assert.Equal(t, 0, len(binding.MoveVars))
}

func TestResolve_07(t *testing.T) {
	// A map literal key is an ordinary expression, hence a local used as one
	// is captured by move.
	binding := resolveOne(t, `package resolve

func use() func(string) int {
	k := "a"
	return partial!(move lookup => map[string]int{k: 1}, _)
}
`)
	//
	assert.Equal(t, []string{"k"}, binding.MoveVars)
}

func TestResolve_08(t *testing.T) {
	// A struct literal key names a field, never an enclosing local of the
	// same name.
	binding := resolveOne(t, `package resolve

func use(x int) func(int) int {
	n := 2
	return partial!(move add => pair{x: n}.x, _)
}
`)
	//
	assert.Equal(t, []string{"n"}, binding.MoveVars)
}

func TestResolveErr_01(t *testing.T) {
	checkResolveErr(t, `package resolve

func use() {
	_ = partial!(add => _)
}
`, "target expects 2 arguments, found 1 slots")
}

func TestResolveErr_02(t *testing.T) {
	checkResolveErr(t, `package resolve

func use() {
	_ = partial!(sum => _)
}
`, "variadic targets are not supported")
}

func TestResolveErr_03(t *testing.T) {
	checkResolveErr(t, `package resolve

func use() {
	_ = partial!(offset => _)
}
`, "target is not a function (found int)")
}

func TestResolveErr_04(t *testing.T) {
	srcfile := source.NewSourceFile("input.gop", []byte(`package resolve

func use() {
	_ = partial!(missing => _)
}
`))
	//
	invs, errs := Parse(srcfile)
	assert.NoErrors(t, errs)
	//
	_, errs = NewResolver("testdata/resolve").Resolve(srcfile, invs)
	//
	assert.Equal(t, 1, len(errs))
	assert.True(t, strings.HasPrefix(errs[0].Message(), "cannot resolve"),
		"unexpected message: %s", errs[0].Message())
}

func TestResolveErr_05(t *testing.T) {
	checkResolveErr(t, `package resolve

func use() {
	_ = partial!(partial!(add => 1, _) => 2)
}
`, "nested invocation cannot be used as a target")
}

func TestResolveErr_06(t *testing.T) {
	checkResolveErr(t, `package resolve

func use() {
	_ = partial!(add => 1 2, _)
}
`, "malformed argument expression")
}

// ==================================================================
// Framework
// ==================================================================

func resolveOne(t *testing.T, input string) *Binding {
	srcfile := source.NewSourceFile("input.gop", []byte(input))
	//
	invs, errs := Parse(srcfile)
	assert.NoErrors(t, errs)
	assert.Equal(t, 1, len(invs))
	//
	bindings, errs := NewResolver("testdata/resolve").Resolve(srcfile, invs)
	assert.NoErrors(t, errs)
	//
	return bindings[invs[0]]
}

func checkResolveErr(t *testing.T, input string, msg string) {
	srcfile := source.NewSourceFile("input.gop", []byte(input))
	//
	invs, errs := Parse(srcfile)
	assert.NoErrors(t, errs)
	//
	_, errs = NewResolver("testdata/resolve").Resolve(srcfile, invs)
	//
	assert.Equal(t, 1, len(errs))
	assert.Equal(t, msg, errs[0].Message())
}
