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

	"github.com/consensys/go-partial/pkg/util/source"
)

// An invocation is not Go syntax, so the input file cannot be handed to the
// Go type checker as is.  The skeleton of a file is the original text with
// every invocation replaced by the parseable stand-in
//
//	func() { _ = target; _ = fixed1; ...; _ = fixedN }
//
// which retains every target and fixed expression of the invocation subtree
// in a position where the type checker will resolve it against the correct
// scope.  The stand-in rarely satisfies its context, but type checking is
// best effort and the stray errors are discarded.

// skelRange records where the stand-in for one invocation ended up within
// the skeleton text, as byte offsets.
type skelRange struct {
	// Offset of the start of the stand-in.
	pos int
	// Offsets of the target expression within the stand-in.
	targetStart int
	targetEnd   int
}

// buildSkeleton constructs the skeleton text for a given file, returning the
// stand-in locations for every invocation (nested ones included).
func buildSkeleton(srcfile *source.File, invs []*Invocation) (string, map[*Invocation]*skelRange) {
	b := &skeletonBuilder{
		srcfile: srcfile,
		ranges:  make(map[*Invocation]*skelRange),
	}
	//
	contents := srcfile.Contents()
	cursor := 0
	//
	for _, inv := range invs {
		b.buf.WriteString(string(contents[cursor:inv.Span.Start()]))
		b.writeInvocation(inv)
		//
		cursor = inv.Span.End()
	}
	//
	b.buf.WriteString(string(contents[cursor:]))
	//
	return b.buf.String(), b.ranges
}

// skeletonExpr renders a single expression with any nested invocations
// replaced by their stand-ins, yielding parseable Go.
func skeletonExpr(srcfile *source.File, e *Expr) string {
	b := &skeletonBuilder{
		srcfile: srcfile,
		ranges:  make(map[*Invocation]*skelRange),
	}
	//
	b.writeExpr(e)
	//
	return b.buf.String()
}

type skeletonBuilder struct {
	srcfile *source.File
	buf     strings.Builder
	ranges  map[*Invocation]*skelRange
}

func (b *skeletonBuilder) writeInvocation(inv *Invocation) {
	r := &skelRange{pos: b.buf.Len()}
	b.ranges[inv] = r
	//
	b.buf.WriteString("func() { _ = ")
	//
	r.targetStart = b.buf.Len()
	b.writeExpr(inv.Target)
	r.targetEnd = b.buf.Len()
	//
	for _, s := range inv.Slots {
		if !s.IsPlaceholder() {
			b.buf.WriteString("; _ = ")
			b.writeExpr(s.Expr)
		}
	}
	//
	b.buf.WriteString(" }")
}

func (b *skeletonBuilder) writeExpr(e *Expr) {
	contents := b.srcfile.Contents()
	cursor := e.Span.Start()
	//
	for _, nested := range e.Nested {
		b.buf.WriteString(string(contents[cursor:nested.Span.Start()]))
		b.writeInvocation(nested)
		//
		cursor = nested.Span.End()
	}
	//
	b.buf.WriteString(string(contents[cursor:e.Span.End()]))
}

// isGenerated checks whether a Go file carries the generated-output marker,
// meaning it is a previous expansion which must not contribute declarations
// during resolution (its input file does so instead).
func isGenerated(bytes []byte) bool {
	head := string(bytes)
	if len(head) > 512 {
		head = head[:512]
	}
	//
	return strings.Contains(head, generatedMarker)
}
