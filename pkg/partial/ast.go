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
)

// Invocation represents a single occurrence of the partial application form
//
//	partial!(move? target => slot, slot, ..., slot)
//
// within an input file.  The three separator tokens "=>", "," and ";" are
// interchangeable.  Each slot is either a placeholder "_" (an argument
// forwarded from the produced closure) or an arbitrary expression (an
// argument fixed at its position, re-evaluated on every call of the produced
// closure).
type Invocation struct {
	// Move indicates the produced closure captures its environment by value
	// rather than by reference.
	Move bool
	// Target is the expression denoting the callable being applied.
	Target *Expr
	// Slots is the ordered argument-slot list.  Its length must equal the
	// arity of the target callable.
	Slots []Slot
	// Span covers the entire invocation, from "partial" up to and including
	// the closing parenthesis.
	Span source.Span
}

// Placeholders returns the number of placeholder slots, which determines the
// arity of the produced closure.
func (p *Invocation) Placeholders() uint {
	count := uint(0)
	//
	for _, s := range p.Slots {
		if s.IsPlaceholder() {
			count++
		}
	}
	//
	return count
}

// Invocations returns all invocations in this subtree (including the
// receiver itself), in source order.
func (p *Invocation) Invocations() []*Invocation {
	invs := []*Invocation{p}
	invs = append(invs, p.Target.Invocations()...)
	//
	for _, s := range p.Slots {
		if !s.IsPlaceholder() {
			invs = append(invs, s.Expr.Invocations()...)
		}
	}
	//
	return invs
}

// Slot represents a single entry of the argument-slot list.
type Slot struct {
	// Expr holds the fixed expression for this slot, or nil for a
	// placeholder.
	Expr *Expr
	// Span of this slot within the original text.
	Span source.Span
}

// IsPlaceholder checks whether this slot forwards an argument from the
// produced closure.
func (p *Slot) IsPlaceholder() bool {
	return p.Expr == nil
}

// Expr represents an expression occurring within an invocation, either as the
// target or as a fixed slot.  Expressions are never evaluated or even fully
// parsed at expansion time; they are tracked as token spans and lifted
// verbatim into the generated call.  The only structure recorded is the set
// of nested invocations, which must be expanded first.
type Expr struct {
	// Span of this expression within the original text.
	Span source.Span
	// Nested invocations contained within this expression, in source order.
	Nested []*Invocation
}

// Invocations returns all invocations nested within this expression
// (transitively), in source order.
func (p *Expr) Invocations() []*Invocation {
	var invs []*Invocation
	//
	for _, n := range p.Nested {
		invs = append(invs, n.Invocations()...)
	}
	//
	return invs
}
