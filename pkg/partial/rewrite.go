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
	"fmt"
	"go/ast"
	goparser "go/parser"
	"strings"

	"github.com/consensys/go-partial/pkg/util/source"
)

// Rewriter turns resolved invocations into closure literals.  The rewriting
// itself is a single left-to-right pass over the slot list, maintaining two
// growing sequences: the parameter list of the produced closure (one fresh
// name per placeholder, in placeholder order) and the argument list of the
// generated call (a fresh name for each placeholder, the original expression
// text for each fixed slot).
type Rewriter struct {
	srcfile  *source.File
	bindings map[*Invocation]*Binding
}

// NewRewriter constructs a rewriter over a given file and its resolved
// bindings.
func NewRewriter(srcfile *source.File, bindings map[*Invocation]*Binding) *Rewriter {
	return &Rewriter{srcfile, bindings}
}

// Expand produces the closure literal replacing a given invocation.  Nested
// invocations within fixed expressions are expanded first.
func (p *Rewriter) Expand(inv *Invocation) string {
	var (
		binding = p.bindings[inv]
		target  = p.exprText(inv.Target)
		params  []string
		args    []string
	)
	// Fresh parameter names must not collide with (and hence capture or
	// shadow) any identifier occurring in the target, a fixed expression or
	// a rendered type.
	used := make(map[string]bool)
	collectIdents(target, used)
	//
	for _, s := range inv.Slots {
		if !s.IsPlaceholder() {
			collectIdents(p.exprText(s.Expr), used)
		}
	}
	//
	for _, t := range binding.ParamTypes {
		collectIdents(t, used)
	}
	//
	for _, t := range binding.ResultTypes {
		collectIdents(t, used)
	}
	// Single pass over the slot list
	for i, s := range inv.Slots {
		if s.IsPlaceholder() {
			name := freshName(len(params), used)
			params = append(params, fmt.Sprintf("%s %s", name, binding.ParamTypes[i]))
			args = append(args, name)
		} else {
			args = append(args, p.exprText(s.Expr))
		}
	}
	// Assemble closure literal
	var (
		results = formatResults(binding.ResultTypes)
		call    = fmt.Sprintf("%s(%s)", callable(target), strings.Join(args, ", "))
		body    string
	)
	//
	if len(binding.ResultTypes) == 0 {
		body = fmt.Sprintf("{ %s }", call)
	} else {
		body = fmt.Sprintf("{ return %s }", call)
	}
	//
	closure := fmt.Sprintf("func(%s)%s %s", strings.Join(params, ", "), results, body)
	// For move closures, snapshot the referenced locals by value at closure
	// construction.  Fixed expressions still re-evaluate on every call, over
	// the snapshots.
	if inv.Move && len(binding.MoveVars) > 0 {
		var paramTypes []string
		//
		for i, s := range inv.Slots {
			if s.IsPlaceholder() {
				paramTypes = append(paramTypes, binding.ParamTypes[i])
			}
		}
		//
		vars := strings.Join(binding.MoveVars, ", ")
		closureType := fmt.Sprintf("func(%s)%s", strings.Join(paramTypes, ", "), results)
		closure = fmt.Sprintf("func() %s { %s := %s; return %s }()", closureType, vars, vars, closure)
	}
	//
	return closure
}

// exprText renders an expression verbatim, except that nested invocations
// are replaced by their expansions.
func (p *Rewriter) exprText(e *Expr) string {
	var (
		buf      strings.Builder
		contents = p.srcfile.Contents()
		cursor   = e.Span.Start()
	)
	//
	for _, nested := range e.Nested {
		buf.WriteString(string(contents[cursor:nested.Span.Start()]))
		buf.WriteString(p.Expand(nested))
		//
		cursor = nested.Span.End()
	}
	//
	buf.WriteString(string(contents[cursor:e.Span.End()]))
	//
	return buf.String()
}

// Generate a fresh parameter name for the i'th placeholder.
func freshName(i int, used map[string]bool) string {
	name := fmt.Sprintf("v%d", i)
	//
	for used[name] {
		name += "_"
	}
	//
	used[name] = true
	//
	return name
}

// Render a result list the way a function literal writes it.
func formatResults(results []string) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return " " + results[0]
	default:
		return " (" + strings.Join(results, ", ") + ")"
	}
}

// callable wraps the target in parentheses unless it binds at least as
// tightly as a call, so that e.g. a dereference target "*fp" becomes
// "(*fp)(...)" rather than "*fp(...)".
func callable(target string) string {
	node, err := goparser.ParseExpr(target)
	if err != nil {
		// Unreachable: targets were validated during resolution.
		return "(" + target + ")"
	}
	//
	switch node.(type) {
	case *ast.Ident, *ast.SelectorExpr, *ast.CallExpr, *ast.IndexExpr, *ast.ParenExpr:
		return target
	default:
		return "(" + target + ")"
	}
}

// Collect identifier tokens occurring in a given fragment of text.
func collectIdents(text string, idents map[string]bool) {
	srcfile := source.NewSourceFile("", []byte(text))
	//
	tokens, errs := Lex(srcfile)
	if len(errs) > 0 {
		return
	}
	//
	for _, t := range tokens {
		if t.Kind == IDENTIFIER {
			idents[srcfile.Text(t.Span)] = true
		}
	}
}
