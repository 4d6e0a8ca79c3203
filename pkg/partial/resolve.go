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
	"go/importer"
	goparser "go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/consensys/go-partial/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Binding captures everything the rewriter needs to know about one invocation
// beyond its syntax: the rendered parameter and result types of the target
// callable, and (for move closures) the set of local variables to capture by
// value.
type Binding struct {
	// ParamTypes holds one rendered type per target parameter.  Its length
	// always equals the slot count.
	ParamTypes []string
	// ResultTypes holds the rendered result types of the target.
	ResultTypes []string
	// MoveVars holds the names of enclosing function-local variables
	// referenced by the target or a fixed expression, in lexical order.
	// Always empty for non-move invocations.
	MoveVars []string
}

// Resolver determines bindings for the invocations of an input file by type
// checking a skeleton of the enclosing package.  The skeleton is the input
// file with every invocation replaced by a parseable stand-in which retains
// the target and fixed expressions, plus every ordinary source file of the
// package directory.  Type checking is best effort: errors arising from the
// stand-ins themselves are expected and ignored.
type Resolver struct {
	// Directory holding the sibling files of the package.
	dir string
}

// NewResolver constructs a resolver which reads sibling files from the given
// package directory.
func NewResolver(dir string) *Resolver {
	return &Resolver{dir}
}

// Resolve determines a binding for every invocation of the given file
// (including nested invocations), or some number of errors.  All reported
// spans refer to the original input text.
func (p *Resolver) Resolve(srcfile *source.File, invs []*Invocation) (map[*Invocation]*Binding, []source.SyntaxError) {
	var (
		errors []source.SyntaxError
		all    []*Invocation
	)
	//
	for _, inv := range invs {
		all = append(all, inv.Invocations()...)
	}
	// Check each expression is individually well formed before attempting to
	// parse the skeleton, so that errors point at the offending expression.
	for _, inv := range all {
		errors = append(errors, p.checkExpressions(srcfile, inv)...)
	}
	//
	if len(errors) > 0 {
		return nil, errors
	}
	// Build and parse skeleton
	fset := token.NewFileSet()
	skelText, ranges := buildSkeleton(srcfile, invs)
	//
	skelAst, err := goparser.ParseFile(fset, srcfile.Filename(), skelText, 0)
	if err != nil {
		// Unreachable in practice, given expressions were validated above.
		span := source.NewSpan(0, 0)
		return nil, []source.SyntaxError{*srcfile.SyntaxError(span, err.Error())}
	}
	//
	files := append([]*ast.File{skelAst}, p.parseSiblings(fset, srcfile, skelAst.Name.Name)...)
	// Type check the package, harvesting whatever information survives the
	// stand-ins.
	info := &types.Info{
		Types:  make(map[ast.Expr]types.TypeAndValue),
		Defs:   make(map[*ast.Ident]types.Object),
		Uses:   make(map[*ast.Ident]types.Object),
		Scopes: make(map[ast.Node]*types.Scope),
	}
	//
	conf := types.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Error:    func(err error) { log.Debugf("typing: %v", err) },
	}
	//
	pkg, _ := conf.Check(skelAst.Name.Name, fset, files, info)
	//
	tokfile := fset.File(skelAst.Pos())
	qualifier := newQualifier(pkg, skelAst)
	bindings := make(map[*Invocation]*Binding)
	// Determine binding for each invocation
	for _, inv := range all {
		binding, errs := p.resolveInvocation(srcfile, inv, ranges[inv], skelAst, tokfile, info, pkg, qualifier)
		//
		if len(errs) > 0 {
			errors = append(errors, errs...)
		} else {
			bindings[inv] = binding
		}
	}
	//
	if len(errors) > 0 {
		return nil, errors
	}
	//
	return bindings, nil
}

// Determine the binding for a single invocation from the type-checked
// skeleton.
func (p *Resolver) resolveInvocation(srcfile *source.File, inv *Invocation, r *skelRange, skelAst *ast.File,
	tokfile *token.File, info *types.Info, pkg *types.Package, qualifier types.Qualifier,
) (*Binding, []source.SyntaxError) {
	// Locate the target expression within the skeleton
	node := exprAt(skelAst, tokfile, r.targetStart, r.targetEnd)
	if node == nil {
		return nil, syntaxErrors(srcfile, inv.Target.Span, "cannot resolve target")
	}
	//
	t := info.TypeOf(node)
	if t == nil || types.Identical(t, types.Typ[types.Invalid]) {
		return nil, syntaxErrors(srcfile, inv.Target.Span, "cannot resolve type of target")
	}
	//
	sig, ok := t.Underlying().(*types.Signature)
	if !ok {
		return nil, syntaxErrors(srcfile, inv.Target.Span,
			fmt.Sprintf("target is not a function (found %s)", t))
	}
	//
	if sig.Variadic() {
		return nil, syntaxErrors(srcfile, inv.Target.Span, "variadic targets are not supported")
	}
	//
	if sig.Params().Len() != len(inv.Slots) {
		return nil, syntaxErrors(srcfile, inv.Span,
			fmt.Sprintf("target expects %d arguments, found %d slots", sig.Params().Len(), len(inv.Slots)))
	}
	//
	binding := &Binding{}
	//
	for i := 0; i < sig.Params().Len(); i++ {
		binding.ParamTypes = append(binding.ParamTypes, types.TypeString(sig.Params().At(i).Type(), qualifier))
	}
	//
	for i := 0; i < sig.Results().Len(); i++ {
		binding.ResultTypes = append(binding.ResultTypes, types.TypeString(sig.Results().At(i).Type(), qualifier))
	}
	//
	if inv.Move {
		binding.MoveVars = moveVariables(r, skelAst, tokfile, info, pkg)
	}
	//
	return binding, nil
}

// Check that the target and every fixed expression of an invocation parses as
// a Go expression, and that the target does not itself contain a nested
// invocation (a limitation: the stand-in for a nested invocation does not
// carry its eventual closure type, so it cannot be used where a type is
// required).
func (p *Resolver) checkExpressions(srcfile *source.File, inv *Invocation) []source.SyntaxError {
	var errors []source.SyntaxError
	//
	if len(inv.Target.Invocations()) > 0 {
		errors = append(errors, *srcfile.SyntaxError(inv.Target.Span,
			"nested invocation cannot be used as a target"))
	} else if _, err := goparser.ParseExpr(skeletonExpr(srcfile, inv.Target)); err != nil {
		errors = append(errors, *srcfile.SyntaxError(inv.Target.Span, "malformed target expression"))
	}
	//
	for _, s := range inv.Slots {
		if s.IsPlaceholder() {
			continue
		}
		//
		if _, err := goparser.ParseExpr(skeletonExpr(srcfile, s.Expr)); err != nil {
			errors = append(errors, *srcfile.SyntaxError(s.Span, "malformed argument expression"))
		}
	}
	//
	return errors
}

// Determine which enclosing function-local variables a move closure must
// capture by value.  Every identifier within the invocation's stand-in is
// resolved by the type checker; those denoting variables of an enclosing
// function (parameters included) are captured.  Selector fields, struct
// literal keys and package-level variables resolve to other objects and fall
// out naturally, whilst map or array literal keys behave as the ordinary
// expressions they are.
func moveVariables(r *skelRange, skelAst *ast.File, tokfile *token.File, info *types.Info,
	pkg *types.Package,
) []string {
	if pkg == nil {
		return nil
	}
	//
	fn := funcLitAt(skelAst, tokfile, r.pos)
	if fn == nil {
		return nil
	}
	//
	names := make(map[string]bool)
	//
	ast.Inspect(fn, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		//
		v, ok := info.Uses[id].(*types.Var)
		if !ok || v.IsField() || v.Parent() == nil || v.Parent() == types.Universe || v.Parent() == pkg.Scope() {
			return true
		}
		// Variables declared within the stand-in itself (say, the parameter
		// of a function literal in a fixed expression) belong to the
		// generated closure, not the enclosing function.
		if v.Pos() >= fn.Pos() && v.Pos() < fn.End() {
			return true
		}
		//
		names[v.Name()] = true
		//
		return true
	})
	//
	var vars []string
	//
	for name := range names {
		vars = append(vars, name)
	}
	//
	sort.Strings(vars)
	//
	return vars
}

// Locate the stand-in function literal starting at the given byte offset
// within the skeleton file.
func funcLitAt(file *ast.File, tokfile *token.File, pos int) *ast.FuncLit {
	var found *ast.FuncLit
	//
	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil || found != nil {
			return false
		}
		//
		if fn, ok := n.(*ast.FuncLit); ok && tokfile.Offset(fn.Pos()) == pos {
			found = fn
			return false
		}
		//
		return true
	})
	//
	return found
}

// Locate the expression node spanning exactly the given byte offsets within
// the skeleton file.
func exprAt(file *ast.File, tokfile *token.File, start int, end int) ast.Expr {
	var found ast.Expr
	//
	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil || found != nil {
			return false
		}
		//
		if e, ok := n.(ast.Expr); ok {
			if tokfile.Offset(e.Pos()) == start && tokfile.Offset(e.End()) == end {
				found = e
				return false
			}
		}
		//
		return true
	})
	//
	return found
}

// Parse the remaining files of the package directory: ordinary Go files
// (excluding tests and previously generated outputs) directly, and sibling
// input files through their skeletons.  Files which fail to parse, or which
// belong to a different package, are skipped; whatever they declare is
// simply unavailable for resolution.
func (p *Resolver) parseSiblings(fset *token.FileSet, srcfile *source.File, pkgname string) []*ast.File {
	var files []*ast.File
	//
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		log.Debugf("reading package directory: %v", err)
		return nil
	}
	//
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(p.dir, name)
		//
		switch {
		case name == filepath.Base(srcfile.Filename()):
			// the file being expanded itself
			continue
		case strings.HasSuffix(name, "_test.go"):
			continue
		case strings.HasSuffix(name, ".go"):
			bytes, err := os.ReadFile(path)
			//
			if err != nil || isGenerated(bytes) {
				continue
			}
			//
			if file, err := goparser.ParseFile(fset, path, bytes, 0); err == nil && file.Name.Name == pkgname {
				files = append(files, file)
			}
		case strings.HasSuffix(name, ".gop"):
			sibling, err := source.ReadFile(path)
			if err != nil {
				continue
			}
			//
			invs, errs := Parse(sibling)
			if len(errs) > 0 {
				log.Debugf("skipping sibling %s: %s", name, errs[0].Error())
				continue
			}
			//
			text, _ := buildSkeleton(sibling, invs)
			//
			if file, err := goparser.ParseFile(fset, path, text, 0); err == nil && file.Name.Name == pkgname {
				files = append(files, file)
			}
		}
	}
	//
	return files
}

// newQualifier renders package references the way the input file would write
// them: the current package unqualified, imported packages through their
// local import name, and anything else through its package name (leaving
// goimports to supply the missing import).
func newQualifier(pkg *types.Package, file *ast.File) types.Qualifier {
	names := make(map[string]string)
	//
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, "\"")
		//
		if imp.Name != nil {
			names[path] = imp.Name.Name
		}
	}
	//
	return func(other *types.Package) string {
		if pkg != nil && other == pkg {
			return ""
		}
		//
		if name, ok := names[other.Path()]; ok && name != "." && name != "_" {
			return name
		}
		//
		return other.Name()
	}
}

func syntaxErrors(srcfile *source.File, span source.Span, msg string) []source.SyntaxError {
	return []source.SyntaxError{*srcfile.SyntaxError(span, msg)}
}
