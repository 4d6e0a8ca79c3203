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
	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/imports"
)

// Marker placed at the top of every generated file.  Files carrying it are
// recognised (and excluded) during resolution, so that a stale output never
// shadows the declarations of its input.
const generatedMarker = "Code generated by go-partial. DO NOT EDIT."

// Extension expected of input files.
const Extension = ".gop"

// Config supplies the expansion context of an input file.
type Config struct {
	// Dir is the package directory providing sibling declarations for
	// signature resolution.
	Dir string
}

// OutputName determines the default output filename for a given input
// filename, i.e. with the input extension replaced by ".go".
func OutputName(filename string) string {
	return strings.TrimSuffix(filename, Extension) + ".go"
}

// ExpandFile rewrites every invocation of the given file into a closure
// literal, returning the formatted output file, or some number of errors
// (with spans into the original text).  Everything outside an invocation
// passes through untouched.
func ExpandFile(srcfile *source.File, config Config) ([]byte, []source.SyntaxError) {
	invs, errors := Parse(srcfile)
	if len(errors) > 0 {
		return nil, errors
	}
	//
	log.Debugf("%s: %d invocation(s)", srcfile.Filename(), len(invs))
	// Resolve target signatures
	bindings, errors := NewResolver(config.Dir).Resolve(srcfile, invs)
	if len(errors) > 0 {
		return nil, errors
	}
	// Splice expansions into the original text
	var (
		rewriter = NewRewriter(srcfile, bindings)
		buf      strings.Builder
		contents = srcfile.Contents()
		cursor   = 0
	)
	//
	buf.WriteString("// ")
	buf.WriteString(generatedMarker)
	buf.WriteString("\n\n")
	//
	for _, inv := range invs {
		log.Debugf("%s: %d slots, %d forwarded", srcfile.Text(inv.Target.Span),
			len(inv.Slots), inv.Placeholders())
		//
		buf.WriteString(string(contents[cursor:inv.Span.Start()]))
		buf.WriteString(rewriter.Expand(inv))
		//
		cursor = inv.Span.End()
	}
	//
	buf.WriteString(string(contents[cursor:]))
	// Format, fixing up any imports newly required by rendered types
	formatted, err := imports.Process(OutputName(srcfile.Filename()), []byte(buf.String()), nil)
	if err != nil {
		span := source.NewSpan(0, 0)
		if len(invs) > 0 {
			span = invs[0].Span
		}
		//
		return nil, []source.SyntaxError{*srcfile.SyntaxError(span, err.Error())}
	}
	//
	return formatted, nil
}

// CheckFile runs the expansion pipeline for its diagnostics only.
func CheckFile(srcfile *source.File, config Config) []source.SyntaxError {
	_, errors := ExpandFile(srcfile, config)
	//
	return errors
}
