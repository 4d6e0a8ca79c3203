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
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/go-partial/pkg/partial"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] file1.gop file2.gop ...",
	Short: "expand invocations in the given source files.",
	Long: `Expand every partial! invocation in the given source file(s) into a typed
closure, writing each result to a sibling .go file (unless directed otherwise).`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		var (
			output = GetString(cmd, "output")
			dir    = GetString(cmd, "dir")
			stdout = GetFlag(cmd, "stdout")
		)
		// Sanity check flag combination
		if output != "" && len(args) != 1 {
			fmt.Println("--output requires exactly one input file")
			os.Exit(2)
		}
		//
		for _, filename := range args {
			expandSourceFile(filename, dir, output, stdout)
		}
	},
}

// Expand a single source file, writing the result to the given output file (or
// stdout).  Any errors arising are reported against the original text.
func expandSourceFile(filename, dir, output string, stdout bool) {
	srcfile := readSourceFile(filename)
	//
	if dir == "" {
		dir = filepath.Dir(filename)
	}
	//
	config := partial.Config{Dir: dir}
	// Expand file
	generated, errors := partial.ExpandFile(srcfile, config)
	// Check for errors
	if len(errors) != 0 {
		// Report errors
		for _, err := range errors {
			printSyntaxError(&err)
		}
		// Fail
		os.Exit(4)
	}
	//
	if stdout {
		fmt.Print(string(generated))
		return
	}
	//
	if output == "" {
		output = partial.OutputName(filename)
	}
	// Write out generated file
	if err := os.WriteFile(output, generated, 0644); err != nil {
		fmt.Println(err)
		os.Exit(5)
	}
	//
	log.Debugf("wrote %s", output)
}

func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringP("output", "o", "", "write output to the given file")
	expandCmd.Flags().String("dir", "", "package directory for signature resolution (default: directory of input)")
	expandCmd.Flags().Bool("stdout", false, "write output to stdout instead of a file")
}
