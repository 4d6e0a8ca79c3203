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
	"os"
	"path/filepath"

	"github.com/consensys/go-partial/pkg/partial"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file1.gop file2.gop ...",
	Short: "check invocations in the given source files.",
	Long: `Check that every partial! invocation in the given source file(s) would expand
cleanly, without writing any output.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		var failed bool
		//
		for _, filename := range args {
			srcfile := readSourceFile(filename)
			config := partial.Config{Dir: filepath.Dir(filename)}
			// Check file
			errors := partial.CheckFile(srcfile, config)
			// Report errors (if any)
			for _, err := range errors {
				printSyntaxError(&err)
			}
			//
			if len(errors) != 0 {
				failed = true
			} else {
				log.Debugf("%s: ok", filename)
			}
		}
		//
		if failed {
			os.Exit(4)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
