/*
Copyright The Factoriodl Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/factoriodl/factoriodl/internal/version"
	"github.com/factoriodl/factoriodl/pkg/cli/require"
)

const versionDesc = `
Show the version for factoriodl.

With --short, only the version number is printed.
`

func newVersionCmd(out io.Writer) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "print the client version information",
		Long:  versionDesc,
		Args:  require.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			if short {
				v := version.GetVersion()
				if bi := version.Get(); bi.GitCommit != "" {
					v = fmt.Sprintf("%s+g%s", v, bi.GitCommit[:7])
				}
				fmt.Fprintln(out, strings.TrimPrefix(v, "v"))
				return
			}
			fmt.Fprintf(out, "%#v\n", version.Get())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print the version number")

	return cmd
}
