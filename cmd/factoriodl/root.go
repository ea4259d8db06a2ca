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

package main // import "github.com/factoriodl/factoriodl/cmd/factoriodl"

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/factoriodl/factoriodl/pkg/cli/require"
)

var globalUsage = `Download Factorio game binaries from the official distribution API.

You must set your Factorio username and token (see Token on
https://factorio.com/profile) as the environment variables
FACTORIO_USERNAME and FACTORIO_TOKEN. These can be provided through a
.env file in the working directory.

Common actions for factoriodl:

- factoriodl download:   fetch binaries for one or more platforms
- factoriodl env:        show the resolved client environment
- factoriodl version:    show the client version
`

func newRootCmd(out io.Writer, args []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "factoriodl",
		Short:        "download Factorio game binaries from the official site",
		Long:         globalUsage,
		SilenceUsage: true,
		Args:         require.NoArgs,
	}
	flags := cmd.PersistentFlags()

	settings.AddFlags(flags)

	// We can safely ignore any errors that flags.Parse encounters since
	// those errors will be caught later during the call to cmd.Execution.
	// This call is required to gather configuration information prior to
	// execution.
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Parse(args)

	cmd.AddCommand(
		newDownloadCmd(out),
		newEnvCmd(out),
		newVersionCmd(out),
	)

	return cmd
}
