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
	"io"

	"github.com/spf13/cobra"

	"github.com/factoriodl/factoriodl/pkg/action"
	"github.com/factoriodl/factoriodl/pkg/cli/require"
)

const downloadDesc = `
Download Factorio binaries from the official site.

One file per requested platform is fetched for the requested build and
version and saved under the output directory, named to encode build,
version and platform. Files are first streamed into the temp directory
and only moved into place once complete.

After a fully successful run the downloaded version is recorded in
version.txt under the output directory; later runs requesting the same
version exit immediately without downloading. Pass --force to download
anyway.
`

func newDownloadCmd(out io.Writer) *cobra.Command {
	client := action.NewDownload(settings)
	client.Out = out

	cmd := &cobra.Command{
		Use:     "download",
		Short:   "download game binaries for one or more platforms",
		Aliases: []string{"fetch"},
		Long:    downloadDesc,
		Args:    require.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return client.Run()
		},
	}

	client.AddFlags(cmd.Flags())

	return cmd
}
