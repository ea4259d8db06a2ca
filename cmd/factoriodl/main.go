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
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/factoriodl/factoriodl/internal/logging"
	"github.com/factoriodl/factoriodl/pkg/action"
	"github.com/factoriodl/factoriodl/pkg/cli"
)

var settings = cli.New()

func main() {
	slog.SetDefault(logging.NewLogger(func() bool { return settings.Debug }))

	cmd := newRootCmd(os.Stdout, os.Args[1:])
	cmd.SilenceErrors = true

	// The global flags are parsed by newRootCmd, so the color switch is
	// known before any command output is written.
	color.NoColor = color.NoColor || settings.NoColor

	if err := cmd.Execute(); err != nil {
		red := color.New(color.FgRed, color.Bold)
		red.Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, action.FormatError(err))
		slog.Debug(fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}
