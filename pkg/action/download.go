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

// Package action holds the client implementations behind each factoriodl
// subcommand.
package action

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/factoriodl/factoriodl/pkg/cli"
	"github.com/factoriodl/factoriodl/pkg/downloader"
	"github.com/factoriodl/factoriodl/pkg/factorio"
	"github.com/factoriodl/factoriodl/pkg/getter"
	"github.com/factoriodl/factoriodl/pkg/release"
	"github.com/factoriodl/factoriodl/pkg/version"
)

// StampFile records the last fully downloaded version under the output
// directory. Its absence means the last run never finished.
const StampFile = "version.txt"

// Download is the action for fetching game binaries.
//
// It provides the implementation of 'factoriodl download'.
type Download struct {
	Settings *cli.EnvSettings
	Out      io.Writer

	Build        factorio.Build
	Version      string
	Distros      factorio.DistroList
	OutDir       string
	TempDir      string
	Experimental bool
	NoProgress   bool
	Force        bool

	// Getter overrides the HTTP client, for tests.
	Getter getter.Getter
	// ReleasesURL and DownloadURL override the API endpoints, for tests.
	ReleasesURL string
	DownloadURL string
}

// NewDownload creates a new Download object with the given settings.
func NewDownload(settings *cli.EnvSettings) *Download {
	return &Download{
		Settings: settings,
		Build:    factorio.BuildExpansion,
		Version:  "latest",
	}
}

// AddFlags binds the download flags to the given flagset.
func (d *Download) AddFlags(f *pflag.FlagSet) {
	f.VarP(&d.Build, "build", "b", "the build of the game to download: alpha, expansion, demo or headless")
	f.StringVarP(&d.Version, "version", "v", d.Version, "the version to download, either a version triple (e.g. 2.0.10) or 'latest'")
	f.VarP(&d.Distros, "distro", "d", "platform to download for, may be repeated; defaults to all platforms")
	f.StringVarP(&d.OutDir, "outdir", "o", "", "directory to save the files into; defaults to the working directory")
	f.StringVarP(&d.TempDir, "tempdir", "t", "", "directory to download into before saving; defaults to --outdir")
	f.BoolVar(&d.Experimental, "experimental", false, "resolve 'latest' from the experimental channel")
	f.BoolVar(&d.NoProgress, "no-progress", false, "disable the download progress bar")
	f.BoolVar(&d.Force, "force", false, "download even when "+StampFile+" says the version is already present")
}

// Run executes the download.
func (d *Download) Run() error {
	username, token, err := d.Settings.Credentials()
	if err != nil {
		return err
	}

	g := d.Getter
	if g == nil {
		g, err = getter.NewHTTPGetter()
		if err != nil {
			return err
		}
	}

	channel := release.ChannelStable
	if d.Experimental {
		channel = release.ChannelExperimental
	}
	releases := release.NewClient(g)
	if d.ReleasesURL != "" {
		releases.URL = d.ReleasesURL
	}

	dl := &downloader.Downloader{
		Out:      d.Out,
		Username: username,
		Token:    token,
		Getter:   g,
		Releases: releases,
		Channel:  channel,
		BaseURL:  d.DownloadURL,
		Progress: !d.NoProgress && isTerminal(d.Out),
	}

	v, err := dl.ResolveVersion(d.Build, d.Version)
	if err != nil {
		return err
	}

	outdir := d.OutDir
	if outdir == "" {
		outdir = "."
	}
	stampPath := filepath.Join(outdir, StampFile)

	if !d.Force {
		if stamped, ok := readStamp(stampPath); ok {
			if stamped.Equal(v) {
				blue := color.New(color.FgBlue)
				if d.Settings.NoColor {
					blue.DisableColor()
				}
				blue.Fprintf(d.Out, "Version %s is already downloaded, nothing to do.\n", v)
				return nil
			}
			if isLatest(d.Version) && v.LessThan(stamped) {
				return errors.Errorf("published latest version %s is older than downloaded version %s", v, stamped)
			}
		}
	}

	// Drop the stamp before downloading so an interrupted run leaves no
	// claim that the files on disk are whole.
	if err := os.Remove(stampPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "cannot remove version stamp")
	}

	_, err = dl.Run(downloader.Request{
		Build:       d.Build,
		VersionSpec: v.String(),
		Distros:     d.Distros,
		OutDir:      d.OutDir,
		TempDir:     d.TempDir,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(stampPath, []byte(v.String()+"\n"), 0644); err != nil {
		return errors.Wrap(err, "cannot write version stamp")
	}
	return nil
}

func isLatest(spec string) bool {
	return spec == "" || spec == "latest"
}

// isTerminal reports whether w is an interactive terminal. Progress bars
// are only rendered there; a cron or piped run gets plain line output.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// readStamp parses the stamp file. A missing or unreadable stamp is
// treated as no stamp: either this is the first run or the last one was
// interrupted.
func readStamp(path string) (version.Version, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return version.Version{}, false
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return version.Version{}, false
	}
	v, err := version.Parse(fields[0])
	if err != nil {
		return version.Version{}, false
	}
	return v, true
}

// FormatError renders err for the CLI boundary, naming the failing
// platform when the failure was per-platform.
func FormatError(err error) string {
	var derr *downloader.DistroError
	if errors.As(err, &derr) {
		return fmt.Sprintf("download failed for distro %s: %v", derr.Distro, derr.Err)
	}
	return err.Error()
}
