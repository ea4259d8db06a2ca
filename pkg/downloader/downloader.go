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

// Package downloader fetches Factorio binaries from the official
// distribution API and places them in an output directory.
//
// Each platform is an independent linear pipeline: the binary is
// streamed to a temp file under the temp directory, then renamed into
// the output directory. Platforms are processed strictly in order and a
// failure aborts the remaining ones.
package downloader

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/factoriodl/factoriodl/pkg/factorio"
	"github.com/factoriodl/factoriodl/pkg/getter"
	"github.com/factoriodl/factoriodl/pkg/release"
	"github.com/factoriodl/factoriodl/pkg/version"
)

// tmpSuffix marks files still being written under the temp directory.
const tmpSuffix = ".tmp"

// Request describes one download run.
type Request struct {
	// Build is the game variant to download.
	Build factorio.Build
	// VersionSpec is "latest" or a concrete three-part version literal.
	VersionSpec string
	// Distros is the ordered platform list. Empty means all known
	// platforms in the default order.
	Distros []factorio.Distro
	// OutDir receives the finished files. Defaults to the working
	// directory.
	OutDir string
	// TempDir receives in-flight files. Defaults to OutDir.
	TempDir string
}

// Artifact is one fully placed binary.
type Artifact struct {
	Distro factorio.Distro
	Path   string
}

// Downloader handles downloading game binaries.
type Downloader struct {
	// Out is the location to write progress and info messages.
	Out io.Writer
	// Username and Token authenticate download requests.
	Username string
	Token    string
	// Getter performs the HTTP requests.
	Getter getter.Getter
	// Releases resolves "latest". When nil, one is built from Getter.
	Releases *release.Client
	// Channel selects the release track "latest" resolves against.
	Channel release.Channel
	// BaseURL is the binary download endpoint. Defaults to the official
	// API.
	BaseURL string
	// Progress enables a progress bar on Out during transfers.
	Progress bool
}

func (d *Downloader) releases() *release.Client {
	if d.Releases != nil {
		return d.Releases
	}
	return release.NewClient(d.Getter)
}

func (d *Downloader) baseURL() string {
	if d.BaseURL != "" {
		return strings.TrimSuffix(d.BaseURL, "/")
	}
	return factorio.DownloadURL
}

// ResolveVersion turns a version spec into a concrete version. A literal
// is validated locally and returned unchanged; "latest" (or an empty
// spec) is resolved against the version-listing endpoint.
func (d *Downloader) ResolveVersion(build factorio.Build, spec string) (version.Version, error) {
	if spec == "" || spec == "latest" {
		v, err := d.releases().Latest(build, d.Channel)
		if err != nil {
			return version.Version{}, &VersionLookupError{Build: build, Err: err}
		}
		slog.Debug("resolved latest version", "build", build, "version", v)
		return v, nil
	}
	v, err := version.Parse(spec)
	if err != nil {
		return version.Version{}, &InvalidVersionError{Spec: spec, Err: err}
	}
	return v, nil
}

// DownloadTo streams the binary for one platform into tempdir and returns
// the temp file path. The temp file name is deterministic for the
// (build, version, distro) tuple and any stale file is overwritten.
func (d *Downloader) DownloadTo(build factorio.Build, v version.Version, distro factorio.Distro, tempdir string) (string, error) {
	if tempdir == "" {
		tempdir = "."
	}
	if err := os.MkdirAll(tempdir, 0755); err != nil {
		return "", &TransferError{Distro: distro, Err: err}
	}

	dest := filepath.Join(tempdir, factorio.ArtifactName(build, v.String(), distro)+tmpSuffix)
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", &TransferError{Distro: distro, Err: err}
	}

	href := fmt.Sprintf("%s/%s/%s/%s", d.baseURL(), v, build, distro)
	opts := []getter.Option{getter.WithCredentials(d.Username, d.Token)}
	if d.Progress && d.Out != nil {
		opts = append(opts, getter.WithProgress(d.Out))
	}

	slog.Debug("downloading", "build", build, "version", v, "distro", distro)
	n, err := d.Getter.Download(href, f, opts...)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// A partial temp file may remain; the next run overwrites it.
		statusErr := &getter.StatusError{}
		if errors.As(err, &statusErr) {
			switch statusErr.Code {
			case 401, 403:
				return "", &AuthenticationError{Status: statusErr.Status}
			case 404:
				return "", &NotFoundError{Build: build, Version: v.String(), Distro: distro}
			}
		}
		return "", &TransferError{Distro: distro, Err: err}
	}

	slog.Debug("downloaded", "distro", distro, "size", humanize.Bytes(uint64(n)))
	return dest, nil
}

// Place moves a finished temp file into outdir, creating outdir if
// absent. An existing file of the same name is replaced.
func (d *Downloader) Place(tmpPath, outdir string) (string, error) {
	if outdir == "" {
		outdir = "."
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return "", &PlacementError{Path: tmpPath, Err: err}
	}

	// Rename replaces an existing destination atomically on POSIX, so it
	// is attempted as-is first. It fails across filesystems when tempdir
	// and outdir are different mounts; then the file is copied over.
	final := filepath.Join(outdir, strings.TrimSuffix(filepath.Base(tmpPath), tmpSuffix))
	if err := os.Rename(tmpPath, final); err != nil {
		if err := copyAndRemove(tmpPath, final); err != nil {
			return "", &PlacementError{Path: final, Err: err}
		}
	}
	return final, nil
}

// Run resolves the requested version once, then fetches and places one
// binary per requested platform, in order. The first failure aborts the
// remaining platforms and is returned wrapped in a DistroError naming
// the platform (version resolution failures are returned as-is).
func (d *Downloader) Run(req Request) ([]Artifact, error) {
	v, err := d.ResolveVersion(req.Build, req.VersionSpec)
	if err != nil {
		return nil, err
	}

	distros := req.Distros
	if len(distros) == 0 {
		distros = factorio.DefaultDistros()
	}
	tempdir := req.TempDir
	if tempdir == "" {
		tempdir = req.OutDir
	}

	artifacts := make([]Artifact, 0, len(distros))
	for _, distro := range distros {
		if d.Out != nil {
			fmt.Fprintf(d.Out, "Downloading %s/%s/%s\n", v, req.Build, distro)
		}
		tmp, err := d.DownloadTo(req.Build, v, distro, tempdir)
		if err != nil {
			return artifacts, &DistroError{Distro: distro, Err: err}
		}
		placed, err := d.Place(tmp, req.OutDir)
		if err != nil {
			return artifacts, &DistroError{Distro: distro, Err: err}
		}
		if d.Out != nil {
			fmt.Fprintf(d.Out, "Saved %s\n", placed)
		}
		artifacts = append(artifacts, Artifact{Distro: distro, Path: placed})
	}
	return artifacts, nil
}

func copyAndRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
