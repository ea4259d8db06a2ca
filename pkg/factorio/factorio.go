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

/*Package factorio holds the vocabulary of the official Factorio
distribution API: game builds, target platforms, the public endpoints, and
the on-disk names given to downloaded binaries.

The set of platforms the vendor builds for is an external contract. It is
pinned here as a constant list rather than discovered at run time.
*/
package factorio

import (
	"fmt"
	"strings"
)

const (
	// LatestReleasesURL lists the released versions per build and channel.
	LatestReleasesURL = "https://factorio.com/api/latest-releases"
	// DownloadURL is the base of the authenticated binary download
	// endpoint. Requests append /{version}/{build}/{distro}.
	DownloadURL = "https://www.factorio.com/get-download"
)

// Build is a game variant as defined by the vendor.
type Build string

const (
	BuildAlpha     Build = "alpha"
	BuildExpansion Build = "expansion"
	BuildDemo      Build = "demo"
	BuildHeadless  Build = "headless"
)

// Builds returns all known builds.
func Builds() []Build {
	return []Build{BuildAlpha, BuildExpansion, BuildDemo, BuildHeadless}
}

func (b Build) String() string { return string(b) }

// Set implements pflag.Value so a Build can back a --build flag.
func (b *Build) Set(s string) error {
	for _, known := range Builds() {
		if s == string(known) {
			*b = known
			return nil
		}
	}
	return fmt.Errorf("invalid build %q, must be one of: %s", s, joinBuilds())
}

// Type implements pflag.Value.
func (b *Build) Type() string { return "build" }

func joinBuilds() string {
	names := make([]string, 0, len(Builds()))
	for _, b := range Builds() {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}

// Distro is a target platform/OS+architecture combination the vendor
// publishes binaries for.
type Distro string

const (
	DistroWin64       Distro = "win64"
	DistroWin64Manual Distro = "win64-manual"
	DistroOSX         Distro = "osx"
	DistroLinux64     Distro = "linux64"
)

// DefaultDistros is the fixed default platform order used when no --distro
// flag is given.
func DefaultDistros() []Distro {
	return []Distro{DistroWin64, DistroWin64Manual, DistroOSX, DistroLinux64}
}

func (d Distro) String() string { return string(d) }

// Ext returns the file extension the vendor uses for this platform's
// installer, without the leading dot.
func (d Distro) Ext() string {
	switch d {
	case DistroWin64:
		return "exe"
	case DistroWin64Manual:
		return "zip"
	case DistroOSX:
		return "dmg"
	case DistroLinux64:
		return "tar.gz"
	}
	return "bin"
}

// ParseDistro validates a platform identifier.
func ParseDistro(s string) (Distro, error) {
	for _, known := range DefaultDistros() {
		if s == string(known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("invalid distro %q, must be one of: %s", s, joinDistros())
}

func joinDistros() string {
	names := make([]string, 0, len(DefaultDistros()))
	for _, d := range DefaultDistros() {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}

// DistroList is an ordered, repeatable --distro flag value.
type DistroList []Distro

func (l *DistroList) String() string {
	names := make([]string, 0, len(*l))
	for _, d := range *l {
		names = append(names, string(d))
	}
	return strings.Join(names, ",")
}

// Set appends one platform per flag occurrence, preserving order.
func (l *DistroList) Set(s string) error {
	d, err := ParseDistro(s)
	if err != nil {
		return err
	}
	*l = append(*l, d)
	return nil
}

// Type implements pflag.Value.
func (l *DistroList) Type() string { return "distro" }

// ArtifactName returns the deterministic file name for one downloaded
// binary, encoding build, version and platform.
func ArtifactName(b Build, version string, d Distro) string {
	return fmt.Sprintf("factorio-%s-%s-%s.%s", b, version, d, d.Ext())
}
