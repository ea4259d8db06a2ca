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

package downloader

import (
	"fmt"

	"github.com/factoriodl/factoriodl/pkg/factorio"
)

// InvalidVersionError reports a malformed version literal. It is produced
// without any network call.
type InvalidVersionError struct {
	Spec string
	Err  error
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %v", e.Spec, e.Err)
}

func (e *InvalidVersionError) Unwrap() error { return e.Err }

// VersionLookupError reports that "latest" could not be resolved, either
// because the listing endpoint was unreachable or because it had no entry
// for the build.
type VersionLookupError struct {
	Build factorio.Build
	Err   error
}

func (e *VersionLookupError) Error() string {
	return fmt.Sprintf("cannot resolve latest %s version: %v", e.Build, e.Err)
}

func (e *VersionLookupError) Unwrap() error { return e.Err }

// AuthenticationError reports that the API rejected the credential pair.
type AuthenticationError struct {
	Status string
}

func (e *AuthenticationError) Error() string {
	return "credentials rejected by the download API: " + e.Status
}

// NotFoundError reports that the requested combination does not exist
// upstream.
type NotFoundError struct {
	Build   factorio.Build
	Version string
	Distro  factorio.Distro
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no download exists for %s/%s/%s", e.Version, e.Build, e.Distro)
}

// TransferError reports an I/O or network fault while streaming a binary.
// Transfers are not retried.
type TransferError struct {
	Distro factorio.Distro
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed for %s: %v", e.Distro, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// PlacementError reports that a downloaded file could not be moved into
// the output directory.
type PlacementError struct {
	Path string
	Err  error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("cannot place %s: %v", e.Path, e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }

// DistroError wraps a per-platform failure with the platform it occurred
// on. Run returns it so callers and the CLI can name the distro that
// aborted the run.
type DistroError struct {
	Distro factorio.Distro
	Err    error
}

func (e *DistroError) Error() string {
	return fmt.Sprintf("distro %s: %v", e.Distro, e.Err)
}

func (e *DistroError) Unwrap() error { return e.Err }
