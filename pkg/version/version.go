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

// Package version models Factorio release versions: exactly three
// non-negative numeric parts separated by dots, with none of semver's
// prerelease or build-metadata extensions.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// Version is a concrete three-part game version such as "2.0.10".
type Version struct {
	v *semver.Version
}

// Parse validates a version literal. The literal must be three dot
// separated non-negative integers; anything else is rejected.
func Parse(s string) (Version, error) {
	if strings.Count(s, ".") != 2 {
		return Version{}, errors.Errorf("version %q must have exactly three parts", s)
	}
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return Version{}, errors.Wrapf(err, "invalid version %q", s)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return Version{}, errors.Errorf("version %q must be purely numeric", s)
	}
	return Version{v: v}, nil
}

// MustParse is Parse for literals known good at compile time. It panics on
// error and exists for tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

// IsZero reports whether v is the unresolved zero Version.
func (v Version) IsZero() bool { return v.v == nil }

// Equal reports whether two versions are the same release.
func (v Version) Equal(o Version) bool {
	if v.v == nil || o.v == nil {
		return v.v == o.v
	}
	return v.v.Equal(o.v)
}

// LessThan reports whether v was released before o.
func (v Version) LessThan(o Version) bool {
	if v.v == nil || o.v == nil {
		return false
	}
	return v.v.LessThan(o.v)
}
