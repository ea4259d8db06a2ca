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

// Package release queries the vendor's version-listing endpoint.
//
// The endpoint publishes one JSON document with a version literal per
// build under two channels, e.g.:
//
//	{"stable": {"expansion": "2.0.10", ...}, "experimental": {...}}
package release

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/factoriodl/factoriodl/pkg/factorio"
	"github.com/factoriodl/factoriodl/pkg/getter"
	"github.com/factoriodl/factoriodl/pkg/version"
)

// Channel selects which release track "latest" resolves against.
type Channel string

const (
	ChannelStable       Channel = "stable"
	ChannelExperimental Channel = "experimental"
)

// Listing is the decoded version-listing document, mapping build name to
// version literal per channel.
type Listing struct {
	Stable       map[string]string `json:"stable"`
	Experimental map[string]string `json:"experimental"`
}

// Versions returns the build-to-version map for one channel.
func (l *Listing) Versions(ch Channel) map[string]string {
	if ch == ChannelExperimental {
		return l.Experimental
	}
	return l.Stable
}

// Client fetches release listings.
type Client struct {
	// URL is the listing endpoint. Defaults to the official API.
	URL string
	// Getter performs the HTTP request.
	Getter getter.Getter
}

// NewClient returns a Client against the official listing endpoint.
func NewClient(g getter.Getter) *Client {
	return &Client{URL: factorio.LatestReleasesURL, Getter: g}
}

// Fetch retrieves and decodes the current listing.
func (c *Client) Fetch() (*Listing, error) {
	url := c.URL
	if url == "" {
		url = factorio.LatestReleasesURL
	}
	body, err := c.Getter.Get(url)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch release listing")
	}
	listing := &Listing{}
	if err := json.Unmarshal(body.Bytes(), listing); err != nil {
		return nil, errors.Wrap(err, "could not decode release listing")
	}
	return listing, nil
}

// Latest returns the newest published version of build on the given
// channel. It fails when the listing has no entry for the build, which is
// the case for e.g. demo on the experimental channel.
func (c *Client) Latest(build factorio.Build, ch Channel) (version.Version, error) {
	listing, err := c.Fetch()
	if err != nil {
		return version.Version{}, err
	}
	literal, ok := listing.Versions(ch)[build.String()]
	if !ok || literal == "" {
		return version.Version{}, errors.Errorf("release listing has no %s version for build %q", ch, build)
	}
	v, err := version.Parse(literal)
	if err != nil {
		return version.Version{}, errors.Wrapf(err, "release listing has a malformed version for build %q", build)
	}
	return v, nil
}
