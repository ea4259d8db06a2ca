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

package getter

import (
	"bytes"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"

	"github.com/factoriodl/factoriodl/internal/version"
)

// HTTPGetter is the default HTTP(/S) backend handler
type HTTPGetter struct {
	opts      options
	transport *http.Transport
	once      sync.Once
}

// NewHTTPGetter constructs a valid http/https client as a Getter
func NewHTTPGetter(opts ...Option) (*HTTPGetter, error) {
	var client HTTPGetter

	for _, opt := range opts {
		opt(&client.opts)
	}

	return &client, nil
}

// Get performs a Get and returns the body.
func (g *HTTPGetter) Get(href string, opts ...Option) (*bytes.Buffer, error) {
	buf := bytes.NewBuffer(nil)
	_, err := g.Download(href, buf, opts...)
	return buf, err
}

// Download performs a Get and streams the body into dst.
func (g *HTTPGetter) Download(href string, dst io.Writer, options ...Option) (int64, error) {
	// Copy the options so concurrent calls cannot race on them.
	opts := g.opts
	for _, opt := range options {
		opt(&opts)
	}
	return g.download(href, dst, opts)
}

func (g *HTTPGetter) download(href string, dst io.Writer, opts options) (int64, error) {
	u, err := url.Parse(href)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to parse getter URL %q", href)
	}

	// The distribution API takes credentials as query parameters rather
	// than an Authorization header.
	if opts.username != "" || opts.token != "" {
		q := u.Query()
		q.Set("username", opts.username)
		q.Set("token", opts.token)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}

	req.Header.Set("User-Agent", version.GetUserAgent())
	if opts.userAgent != "" {
		req.Header.Set("User-Agent", opts.userAgent)
	}

	client := g.httpClient(opts)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Report the unauthenticated URL so credentials never leak
		// into error output.
		return 0, &StatusError{URL: href, Code: resp.StatusCode, Status: resp.Status}
	}

	body := io.Reader(resp.Body)
	if opts.progress != nil && resp.ContentLength > 0 {
		bar := pb.Full.Start64(resp.ContentLength)
		bar.SetWriter(opts.progress)
		body = bar.NewProxyReader(resp.Body)
		defer bar.Finish()
	}

	return io.Copy(dst, body)
}

func (g *HTTPGetter) httpClient(opts options) *http.Client {
	timeout := opts.timeout
	if timeout == 0 {
		timeout = DefaultHTTPTimeout
	}

	if opts.transport != nil {
		return &http.Client{
			Transport: opts.transport,
			Timeout:   timeout,
		}
	}

	// Use a shared transport for the default case
	g.once.Do(func() {
		g.transport = &http.Transport{
			DisableCompression: true,
			Proxy:              http.ProxyFromEnvironment,
			TLSClientConfig:    &tls.Config{},
		}
	})

	return &http.Client{
		Transport: g.transport,
		Timeout:   timeout,
	}
}
