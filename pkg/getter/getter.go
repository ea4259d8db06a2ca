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

// Package getter provides the HTTP client used against the Factorio
// distribution API.
package getter

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

// options are generic parameters to be provided to the getter during
// instantiation.
type options struct {
	username  string
	token     string
	userAgent string
	timeout   time.Duration
	transport *http.Transport
	progress  io.Writer
}

// Option allows specifying various settings configurable by the user for
// overriding the defaults used when performing Get operations with the
// Getter.
type Option func(*options)

// WithCredentials passes the account name and API token as the username
// and token query parameters, which is how the distribution API
// authenticates download requests.
func WithCredentials(username, token string) Option {
	return func(opts *options) {
		opts.username = username
		opts.token = token
	}
}

// WithUserAgent sets the request's User-Agent header to use the provided
// agent name.
func WithUserAgent(userAgent string) Option {
	return func(opts *options) {
		opts.userAgent = userAgent
	}
}

// WithTimeout sets the timeout for requests.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *options) {
		opts.timeout = timeout
	}
}

// WithTransport sets the http.Transport to allow overwriting the
// HTTPGetter default.
func WithTransport(transport *http.Transport) Option {
	return func(opts *options) {
		opts.transport = transport
	}
}

// WithProgress renders a progress bar to the given writer while a
// Download streams the response body.
func WithProgress(out io.Writer) Option {
	return func(opts *options) {
		opts.progress = out
	}
}

// Getter is an interface to support GET from the specified URL.
type Getter interface {
	// Get fetches the body at url into memory.
	Get(url string, options ...Option) (*bytes.Buffer, error)
	// Download streams the body at url into dst and returns the number
	// of bytes written.
	Download(url string, dst io.Writer, options ...Option) (int64, error)
}

// StatusError is returned when the server responds with a non-2xx status.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "failed to fetch " + e.URL + " : " + e.Status
}

// DefaultHTTPTimeout bounds the whole request. Binary downloads are large,
// so this is generous compared to an API round trip.
const DefaultHTTPTimeout = 30 * time.Minute
