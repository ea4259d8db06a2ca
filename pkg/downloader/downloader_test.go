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
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/factoriodl/factoriodl/pkg/factorio"
	"github.com/factoriodl/factoriodl/pkg/getter"
	"github.com/factoriodl/factoriodl/pkg/release"
	"github.com/factoriodl/factoriodl/pkg/version"
)

// fakeAPI serves the version listing and binary downloads the way the
// vendor API does, recording every request path in order.
type fakeAPI struct {
	srv *httptest.Server

	requests []string
	// notFound maps distro names to a 404 response.
	notFound map[string]bool
	// rejectAuth makes every download respond 403.
	rejectAuth bool
	// serial is appended to download bodies so successive fetches of
	// the same file can be told apart.
	serial int
}

const fakeListing = `{"stable":{"alpha":"1.1.110","expansion":"2.0.10","demo":"1.1.110","headless":"2.0.10"},"experimental":{"expansion":"2.0.15"}}`

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{notFound: map[string]bool{}}
	api.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.requests = append(api.requests, r.URL.Path)

		if r.URL.Path == "/api/latest-releases" {
			w.Write([]byte(fakeListing))
			return
		}

		// /get-download/{version}/{build}/{distro}
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/get-download/"), "/")
		if len(parts) != 3 {
			http.NotFound(w, r)
			return
		}
		distro := parts[2]
		if api.rejectAuth {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if api.notFound[distro] {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, "binary-%s-%d", distro, api.serial)
	}))
	t.Cleanup(api.srv.Close)
	return api
}

func (a *fakeAPI) downloadRequests() []string {
	var out []string
	for _, p := range a.requests {
		if strings.HasPrefix(p, "/get-download/") {
			out = append(out, p)
		}
	}
	return out
}

func (a *fakeAPI) downloader(t *testing.T) *Downloader {
	t.Helper()
	g, err := getter.NewHTTPGetter()
	if err != nil {
		t.Fatal(err)
	}
	releases := release.NewClient(g)
	releases.URL = a.srv.URL + "/api/latest-releases"
	return &Downloader{
		Out:      &bytes.Buffer{},
		Username: "engineer",
		Token:    "tok3n",
		Getter:   g,
		Releases: releases,
		BaseURL:  a.srv.URL + "/get-download",
	}
}

func TestResolveVersionLiteral(t *testing.T) {
	api := newFakeAPI(t)
	d := api.downloader(t)

	for _, literal := range []string{"2.0.10", "0.17.79", "1.1.110"} {
		v, err := d.ResolveVersion(factorio.BuildExpansion, literal)
		if err != nil {
			t.Fatalf("ResolveVersion(%q) returned error: %v", literal, err)
		}
		if v.String() != literal {
			t.Errorf("ResolveVersion(%q) = %s, want the literal unchanged", literal, v)
		}
	}
	if len(api.requests) != 0 {
		t.Errorf("literal resolution made %d network calls, want 0", len(api.requests))
	}
}

func TestResolveVersionMalformed(t *testing.T) {
	api := newFakeAPI(t)
	d := api.downloader(t)

	for _, literal := range []string{"1.2", "1.2.3.4", "x.y.z", "1.2.3-beta", "-1.0.0"} {
		_, err := d.ResolveVersion(factorio.BuildExpansion, literal)
		if err == nil {
			t.Errorf("ResolveVersion(%q) succeeded, want error", literal)
			continue
		}
		var verr *InvalidVersionError
		if !errors.As(err, &verr) {
			t.Errorf("ResolveVersion(%q) error is %T, want InvalidVersionError", literal, err)
		}
	}
	if len(api.requests) != 0 {
		t.Errorf("malformed literals caused %d network calls, want 0", len(api.requests))
	}
}

func TestResolveVersionLatest(t *testing.T) {
	api := newFakeAPI(t)
	d := api.downloader(t)

	v, err := d.ResolveVersion(factorio.BuildExpansion, "latest")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "2.0.10" {
		t.Errorf("latest expansion = %s, want 2.0.10", v)
	}

	d.Channel = release.ChannelExperimental
	v, err = d.ResolveVersion(factorio.BuildExpansion, "latest")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "2.0.15" {
		t.Errorf("latest experimental expansion = %s, want 2.0.15", v)
	}
}

func TestResolveVersionLatestLookupFailure(t *testing.T) {
	api := newFakeAPI(t)
	d := api.downloader(t)

	// headless has no experimental release in the listing
	d.Channel = release.ChannelExperimental
	_, err := d.ResolveVersion(factorio.BuildHeadless, "latest")
	if err == nil {
		t.Fatal("expected an error for a build absent from the channel")
	}
	var lerr *VersionLookupError
	if !errors.As(err, &lerr) {
		t.Fatalf("error is %T, want VersionLookupError", err)
	}
	if lerr.Build != factorio.BuildHeadless {
		t.Errorf("VersionLookupError names build %s, want headless", lerr.Build)
	}
}

func TestDownloadToIsIdempotent(t *testing.T) {
	api := newFakeAPI(t)
	d := api.downloader(t)
	tempdir := t.TempDir()
	v := version.MustParse("2.0.10")

	if _, err := d.DownloadTo(factorio.BuildExpansion, v, factorio.DistroLinux64, tempdir); err != nil {
		t.Fatal(err)
	}
	api.serial++
	path, err := d.DownloadTo(factorio.BuildExpansion, v, factorio.DistroLinux64, tempdir)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(tempdir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("tempdir holds %d files after two downloads, want 1", len(entries))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "binary-linux64-1" {
		t.Errorf("temp file content = %q, want the latest body", data)
	}
}

func TestDownloadToNotFound(t *testing.T) {
	api := newFakeAPI(t)
	api.notFound["osx"] = true
	d := api.downloader(t)

	_, err := d.DownloadTo(factorio.BuildExpansion, version.MustParse("2.0.10"), factorio.DistroOSX, t.TempDir())
	if err == nil {
		t.Fatal("expected an error for a missing upstream file")
	}
	var nerr *NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("error is %T, want NotFoundError", err)
	}
	if nerr.Distro != factorio.DistroOSX {
		t.Errorf("NotFoundError names distro %s, want osx", nerr.Distro)
	}
}

func TestDownloadToAuthRejected(t *testing.T) {
	api := newFakeAPI(t)
	api.rejectAuth = true
	d := api.downloader(t)

	_, err := d.DownloadTo(factorio.BuildExpansion, version.MustParse("2.0.10"), factorio.DistroLinux64, t.TempDir())
	if err == nil {
		t.Fatal("expected an error for rejected credentials")
	}
	var aerr *AuthenticationError
	if !errors.As(err, &aerr) {
		t.Fatalf("error is %T, want AuthenticationError", err)
	}
}

func TestPlace(t *testing.T) {
	d := &Downloader{}
	tempdir := t.TempDir()
	outdir := filepath.Join(t.TempDir(), "nested", "out")

	tmp := filepath.Join(tempdir, "factorio-expansion-2.0.10-linux64.tar.gz.tmp")
	if err := os.WriteFile(tmp, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	final, err := d.Place(tmp, outdir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(final) != "factorio-expansion-2.0.10-linux64.tar.gz" {
		t.Errorf("placed name = %q", filepath.Base(final))
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Error("temp file still present after placement")
	}
	data, err := os.ReadFile(final)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("placed content = %q", data)
	}
}

func TestPlaceReplacesExisting(t *testing.T) {
	d := &Downloader{}
	dir := t.TempDir()

	final := filepath.Join(dir, "factorio-expansion-2.0.10-linux64.tar.gz")
	if err := os.WriteFile(final, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, []byte("fresh"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := d.Place(tmp, dir)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fresh" {
		t.Errorf("placed content = %q, want the fresh body", data)
	}
}

func TestRunDownloadsAllDistrosInOrder(t *testing.T) {
	api := newFakeAPI(t)
	d := api.downloader(t)
	outdir := t.TempDir()
	tempdir := t.TempDir()

	artifacts, err := d.Run(Request{
		Build:       factorio.BuildExpansion,
		VersionSpec: "2.0.10",
		Distros:     []factorio.Distro{factorio.DistroWin64, factorio.DistroLinux64},
		OutDir:      outdir,
		TempDir:     tempdir,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(artifacts) != 2 {
		t.Fatalf("Run produced %d artifacts, want 2", len(artifacts))
	}
	if artifacts[0].Distro != factorio.DistroWin64 || artifacts[1].Distro != factorio.DistroLinux64 {
		t.Errorf("artifact order = %v", artifacts)
	}

	for _, name := range []string{
		"factorio-expansion-2.0.10-win64.exe",
		"factorio-expansion-2.0.10-linux64.tar.gz",
	} {
		if _, err := os.Stat(filepath.Join(outdir, name)); err != nil {
			t.Errorf("missing placed file %s: %v", name, err)
		}
	}

	leftovers, err := os.ReadDir(tempdir)
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("tempdir has %d leftover files after a successful run", len(leftovers))
	}
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	api := newFakeAPI(t)
	api.notFound["win64"] = true
	d := api.downloader(t)
	outdir := t.TempDir()

	_, err := d.Run(Request{
		Build:       factorio.BuildExpansion,
		VersionSpec: "2.0.10",
		Distros:     []factorio.Distro{factorio.DistroWin64, factorio.DistroLinux64},
		OutDir:      outdir,
	})
	if err == nil {
		t.Fatal("expected the run to fail")
	}

	var derr *DistroError
	if !errors.As(err, &derr) {
		t.Fatalf("error is %T, want DistroError", err)
	}
	if derr.Distro != factorio.DistroWin64 {
		t.Errorf("DistroError names %s, want win64", derr.Distro)
	}

	for _, p := range api.downloadRequests() {
		if strings.HasSuffix(p, "/linux64") {
			t.Error("linux64 was requested after the win64 failure")
		}
	}
}

func TestRunDefaultsToAllDistros(t *testing.T) {
	api := newFakeAPI(t)
	d := api.downloader(t)
	outdir := t.TempDir()

	artifacts, err := d.Run(Request{
		Build:       factorio.BuildExpansion,
		VersionSpec: "2.0.10",
		OutDir:      outdir,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(artifacts) != len(factorio.DefaultDistros()) {
		t.Fatalf("Run produced %d artifacts, want %d", len(artifacts), len(factorio.DefaultDistros()))
	}
	for i, d := range factorio.DefaultDistros() {
		if artifacts[i].Distro != d {
			t.Errorf("artifact %d is %s, want %s", i, artifacts[i].Distro, d)
		}
	}
}
