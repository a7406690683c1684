// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/mass-lookup/pkg/types"
)

func testConfig(t *testing.T) types.DownloadConfig {
	t.Helper()
	return types.DownloadConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "mass-lookup-test/0.1"},
		RawDir:     t.TempDir(),
	}
}

func TestResolveKnownSource(t *testing.T) {
	url, filename, err := Resolve("kegg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(url, "rest.kegg.jp") {
		t.Errorf("url = %q", url)
	}
	if filename != "kegg_compound.txt" {
		t.Errorf("filename = %q", filename)
	}

	// Source names are case-insensitive.
	if _, _, err := Resolve("ChEBI"); err != nil {
		t.Errorf("Resolve(ChEBI): %v", err)
	}
}

func TestResolveDirectURL(t *testing.T) {
	url, filename, err := Resolve("https://example.org/exports/toxins.sdf")
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://example.org/exports/toxins.sdf" || filename != "toxins.sdf" {
		t.Errorf("url=%q filename=%q", url, filename)
	}
}

func TestResolveUnknownSource(t *testing.T) {
	if _, _, err := Resolve("pubchem"); err == nil {
		t.Error("unknown source resolved")
	}
}

func TestDownloadWritesFile(t *testing.T) {
	const body = "C00001\tH2O; Water\nC00002\tATP\n"
	var gotAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(body))
	}))
	defer ts.Close()

	cfg := testConfig(t)
	var buf bytes.Buffer
	path, err := Download(context.Background(), ts.Client(), ts.URL+"/list/compound.txt", cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != body {
		t.Errorf("downloaded content = %q", data)
	}
	if gotAgent != "mass-lookup-test/0.1" {
		t.Errorf("User-Agent = %q", gotAgent)
	}
	if !strings.Contains(buf.String(), "done:") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestDownloadSkipsExisting(t *testing.T) {
	cfg := testConfig(t)
	existing := filepath.Join(cfg.RawDir, "compound.txt")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("server contacted despite existing file")
	}))
	defer ts.Close()

	var buf bytes.Buffer
	path, err := Download(context.Background(), ts.Client(), ts.URL+"/compound.txt", cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if path != existing {
		t.Errorf("path = %q", path)
	}
	if !strings.Contains(buf.String(), "skipped") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestDownloadHTTPErrorLeavesNoFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	cfg := testConfig(t)
	var buf bytes.Buffer
	if _, err := Download(context.Background(), ts.Client(), ts.URL+"/missing.sdf", cfg, &buf); err == nil {
		t.Fatal("expected error for HTTP 404")
	}

	entries, err := os.ReadDir(cfg.RawDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("raw dir not clean after failure: %v", entries)
	}
}
