// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads bulk compound archives into the raw data
// directory. It is a convenience for operators; ingest itself never touches
// the network and simply skips sources whose files are absent.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/mass-lookup/internal/httputil"
	"github.com/pdiddy/mass-lookup/pkg/types"
)

// knownSources maps source names to their bulk download URLs. Only sources
// with anonymous, direct HTTP bulk endpoints appear here; HMDB and T3DB
// require a browser-driven download from their websites, so those are
// fetched with an explicit URL instead.
var knownSources = map[string]string{
	"kegg":  "https://rest.kegg.jp/list/compound",
	"chebi": "https://ftp.ebi.ac.uk/pub/databases/chebi/SDF/ChEBI_complete.sdf.gz",
}

// KnownSources returns the names with built-in download URLs, sorted.
func KnownSources() []string {
	names := make([]string, 0, len(knownSources))
	for name := range knownSources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps a download target to a URL and destination filename. The
// target is either a known source name or a direct URL, in which case the
// filename comes from the URL path.
func Resolve(target string) (url, filename string, err error) {
	if u, ok := knownSources[strings.ToLower(target)]; ok {
		return u, filenameFor(strings.ToLower(target), u), nil
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		name := filepath.Base(strings.TrimRight(target, "/"))
		if name == "" || name == "." || name == "/" {
			return "", "", fmt.Errorf("cannot derive a filename from URL %q", target)
		}
		return target, name, nil
	}
	return "", "", fmt.Errorf("unknown source %q (known: %s; or pass a direct URL)",
		target, strings.Join(KnownSources(), ", "))
}

func filenameFor(source, url string) string {
	if source == "kegg" {
		// The KEGG listing endpoint has no filename in its path.
		return "kegg_compound.txt"
	}
	return filepath.Base(url)
}

// Download fetches a source archive or URL into cfg.RawDir. An existing
// destination file is not re-downloaded. The body is streamed to a
// temporary file and renamed into place on success, so an interrupted
// download never leaves a partial archive behind.
func Download(ctx context.Context, client *http.Client, target string, cfg types.DownloadConfig, w io.Writer) (string, error) {
	url, filename, err := Resolve(target)
	if err != nil {
		return "", err
	}

	destPath := filepath.Join(cfg.RawDir, filename)
	if _, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", destPath)
		return destPath, nil
	}

	if err := os.MkdirAll(cfg.RawDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", cfg.RawDir, err)
	}

	fmt.Fprintf(w, "downloading %s\n  -> %s\n", url, destPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries, w)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned HTTP %d for %s", resp.StatusCode, url)
	}

	tmp, err := os.CreateTemp(cfg.RawDir, filename+".tmp*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", destPath, err)
	}

	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return "", fmt.Errorf("renaming into place: %w", err)
	}

	fmt.Fprintf(w, "done: %s (%d bytes)\n", destPath, n)
	return destPath, nil
}
