package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// fetchTimeout bounds a remote trace download.
const fetchTimeout = 5 * time.Minute

// fetcher loads input traces from local files or http(s) URLs.
type fetcher struct {
	httpClient *http.Client
}

// newFetcher returns a fetcher whose downloads time out after fetchTimeout.
func newFetcher() *fetcher {
	return &fetcher{
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// fetch returns the raw trace bytes behind src.
func (f *fetcher) fetch(src string) ([]byte, error) {
	if isRemote(src) {
		return f.download(src)
	}
	return os.ReadFile(src)
}

// download reads a trace over HTTP; any status other than 200 is an error.
func (f *fetcher) download(src string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid trace URL %s: %w", src, err)
	}
	req.Header.Set("Accept", "application/xml, text/xml;q=0.9, */*;q=0.1")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", src, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, src)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	return body, nil
}

// isRemote reports whether src is an http or https URL rather than a path.
func isRemote(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
