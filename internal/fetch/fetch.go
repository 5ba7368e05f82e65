// Package fetch downloads images over HTTP for the Open URL flow.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pixelview/internal/imaging"
)

// Some hosts reject requests without a browser user agent.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// downloadTimeout bounds the whole request including body read.
const downloadTimeout = 10 * time.Second

// maxDownloadSize caps the response body at 100 MB.
const maxDownloadSize = 100 << 20

var client = &http.Client{Timeout: downloadTimeout}

// CleanURL normalizes a URL pasted from a shell or chat: strips
// backslash escapes before URL metacharacters, surrounding quotes and
// whitespace.
func CleanURL(url string) string {
	for _, c := range []string{"?", "&", "=", "#"} {
		url = strings.ReplaceAll(url, `\`+c, c)
	}
	url = strings.TrimSpace(url)

	if len(url) >= 2 {
		first, last := url[0], url[len(url)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			url = url[1 : len(url)-1]
		}
	}
	return url
}

// Download fetches an image from a URL, verifies the bytes decode, and
// returns a Source with the URL and content hash recorded.
func Download(ctx context.Context, rawURL string) (*imaging.Source, error) {
	url := CleanURL(rawURL)
	if url == "" {
		return nil, fmt.Errorf("empty URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image from URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error %d: %s. URL: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("download exceeds %d byte limit", maxDownloadSize)
	}

	src, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid image data from URL: %w", err)
	}
	src.URL = url
	return src, nil
}
