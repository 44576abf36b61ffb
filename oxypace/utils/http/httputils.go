// Package httputils holds the outbound HTTP helpers used by bot ingestion.
package httputils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const UserAgent = "Mozilla/5.0 (compatible; OxypaceBot/1.0; +https://oxypace.app)"

// maxPageBytes bounds how much of a source page is read.
const maxPageBytes = 5 << 20

var DefaultClient = &http.Client{Timeout: 20 * time.Second}

// Get issues a GET with the bot user agent and fails on non-2xx responses.
// The caller closes the returned body.
func Get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	if client == nil {
		client = DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	r, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if r.StatusCode < 200 || r.StatusCode > 299 {
		r.Body.Close()
		return nil, fmt.Errorf("GET %s: bad status: %d", url, r.StatusCode)
	}
	return r.Body, nil
}

// FetchDocument downloads url and parses it as HTML.
func FetchDocument(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	body, err := Get(ctx, client, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
