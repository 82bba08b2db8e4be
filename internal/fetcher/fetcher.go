// Package fetcher retrieves betting-site pages as parsed documents.
package fetcher

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher defines the interface for retrieving an HTML document.
type Fetcher interface {
	// Fetch retrieves the URL and parses the response as HTML. It aborts
	// as soon as ctx is done.
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// StatusError is returned when the site answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetcher: unexpected status %d from %s", e.StatusCode, e.URL)
}

// HTTPStatus returns the response status code.
func (e *StatusError) HTTPStatus() int { return e.StatusCode }
