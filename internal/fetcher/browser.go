package fetcher

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// BrowserOptions configures the headless browser fetcher.
type BrowserOptions struct {
	UserAgent string
	Timeout   time.Duration
	// WaitSelector must be ready before the page is captured.
	WaitSelector string
}

// BrowserFetcher renders pages in headless Chrome before parsing them. It
// is used when the site builds its markets client-side.
type BrowserFetcher struct {
	opts      BrowserOptions
	allocOpts []chromedp.ExecAllocatorOption
}

// NewBrowserFetcher creates a BrowserFetcher with a desktop-sized window so
// the site does not fall back to its mobile layout.
func NewBrowserFetcher(opts BrowserOptions) *BrowserFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.WaitSelector == "" {
		opts.WaitSelector = "body"
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.Headless,
		chromedp.Flag("force-device-scale-factor", "1"),
		chromedp.WindowSize(1920, 1080),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	return &BrowserFetcher{opts: opts, allocOpts: allocOpts}
}

// Fetch navigates to the URL and parses the rendered body.
func (f *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocOpts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	var markup string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady(f.opts.WaitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("body", &markup, chromedp.ByQuery),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: render %s", rawURL)
	}

	zap.L().Debug("rendered page", zap.String("url", rawURL), zap.Int("bytes", len(markup)))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: parse %s", rawURL)
	}
	return doc, nil
}
