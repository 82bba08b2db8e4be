// Package resolve turns links found on the betting site's listing page into
// matches between configured teams.
package resolve

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Links returns every href in doc resolved against base, in document order
// and without duplicates. Links that cannot be parsed are skipped.
func Links(doc *goquery.Document, base *url.URL) []*url.URL {
	var out []*url.URL
	seen := make(map[string]bool)

	doc.Find("[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := resolveLink(href, base)
		if err != nil {
			zap.L().Debug("skipping unparsable link", zap.String("href", href), zap.Error(err))
			return
		}
		key := u.String()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, u)
	})
	return out
}

func resolveLink(href string, base *url.URL) (*url.URL, error) {
	switch {
	case strings.HasPrefix(href, "/"):
		return url.Parse(origin(base) + href)
	case strings.HasPrefix(href, "http"):
		return url.Parse(href)
	default:
		dir := base.Path
		if !strings.HasSuffix(dir, "/") {
			dir += "/"
		}
		return url.Parse(origin(base) + dir + href)
	}
}

// origin renders scheme://host[:port] without any path.
func origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

func sameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) &&
		strings.EqualFold(a.Hostname(), b.Hostname()) &&
		effectivePort(a) == effectivePort(b)
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return "443"
	case "http":
		return "80"
	}
	return ""
}

// underPath reports whether u sits at or below base's path, compared by
// whole segments.
func underPath(u, base *url.URL) bool {
	prefix := strings.TrimRight(base.Path, "/")
	if prefix == "" {
		return true
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}
