// Package robots extracts directive lines from robots.txt content.
package robots

import "strings"

// Directive prefixes, in the priority order they are tested.
const (
	prefixUserAgent  = "User-agent:"
	prefixDisallow   = "Disallow:"
	prefixAllow      = "Allow:"
	prefixCrawlDelay = "Crawl-delay:"
	prefixSitemap    = "Sitemap:"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Analysis holds the directive values found in a robots.txt file. Every list keeps
// source order and duplicates. Values belong to the whole file; no association is
// kept between a User-agent line and the rules that follow it.
type Analysis struct {
	userAgents      []string
	disallowedPaths []string
	allowedPaths    []string
	crawlDelays     []string
	sitemaps        []string
}

// Analyze scans content line by line and buckets each directive by its prefix.
// Prefix matching is case-sensitive; lines matching no prefix are ignored.
func Analyze(content string) Analysis {
	var a Analysis
	for _, line := range strings.Split(lineEndings.Replace(content), "\n") {
		a.add(strings.TrimSpace(line))
	}
	return a
}

func (a *Analysis) add(line string) {
	switch {
	case strings.HasPrefix(line, prefixUserAgent):
		a.userAgents = append(a.userAgents, value(line, prefixUserAgent))
	case strings.HasPrefix(line, prefixDisallow):
		a.disallowedPaths = append(a.disallowedPaths, value(line, prefixDisallow))
	case strings.HasPrefix(line, prefixAllow):
		a.allowedPaths = append(a.allowedPaths, value(line, prefixAllow))
	case strings.HasPrefix(line, prefixCrawlDelay):
		a.crawlDelays = append(a.crawlDelays, value(line, prefixCrawlDelay))
	case strings.HasPrefix(line, prefixSitemap):
		a.sitemaps = append(a.sitemaps, value(line, prefixSitemap))
	}
}

func value(line, prefix string) string {
	return strings.TrimSpace(line[len(prefix):])
}

// UserAgents returns the User-agent values.
func (a Analysis) UserAgents() []string { return clone(a.userAgents) }

// DisallowedPaths returns the Disallow values.
func (a Analysis) DisallowedPaths() []string { return clone(a.disallowedPaths) }

// AllowedPaths returns the Allow values.
func (a Analysis) AllowedPaths() []string { return clone(a.allowedPaths) }

// CrawlDelays returns the Crawl-delay values as written.
func (a Analysis) CrawlDelays() []string { return clone(a.crawlDelays) }

// Sitemaps returns the Sitemap URLs.
func (a Analysis) Sitemaps() []string { return clone(a.sitemaps) }

// Empty reports whether no directive was recognized.
func (a Analysis) Empty() bool {
	return len(a.userAgents)+len(a.disallowedPaths)+len(a.allowedPaths)+
		len(a.crawlDelays)+len(a.sitemaps) == 0
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
