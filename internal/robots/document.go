package robots

import (
	"encoding/json"
	"fmt"
)

// Document is the on-disk JSON shape of an Analysis. Lists are always encoded as
// arrays, never null.
type Document struct {
	UserAgents      []string `json:"user_agents"`
	DisallowedPaths []string `json:"disallowed_paths"`
	AllowedPaths    []string `json:"allowed_paths"`
	CrawlDelay      []string `json:"crawl_delay"`
	Sitemaps        []string `json:"sitemaps"`
}

// Document maps the analysis to its external JSON shape.
func (a Analysis) Document() Document {
	return Document{
		UserAgents:      a.UserAgents(),
		DisallowedPaths: a.DisallowedPaths(),
		AllowedPaths:    a.AllowedPaths(),
		CrawlDelay:      a.CrawlDelays(),
		Sitemaps:        a.Sitemaps(),
	}
}

// Analysis maps a decoded document back to an Analysis.
func (d Document) Analysis() Analysis {
	return Analysis{
		userAgents:      clone(d.UserAgents),
		disallowedPaths: clone(d.DisallowedPaths),
		allowedPaths:    clone(d.AllowedPaths),
		crawlDelays:     clone(d.CrawlDelay),
		sitemaps:        clone(d.Sitemaps),
	}
}

// MarshalDocument encodes the analysis as indented JSON.
func MarshalDocument(a Analysis) ([]byte, error) {
	payload, err := json.MarshalIndent(a.Document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal robots analysis: %w", err)
	}
	return payload, nil
}

// UnmarshalDocument decodes JSON written by MarshalDocument.
func UnmarshalDocument(data []byte) (Analysis, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Analysis{}, fmt.Errorf("unmarshal robots analysis: %w", err)
	}
	return doc.Analysis(), nil
}
