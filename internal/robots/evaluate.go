package robots

import (
	"fmt"
	"strings"
	"time"

	"github.com/temoto/robotstxt"
)

// Verdict reports how a robots.txt treats one agent and path under full group
// semantics, unlike Analyze which flattens every directive.
type Verdict struct {
	Agent      string
	Path       string
	Allowed    bool
	CrawlDelay time.Duration
	Sitemaps   []string
}

// Evaluate parses content with group-aware rules and tests path for agent.
func Evaluate(content, agent, path string) (Verdict, error) {
	data, err := robotstxt.FromString(content)
	if err != nil {
		return Verdict{}, fmt.Errorf("parse robots: %w", err)
	}
	if strings.TrimSpace(agent) == "" {
		agent = "*"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	verdict := Verdict{
		Agent:    agent,
		Path:     path,
		Allowed:  true,
		Sitemaps: clone(data.Sitemaps),
	}
	if group := data.FindGroup(agent); group != nil {
		verdict.Allowed = group.Test(path)
		verdict.CrawlDelay = group.CrawlDelay
	}
	return verdict, nil
}
