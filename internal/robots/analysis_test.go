package robots

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeEmpty(t *testing.T) {
	t.Parallel()

	a := Analyze("")
	require.True(t, a.Empty())
	assert.Empty(t, a.UserAgents())
	assert.Empty(t, a.DisallowedPaths())
	assert.Empty(t, a.AllowedPaths())
	assert.Empty(t, a.CrawlDelays())
	assert.Empty(t, a.Sitemaps())
}

func TestAnalyzeBasicFile(t *testing.T) {
	t.Parallel()

	a := Analyze("User-agent: *\nDisallow: /admin\nDisallow: /tmp\nSitemap: https://x/s.xml")
	assert.Equal(t, []string{"*"}, a.UserAgents())
	assert.Equal(t, []string{"/admin", "/tmp"}, a.DisallowedPaths())
	assert.Empty(t, a.AllowedPaths())
	assert.Empty(t, a.CrawlDelays())
	assert.Equal(t, []string{"https://x/s.xml"}, a.Sitemaps())
}

func TestAnalyzeFlattensGroupsAndKeepsDuplicates(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"# comment line",
		"User-agent: Googlebot",
		"Allow: /public",
		"Disallow: /private",
		"Crawl-delay: 10",
		"",
		"User-agent: *",
		"Disallow: /private",
		"Crawl-delay: 2.5",
		"Sitemap: https://example.com/a.xml",
		"Sitemap: https://example.com/b.xml",
	}, "\n")

	a := Analyze(content)
	assert.Equal(t, []string{"Googlebot", "*"}, a.UserAgents())
	assert.Equal(t, []string{"/private", "/private"}, a.DisallowedPaths())
	assert.Equal(t, []string{"/public"}, a.AllowedPaths())
	assert.Equal(t, []string{"10", "2.5"}, a.CrawlDelays())
	assert.Equal(t, []string{"https://example.com/a.xml", "https://example.com/b.xml"}, a.Sitemaps())
}

func TestAnalyzePrefixesAreCaseSensitive(t *testing.T) {
	t.Parallel()

	a := Analyze("user-agent: *\nDISALLOW: /x\nallow: /y\nsitemap: https://x/s.xml\ncrawl-delay: 1")
	require.True(t, a.Empty())
}

func TestAnalyzeTrimsWhitespaceAndLineEndings(t *testing.T) {
	t.Parallel()

	a := Analyze("  User-agent:   bot  \r\n\tDisallow:\r\nAllow: /ok \rSitemap:https://x/s.xml\r")
	assert.Equal(t, []string{"bot"}, a.UserAgents())
	assert.Equal(t, []string{""}, a.DisallowedPaths())
	assert.Equal(t, []string{"/ok"}, a.AllowedPaths())
	assert.Equal(t, []string{"https://x/s.xml"}, a.Sitemaps())
}

func TestAnalyzeKeepsColonsInValues(t *testing.T) {
	t.Parallel()

	a := Analyze("Sitemap: https://example.com:8443/sitemap.xml\nDisallow: /a:b")
	assert.Equal(t, []string{"https://example.com:8443/sitemap.xml"}, a.Sitemaps())
	assert.Equal(t, []string{"/a:b"}, a.DisallowedPaths())
}

func TestAnalyzeIgnoresMalformedInput(t *testing.T) {
	t.Parallel()

	a := Analyze("<html><body>not found</body></html>\n\x00\x01garbage\nUser-agent *")
	require.True(t, a.Empty())
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	a := Analyze("Disallow: /admin")
	paths := a.DisallowedPaths()
	paths[0] = "/changed"
	assert.Equal(t, []string{"/admin"}, a.DisallowedPaths())
}

func TestDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	original := Analyze("User-agent: *\nDisallow: /admin\nDisallow: /admin\nAllow: /\nCrawl-delay: 5\nSitemap: https://x/s.xml")
	payload, err := MarshalDocument(original)
	require.NoError(t, err)

	decoded, err := UnmarshalDocument(payload)
	require.NoError(t, err)
	assert.Equal(t, original.Document(), decoded.Document())
}

func TestMarshalDocumentUsesArraysForEmptyLists(t *testing.T) {
	t.Parallel()

	payload, err := MarshalDocument(Analyze(""))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"user_agents": [],
		"disallowed_paths": [],
		"allowed_paths": [],
		"crawl_delay": [],
		"sitemaps": []
	}`, string(payload))
}

func TestUnmarshalDocumentRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := UnmarshalDocument([]byte("{"))
	require.Error(t, err)
}

func TestEvaluateUsesGroups(t *testing.T) {
	t.Parallel()

	content := "User-agent: Googlebot\nDisallow: /private\nCrawl-delay: 3\n\nUser-agent: *\nDisallow: /\nSitemap: https://x/s.xml\n"

	v, err := Evaluate(content, "Googlebot", "/public/page")
	require.NoError(t, err)
	assert.True(t, v.Allowed)
	assert.Equal(t, 3*time.Second, v.CrawlDelay)
	assert.Equal(t, []string{"https://x/s.xml"}, v.Sitemaps)

	v, err = Evaluate(content, "Googlebot", "private")
	require.NoError(t, err)
	assert.False(t, v.Allowed)
	assert.Equal(t, "/private", v.Path)

	v, err = Evaluate(content, "", "/anything")
	require.NoError(t, err)
	assert.Equal(t, "*", v.Agent)
	assert.False(t, v.Allowed)
}

func TestEvaluateEmptyAllowsAll(t *testing.T) {
	t.Parallel()

	v, err := Evaluate("", "bot", "/x")
	require.NoError(t, err)
	assert.True(t, v.Allowed)
}
