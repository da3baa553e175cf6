// Package bailii scrapes case-law search results from the British and
// Irish Legal Information Institute. BAILII has no JSON API; the public
// search interface returns HTML, so parsing is deliberately tolerant.
package bailii

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://www.bailii.org"
	defaultSearchURL = "https://www.bailii.org/cgi-bin/lucy_search_1.cgi"
	userAgent        = "uk-osint-nexus/1.0 (research tool)"
)

// Client searches BAILII for case law.
type Client interface {
	Search(ctx context.Context, query string, maxResults int) ([]Case, error)
}

// Case is a scraped search hit.
type Case struct {
	CaseID          string
	CaseName        string
	NeutralCitation string
	Court           string
	Parties         []string
	FullTextURL     string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the site base URL (useful in tests).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimSuffix(u, "/")
		c.searchURL = c.baseURL + "/cgi-bin/lucy_search_1.cgi"
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimiter throttles outbound requests. BAILII asks scrapers to
// stay around one request per second.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) { c.limiter = l }
}

type httpClient struct {
	baseURL   string
	searchURL string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a BAILII scraper client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		searchURL: defaultSearchURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var (
	anchorRe   = regexp.MustCompile(`(?is)<a\s+[^>]*href="([^"]+)"[^>]*>(.*?)</a>`)
	tagRe      = regexp.MustCompile(`(?s)<[^>]+>`)
	yearPathRe = regexp.MustCompile(`/\d{4}/`)
	citationRe = regexp.MustCompile(`\[(\d{4})\]\s+([A-Z]+(?:\s+[A-Za-z]+)?)\s+(\d+)`)
	leadCiteRe = regexp.MustCompile(`^\[\d{4}\]\s+[A-Z]+\s+\d+\s*[-:]\s*`)
	partiesRe  = regexp.MustCompile(`^(.+?)\s+v\.?\s+(.+)$`)
)

// citationCourts maps citation abbreviations to court names.
var citationCourts = map[string]string{
	"UKSC": "UK Supreme Court",
	"UKHL": "UK House of Lords",
	"EWCA": "England and Wales Court of Appeal",
	"EWHC": "England and Wales High Court",
	"UKUT": "UK Upper Tribunal",
}

func (c *httpClient) Search(ctx context.Context, query string, maxResults int) ([]Case, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "bailii: rate limit wait")
		}
	}

	params := url.Values{
		"method":    {"boolean"},
		"query":     {query},
		"mask_path": {""},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "bailii: build request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "bailii: search")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("bailii: search: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, eris.Wrap(err, "bailii: read response")
	}

	cases := parseSearchResults(string(body), c.baseURL)
	if maxResults > 0 && len(cases) > maxResults {
		cases = cases[:maxResults]
	}
	return cases, nil
}

// parseSearchResults extracts case links from a search results page.
// Only anchors whose path contains a year segment and a recognizable
// jurisdiction are considered case documents.
func parseSearchResults(html, baseURL string) []Case {
	var cases []Case
	seen := make(map[string]struct{})

	for _, m := range anchorRe.FindAllStringSubmatch(html, -1) {
		href, inner := m[1], m[2]
		if !yearPathRe.MatchString(href) {
			continue
		}
		lower := strings.ToLower(href)
		if !strings.Contains(lower, "uk") && !strings.Contains(lower, "ew") &&
			!strings.Contains(lower, "scot") && !strings.Contains(lower, "ni") {
			continue
		}

		title := strings.TrimSpace(tagRe.ReplaceAllString(inner, ""))
		if len(title) < 5 {
			continue
		}
		switch strings.ToLower(title) {
		case "next", "previous", "home", "search":
			continue
		}

		fullURL := href
		if strings.HasPrefix(href, "/") {
			fullURL = baseURL + href
		}
		if _, ok := seen[fullURL]; ok {
			continue
		}
		seen[fullURL] = struct{}{}

		cases = append(cases, Case{
			CaseID:          href,
			CaseName:        parseCaseName(title),
			NeutralCitation: parseNeutralCitation(title),
			Court:           extractCourt(title),
			Parties:         parseParties(parseCaseName(title)),
			FullTextURL:     fullURL,
		})
	}

	return cases
}

// parseNeutralCitation extracts a neutral citation such as
// "[2023] EWCA Civ 123" from the title text.
func parseNeutralCitation(text string) string {
	if m := citationRe.FindString(text); m != "" {
		return m
	}
	return ""
}

// parseCaseName strips a leading citation and "Re"/"In the matter of"
// prefixes from a result title.
func parseCaseName(title string) string {
	title = leadCiteRe.ReplaceAllString(title, "")
	for _, prefix := range []string{"Re ", "re ", "In the matter of ", "in the matter of "} {
		if strings.HasPrefix(title, prefix) {
			title = title[len(prefix):]
			break
		}
	}
	return strings.TrimSpace(title)
}

// parseParties splits "A v B" style case names into party names. The
// citation tail, when present, is cut from the second party.
func parseParties(caseName string) []string {
	name := caseName
	if i := strings.Index(name, "["); i > 0 {
		name = strings.TrimSpace(name[:i])
	}
	m := partiesRe.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	return []string{strings.TrimSpace(m[1]), strings.TrimSpace(m[2])}
}

// extractCourt maps a citation abbreviation in the title to a court name.
func extractCourt(text string) string {
	for abbr, court := range citationCourts {
		if strings.Contains(text, abbr) {
			return court
		}
	}
	return ""
}
