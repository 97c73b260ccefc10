package crawler

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// maxRobotsSize caps how much of a robots.txt body is read.
const maxRobotsSize = 512 * 1024

// RuleKind identifies a robots.txt directive.
type RuleKind int

const (
	RuleAllow RuleKind = iota
	RuleDisallow
	RuleCrawlDelay
)

func (k RuleKind) String() string {
	switch k {
	case RuleAllow:
		return "Allow"
	case RuleDisallow:
		return "Disallow"
	case RuleCrawlDelay:
		return "Crawl-delay"
	default:
		return "Unknown"
	}
}

// Rule is one directive that applies to this crawler.
type Rule struct {
	Kind    RuleKind
	Pattern string        // Allow/Disallow path pattern
	Delay   time.Duration // Crawl-delay value

	re *regexp.Regexp // nil when Pattern did not compile
}

// RobotsTxt is the robots.txt policy for one origin. It is immutable once built.
type RobotsTxt struct {
	rules    []Rule
	delay    time.Duration
	hasDelay bool
}

// FetchRobots downloads {scheme}://{host}/robots.txt for start and parses it
// for userAgent. The returned policy is never nil: any request failure or
// non-2xx status yields an empty, allow-all policy. The error is informational
// only and explains why the policy is empty.
func FetchRobots(ctx context.Context, client *http.Client, start *url.URL, userAgent string) (*RobotsTxt, error) {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", start.Scheme, start.Host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return ParseRobots("", userAgent), fmt.Errorf("create robots.txt request for host %s: %w", start.Host, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return ParseRobots("", userAgent), fmt.Errorf("fetch robots.txt for host %s: %w", start.Host, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ParseRobots("", userAgent), fmt.Errorf("fetch robots.txt for host %s: status %d", start.Host, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return ParseRobots("", userAgent), fmt.Errorf("read robots.txt body for host %s: %w", start.Host, err)
	}

	return ParseRobots(string(body), userAgent), nil
}

// ParseRobots parses a robots.txt document and keeps the rules addressed to
// the wildcard agent followed by the rules addressed to userAgent's product
// token.
//
// Consecutive User-agent lines form one group. Any other directive closes the
// group, so the next User-agent line starts a new one. Unparsable Crawl-delay
// values and rules with empty values are skipped.
func ParseRobots(body, userAgent string) *RobotsTxt {
	grouped := make(map[string][]Rule)
	var agents []string
	collectingAgents := false

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			collectingAgents = false
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = firstField(value)

		switch key {
		case "user-agent":
			if !collectingAgents {
				agents = nil
			}
			if value != "" {
				agents = append(agents, strings.ToLower(value))
				collectingAgents = true
			}
		case "allow", "disallow":
			collectingAgents = false
			if value == "" {
				continue
			}
			kind := RuleAllow
			if key == "disallow" {
				kind = RuleDisallow
			}
			rule := newPatternRule(kind, value)
			for _, agent := range agents {
				grouped[agent] = append(grouped[agent], rule)
			}
		case "crawl-delay":
			collectingAgents = false
			delay, ok := parseCrawlDelay(value)
			if !ok {
				continue
			}
			for _, agent := range agents {
				grouped[agent] = append(grouped[agent], Rule{Kind: RuleCrawlDelay, Delay: delay})
			}
		default:
			collectingAgents = false
		}
	}

	rules := append([]Rule(nil), grouped["*"]...)
	if token := productToken(userAgent); token != "*" {
		rules = append(rules, grouped[token]...)
	}

	robots := &RobotsTxt{rules: rules}
	for _, rule := range rules {
		if rule.Kind == RuleCrawlDelay {
			robots.delay = rule.Delay
			robots.hasDelay = true
			break
		}
	}
	return robots
}

// Allowed reports whether the path of u may be fetched. Rules are applied in
// order and every matching Allow or Disallow overwrites the verdict, so the
// last matching rule wins. The query string is not considered.
func (r *RobotsTxt) Allowed(u *url.URL) bool {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	allowed := true
	for _, rule := range r.rules {
		if rule.re == nil || !rule.re.MatchString(path) {
			continue
		}
		switch rule.Kind {
		case RuleAllow:
			allowed = true
		case RuleDisallow:
			allowed = false
		}
	}
	return allowed
}

// Delay returns the first Crawl-delay addressed to this crawler.
func (r *RobotsTxt) Delay() (time.Duration, bool) {
	return r.delay, r.hasDelay
}

// Rules returns a copy of the applicable rules in evaluation order.
func (r *RobotsTxt) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// PatternToRegexp converts a robots.txt path pattern to an anchored regular
// expression. The pattern is matched literally except that "*" matches any
// sequence and a trailing "$" anchors the end of the path.
func PatternToRegexp(pattern string) string {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\*`, ".*")
	if strings.HasSuffix(quoted, `\$`) {
		quoted = strings.TrimSuffix(quoted, `\$`) + "$"
	}
	return "^" + quoted
}

func newPatternRule(kind RuleKind, pattern string) Rule {
	rule := Rule{Kind: kind, Pattern: pattern}
	if re, err := regexp.Compile(PatternToRegexp(pattern)); err == nil {
		rule.re = re
	}
	return rule
}

// parseCrawlDelay reads a delay in seconds, integer or fractional.
func parseCrawlDelay(value string) (time.Duration, bool) {
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

// firstField returns the first whitespace-separated token of s.
func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// productToken extracts the lowercase agent name robots.txt groups are keyed
// by, so "MagicDocsBot/1.0 (+https://...)" matches "User-agent: magicdocsbot".
func productToken(userAgent string) string {
	token := firstField(userAgent)
	if name, _, ok := strings.Cut(token, "/"); ok {
		token = name
	}
	return strings.ToLower(token)
}
