package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lukemcguire/docscrawl/urlutil"
)

// untitled is the title used when a page has neither <h1> nor <title>.
const untitled = "unnamed"

// ExtractPage parses an HTML document and returns its title and the links
// that resolve, against baseURL, to pages on host.
// Links that fail to parse or point elsewhere are dropped individually.
func ExtractPage(body string, baseURL *url.URL, host string) (string, []*url.URL, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("parse html: %w", err)
	}
	return extractTitle(doc), extractLinks(doc, baseURL, host), nil
}

// extractTitle returns the text of the first <h1>, else the first <title>.
func extractTitle(doc *goquery.Document) string {
	for _, selector := range []string{"h1", "title"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel.Text()
		}
	}
	return untitled
}

func extractLinks(doc *goquery.Document, baseURL *url.URL, host string) []*url.URL {
	seen := make(map[string]bool)
	links := make([]*url.URL, 0)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")

		resolved, err := urlutil.ResolveReference(baseURL, href)
		if err != nil {
			return
		}
		if !urlutil.IsHTTPScheme(resolved) || !urlutil.IsSameHost(resolved, host) {
			return
		}

		key := resolved.String()
		if seen[key] {
			return
		}
		seen[key] = true
		links = append(links, resolved)
	})

	return links
}
