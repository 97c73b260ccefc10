package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// pageRecord is the serialized form of a PageResult.
type pageRecord struct {
	URL   string   `json:"url"`
	Title string   `json:"title"`
	Links []string `json:"links"`
	Bytes int      `json:"bytes"`
}

func toRecord(page PageResult) pageRecord {
	links := make([]string, 0, len(page.Links))
	for _, link := range page.Links {
		links = append(links, link.String())
	}
	return pageRecord{
		URL:   pageURL(page),
		Title: page.Title,
		Links: links,
		Bytes: len(page.HTML),
	}
}

func pageURL(page PageResult) string {
	if page.URL == nil {
		return ""
	}
	return page.URL.String()
}

// WriteJSON writes the crawled pages as a formatted JSON array to the writer.
// Page bodies are omitted; only their size is reported.
func WriteJSON(w io.Writer, pages []PageResult) error {
	records := make([]pageRecord, 0, len(pages))
	for _, page := range pages {
		records = append(records, toRecord(page))
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes the crawled pages as CSV to the writer.
// Always includes a header row, even if no page was crawled.
// Column order: url, title, links, bytes
func WriteCSV(w io.Writer, pages []PageResult) error {
	cw := csv.NewWriter(w)

	header := []string{"url", "title", "links", "bytes"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, page := range pages {
		record := []string{
			pageURL(page),
			page.Title,
			strconv.Itoa(len(page.Links)),
			strconv.Itoa(len(page.HTML)),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record for %s: %w", pageURL(page), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// WriteMarkdown writes a crawl report with a page table and skip summary.
func WriteMarkdown(w io.Writer, res *Result) error {
	md := markdown.NewMarkdown(w)

	md.H1("Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Pages", strconv.Itoa(len(res.Pages))},
			{"Visited", strconv.Itoa(res.Stats.Visited)},
			{"Skipped", strconv.Itoa(res.Stats.SkippedTotal())},
			{"Denied by robots.txt", strconv.Itoa(res.Stats.RobotsDenied)},
			{"Outside depth", strconv.Itoa(res.Stats.DepthExcluded)},
			{"Duration", res.Stats.Duration.Round(1_000_000).String()},
		},
	})
	md.PlainText("")

	md.H2("Pages")
	md.PlainText("")
	if len(res.Pages) == 0 {
		md.PlainText("No pages crawled.")
	} else {
		rows := make([][]string, 0, len(res.Pages))
		for _, page := range res.Pages {
			rows = append(rows, []string{page.Title, pageURL(page), strconv.Itoa(len(page.Links))})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Title", "URL", "Links"},
			Rows:   rows,
		})
	}
	md.PlainText("")

	if res.Stats.SkippedTotal() > 0 {
		md.H2("Skipped Pages")
		md.PlainText("")
		rows := make([][]string, 0, len(res.Stats.Skipped))
		for _, cat := range CategoryOrder {
			if n := res.Stats.Skipped[cat]; n > 0 {
				rows = append(rows, []string{FormatCategory(cat), strconv.Itoa(n)})
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Reason", "Count"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("write markdown output: %w", err)
	}
	return nil
}
