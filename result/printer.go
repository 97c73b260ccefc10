package result

import (
	"fmt"
	"io"
)

// PrintResults writes crawled page details and a summary to w.
func PrintResults(w io.Writer, res *Result) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	if len(res.Pages) == 0 {
		writef("No pages crawled.\n")
	} else {
		writef("Pages:\n")
		for i, page := range res.Pages {
			writef("  Title: %s\n", page.Title)
			writef("  URL: %s\n", pageURL(page))
			writef("  Links: %d\n", len(page.Links))
			if i < len(res.Pages)-1 {
				writef("\n")
			}
		}
	}

	for _, cat := range CategoryOrder {
		if n := res.Stats.Skipped[cat]; n > 0 {
			writef("Skipped %d: %s\n", n, FormatCategory(cat))
		}
	}
	writef("Crawled %d pages, visited %d URLs\n", len(res.Pages), res.Stats.Visited)
}
