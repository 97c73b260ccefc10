package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lukemcguire/docscrawl/result"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	successStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
	cellStyle      = lipgloss.NewStyle()
	linkCountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// linksColumn is the index of the link count column in the summary table.
const linksColumn = 2

// RenderSummary produces a Lip Gloss styled summary of crawl results.
// A positive width bounds the page table.
func RenderSummary(res *result.Result, width int) string {
	if res == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder

	if len(res.Pages) == 0 {
		builder.WriteString(successStyle.Render("No pages crawled."))
		builder.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(res.Pages))
		for _, page := range res.Pages {
			pageURL := ""
			if page.URL != nil {
				pageURL = page.URL.String()
			}
			rows = append(rows, []string{page.Title, pageURL, strconv.Itoa(len(page.Links))})
		}

		pageTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("Title", "URL", "Links").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == linksColumn {
					return linkCountStyle
				}
				return cellStyle
			}).
			Rows(rows...)
		if width > 0 {
			pageTable = pageTable.Width(width)
		}

		builder.WriteString(pageTable.Render())
		builder.WriteString("\n")
	}

	for _, cat := range result.CategoryOrder {
		if n := res.Stats.Skipped[cat]; n > 0 {
			builder.WriteString(categoryStyle.Render(fmt.Sprintf("Skipped %d: %s", n, result.FormatCategory(cat))))
			builder.WriteString("\n")
		}
	}
	if res.Stats.RobotsDenied > 0 {
		builder.WriteString(dimStyle.Render(fmt.Sprintf("Disallowed by robots.txt: %d", res.Stats.RobotsDenied)))
		builder.WriteString("\n")
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Crawled %d pages, visited %d URLs (%s)",
		len(res.Pages),
		res.Stats.Visited,
		res.Stats.Duration.Round(time.Millisecond),
	)))
	builder.WriteString("\n")

	return builder.String()
}
