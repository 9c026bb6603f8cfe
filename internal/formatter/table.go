// Package formatter renders parsed articles as markdown summary tables.
package formatter

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"pubxml/internal/models"
)

const maxTitleWidth = 48

var header = []string{"UID", "Title", "Authors", "Published", "Sections"}

// SummaryTable renders one markdown table row per article.
func SummaryTable(articles []*models.Article) string {
	table := [][]string{header}

	for _, article := range articles {
		table = append(table, row(article))
	}

	return renderTable(table)
}

func row(a *models.Article) []string {
	published := ""
	if a.Published != nil {
		published = a.Published.Format("2006-01-02")
	}

	return []string{
		shortUID(a.UID),
		runewidth.Truncate(a.Title, maxTitleWidth, "…"),
		firstAuthor(a.Authors),
		published,
		strconv.Itoa(len(a.Sections)),
	}
}

func shortUID(uid string) string {
	if len(uid) > 12 {
		return uid[:12]
	}

	return uid
}

func firstAuthor(authors string) string {
	if authors == "" {
		return ""
	}

	parts := strings.SplitN(authors, "; ", 2)
	if len(parts) == 2 {
		return parts[0] + " et al."
	}

	return parts[0]
}

// renderTable pads cells by display width so multibyte text lines up.
func renderTable(table [][]string) string {
	colCount := len(table[0])

	colWidths := make([]int, colCount)
	for _, r := range table {
		for i := 0; i < len(r) && i < colCount; i++ {
			if width := runewidth.StringWidth(r[i]); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Separator needs at least three dashes.
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var lines []string

	lines = append(lines, renderRow(table[0], colWidths))
	lines = append(lines, renderSeparator(colWidths))

	for _, r := range table[1:] {
		lines = append(lines, renderRow(r, colWidths))
	}

	return strings.Join(lines, "\n") + "\n"
}

func renderRow(cells []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for i, width := range colWidths {
		content := ""
		if i < len(cells) {
			content = cells[i]
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func renderSeparator(colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for _, width := range colWidths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", width))
		sb.WriteString(" |")
	}

	return sb.String()
}
