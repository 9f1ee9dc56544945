package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/naka-gawa/lighthouse-check/internal/domain"
)

const perfectScoreMarker = "🎉"

// ComposeTitle returns the check output title for the first report.
func ComposeTitle(first domain.Report) string {
	return "Lighthouse Scores for " + first.URL
}

// ComposeSummary renders the merged reports as Markdown.
// The first report is listed without a heading; every other report gets its own
// section headed by a link to its URL. Callers must pass at least the first report.
func ComposeSummary(first domain.Report, others []domain.Report) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(scoreLines(first.Scores))
	b.WriteString("\n\n")

	sections := make([]string, 0, len(others))
	for _, r := range others {
		sections = append(sections, fmt.Sprintf("\n## Lighthouse Scores for [%s](%s)\n%s\n", r.URL, r.URL, scoreLines(r.Scores)))
	}
	b.WriteString(strings.Join(sections, "\n"))
	b.WriteString("\n")

	return strings.TrimSpace(b.String())
}

func scoreLines(scores []domain.Score) string {
	lines := make([]string, 0, len(scores))
	for _, s := range scores {
		marker := ""
		if s.Score == 100 {
			marker = perfectScoreMarker
		}
		lines = append(lines, fmt.Sprintf("* %s: **%s**/100 %s", s.Name, formatScore(s.Score), marker))
	}
	return strings.Join(lines, "\n")
}

// formatScore prints the shortest decimal form: 100, 92.5.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
