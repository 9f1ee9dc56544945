package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/lighthouse-check/internal/domain"
)

// Merger folds parsed reports into one Report per URL.
// URLs come back in the order they were first added.
//
// When a URL repeats, each shared category is replaced by the mean of the stored
// value and the incoming one. With three or more runs this is a pairwise average,
// so the latest run always weighs 50%. Categories the stored report lacks are appended.
type Merger struct {
	index   map[string]int
	reports []domain.Report
}

// NewMerger creates an empty Merger.
func NewMerger() *Merger {
	return &Merger{index: make(map[string]int)}
}

// Add merges one parsed report.
func (m *Merger) Add(report domain.Report) {
	pos, ok := m.index[report.URL]
	if !ok {
		scores := make([]domain.Score, len(report.Scores))
		copy(scores, report.Scores)
		m.index[report.URL] = len(m.reports)
		m.reports = append(m.reports, domain.Report{URL: report.URL, Scores: scores})
		return
	}

	existing := &m.reports[pos]
	for _, incoming := range report.Scores {
		i := findScore(existing.Scores, incoming.Name)
		if i < 0 {
			existing.Scores = append(existing.Scores, incoming)
			continue
		}
		existing.Scores[i] = domain.Score{
			Name:  incoming.Name,
			Score: pairwiseMean(existing.Scores[i].Score, incoming.Score),
		}
	}
}

// Len returns the number of distinct URLs seen so far.
func (m *Merger) Len() int {
	return len(m.reports)
}

// Reports returns the merged reports in first-seen URL order.
func (m *Merger) Reports() []domain.Report {
	out := make([]domain.Report, len(m.reports))
	copy(out, m.reports)
	return out
}

// MergeReports is a convenience wrapper that merges reports in order.
func MergeReports(reports []domain.Report) []domain.Report {
	m := NewMerger()
	for _, r := range reports {
		m.Add(r)
	}
	return m.Reports()
}

func findScore(scores []domain.Score, name string) int {
	for i, s := range scores {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func pairwiseMean(current, incoming float64) float64 {
	// Mean only fails on empty input.
	mean, _ := stats.Mean([]float64{current, incoming})
	return mean
}
