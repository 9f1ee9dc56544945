// Package usecase contains the business logic of the application.
package usecase

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/naka-gawa/lighthouse-check/internal/domain"
)

// lighthouseDocument picks the two fields of a Lighthouse result we care about.
// Both stay raw so that an unexpected type never fails the whole document.
type lighthouseDocument struct {
	FinalURL   json.RawMessage `json:"finalUrl"`
	Categories json.RawMessage `json:"categories"`
}

type lighthouseCategory struct {
	Title string   `json:"title"`
	Score *float64 `json:"score"`
}

// ParseReport normalizes one Lighthouse document into a Report.
// The second return value is false when the document is not a Lighthouse report
// (no categories object). data must already be valid JSON.
//
// Scores are scaled by 100 and rounded half away from zero. A null score counts as 0.
func ParseReport(data []byte) (domain.Report, bool) {
	if !isObject(data) {
		return domain.Report{}, false
	}
	var doc lighthouseDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Report{}, false
	}
	if !isObject(doc.Categories) {
		return domain.Report{}, false
	}

	scores, ok := parseCategories(doc.Categories)
	if !ok {
		return domain.Report{}, false
	}

	var url string
	// Non-string finalUrl values leave url empty.
	_ = json.Unmarshal(doc.FinalURL, &url)

	return domain.Report{URL: url, Scores: scores}, true
}

// parseCategories walks the categories object token by token so that the
// resulting scores keep the key order of the source document.
func parseCategories(raw json.RawMessage) ([]domain.Score, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, false
	}

	scores := make([]domain.Score, 0)
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		if !isObject(value) {
			continue
		}
		var category lighthouseCategory
		if err := json.Unmarshal(value, &category); err != nil {
			continue
		}
		var fraction float64
		if category.Score != nil {
			fraction = *category.Score
		}
		scores = append(scores, domain.Score{
			Name:  category.Title,
			Score: math.Round(fraction * 100),
		})
	}
	return scores, true
}

func isObject(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
