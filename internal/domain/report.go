// Package domain contains the core data structures and domain logic for the application.
package domain

// RawReport is one undecoded Lighthouse JSON document as read from disk.
// Its shape is untrusted until the parser has looked at it.
type RawReport struct {
	Path string
	Data []byte
}

// Score is a single named category score scaled to 0-100.
// After a merge the value may carry a fractional part.
type Score struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Report holds the merged scores for a single URL.
// It is the core domain entity of this application.
type Report struct {
	URL    string  `json:"url"`
	Scores []Score `json:"scores"`
}
