package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/nselim/graphdesk/internal/simindex"
)

// SimilarityReport lists the uploaded passages closest to a draft.
type SimilarityReport struct {
	Matches []simindex.Match `json:"matches"`
	// Flagged is true when the top match is close enough that the draft
	// likely restates an uploaded source.
	Flagged bool `json:"flagged"`
}

// flagThreshold is the cosine similarity above which a passage is
// considered a likely restatement rather than an independent phrasing.
const flagThreshold = 0.85

// CheckSimilarity compares draft text against the locally indexed uploads
// and returns the closest passages. limit caps the number of matches.
func CheckSimilarity(ctx context.Context, ix *simindex.Index, text string, limit int) (*SimilarityReport, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("similarity: text is empty")
	}
	if limit <= 0 {
		limit = 5
	}

	matches, err := ix.Search(ctx, text, limit)
	if err != nil {
		return nil, err
	}

	report := &SimilarityReport{Matches: matches}
	if len(matches) > 0 && matches[0].Similarity >= flagThreshold {
		report.Flagged = true
	}
	return report, nil
}
