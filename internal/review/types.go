package review

import "time"

// Draft is one generated or refined literature review. Ordinal 0 is the
// first draft produced; refinements append with increasing ordinals.
type Draft struct {
	ID             string    `json:"id"`
	Topic          string    `json:"topic"`
	ReviewType     string    `json:"review_type"`
	Ordinal        int       `json:"ordinal"`
	Content        string    `json:"content"`
	PhaseLog       []Phase   `json:"phase_log,omitempty"`
	SourceDraft    string    `json:"source_draft,omitempty"`    // draft ID this was refined from
	RefinementType string    `json:"refinement_type,omitempty"` // set on refined drafts
	CreatedAt      time.Time `json:"created_at"`
}

// Phase is a stored snapshot of one backend review phase.
type Phase struct {
	Phase   string                 `json:"phase"`
	Status  string                 `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// WordCount counts whitespace-separated words in the draft content.
func (d *Draft) WordCount() int {
	inWord := false
	count := 0
	for _, r := range d.Content {
		switch r {
		case ' ', '\t', '\n', '\r':
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}
