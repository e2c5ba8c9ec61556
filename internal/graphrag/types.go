package graphrag

import "encoding/json"

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Status             string `json:"status"` // "ready" or "not_initialized"
	Message            string `json:"message"`
	DocumentsProcessed int    `json:"documents_processed"`
}

// Ready reports whether the backend has an initialized query chain.
func (s *StatusResponse) Ready() bool { return s.Status == "ready" }

// Document describes one processed document in the backend knowledge base.
type Document struct {
	Filename    string `json:"filename"`
	Path        string `json:"path"`
	Chunks      int    `json:"chunks"`
	ProcessedAt string `json:"processed_at"`
}

// DocumentList is returned by GET /api/documents.
type DocumentList struct {
	Status    string     `json:"status"`
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
}

// FileType identifies the payload encoding of an add_document request.
type FileType string

const (
	FileTypeText FileType = "text"
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
)

// AddDocumentRequest is the body of POST /api/add_document. For pdf and
// docx the content is base64, optionally in data-URL form; the backend
// splits on the first comma.
type AddDocumentRequest struct {
	Content  string   `json:"content"`
	Filename string   `json:"filename"`
	FileType FileType `json:"file_type"`
}

// AddDocumentResponse is returned by POST /api/add_document.
type AddDocumentResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// InitializeResponse is returned by POST /api/initialize.
type InitializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Answer is returned by POST /api/query.
type Answer struct {
	Status    string `json:"status"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// ReviewPhase is one completed phase of the backend review pipeline.
// Phase-specific fields (research questions, themes, word counts) arrive
// in Details and are rendered as-is.
type ReviewPhase struct {
	Phase   string                 `json:"phase"`
	Status  string                 `json:"status"`
	Details map[string]interface{} `json:"-"`
}

// UnmarshalJSON keeps the phase name and status and collects every other
// field into Details, since each phase reports a different shape.
func (p *ReviewPhase) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["phase"].(string); ok {
		p.Phase = v
	}
	if v, ok := raw["status"].(string); ok {
		p.Status = v
	}
	delete(raw, "phase")
	delete(raw, "status")
	p.Details = raw
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON.
func (p ReviewPhase) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.Details)+2)
	for k, v := range p.Details {
		out[k] = v
	}
	out["phase"] = p.Phase
	out["status"] = p.Status
	return json.Marshal(out)
}

// ReviewProcess is the full result of POST /api/generate_enhanced_review:
// the six academic phases plus the compiled review document.
type ReviewProcess struct {
	Topic       string                 `json:"topic"`
	StartTime   string                 `json:"start_time"`
	Phases      []ReviewPhase          `json:"phases"`
	FinalReview string                 `json:"final_review"`
	Metadata    map[string]interface{} `json:"metadata"`
	Error       string                 `json:"error,omitempty"`
}

// ReviewType identifies the literature review methodology requested
// from the backend.
type ReviewType string

const (
	ReviewSystematic ReviewType = "systematic"
	ReviewNarrative  ReviewType = "narrative"
	ReviewScoping    ReviewType = "scoping"
)

// ValidReviewTypes lists the methodologies the backend accepts.
var ValidReviewTypes = []ReviewType{
	ReviewSystematic, ReviewNarrative, ReviewScoping,
}

// RefinementType selects the focus of a section refinement.
type RefinementType string

const (
	RefineAnalysis  RefinementType = "improve_analysis"
	RefineSynthesis RefinementType = "enhance_synthesis"
	RefineCritique  RefinementType = "strengthen_critique"
	RefineWriting   RefinementType = "improve_writing"
)

// ValidRefinementTypes lists the refinement focuses the backend accepts.
var ValidRefinementTypes = []RefinementType{
	RefineAnalysis, RefineSynthesis, RefineCritique, RefineWriting,
}

// RefineRequest is the body of POST /api/refine_review_section.
type RefineRequest struct {
	SectionContent string         `json:"section_content"`
	RefinementType RefinementType `json:"refinement_type"`
	Feedback       string         `json:"feedback,omitempty"`
}

// RefineResponse is returned by POST /api/refine_review_section.
type RefineResponse struct {
	Status         string   `json:"status"`
	RefinedSection string   `json:"refined_section"`
	Improvements   []string `json:"improvements"`
}
