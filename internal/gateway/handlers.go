package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nselim/graphdesk/internal/assist"
	"github.com/nselim/graphdesk/internal/graphrag"
	"github.com/nselim/graphdesk/internal/ingest"
	"github.com/nselim/graphdesk/internal/review"
	"github.com/nselim/graphdesk/internal/tracker"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"status": "error", "message": err.Error()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.backend.Status(r.Context())
	countBackendCall("status", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.backend.Documents(r.Context())
	countBackendCall("documents", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ForceReprocess bool `json:"force_reprocess"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req) // absent body means defaults
	}

	resp, err := s.backend.Initialize(r.Context(), req.ForceReprocess)
	countBackendCall("initialize", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// uploadRequest carries one document from the browser. Text arrives
// verbatim; pdf and docx arrive base64-encoded, data-URL form included.
type uploadRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	FileType string `json:"file_type,omitempty"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, errors.New("content is required"))
		return
	}

	var payload graphrag.AddDocumentRequest
	switch graphrag.FileType(req.FileType) {
	case graphrag.FileTypePDF, graphrag.FileTypeDOCX:
		payload = graphrag.AddDocumentRequest{
			Content:  req.Content,
			Filename: req.Filename,
			FileType: graphrag.FileType(req.FileType),
		}
	default:
		payload = ingest.BuildTextPayload(req.Filename, req.Content)
	}

	resp, err := s.backend.AddDocument(r.Context(), payload)
	countBackendCall("add_document", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	rec := tracker.Record{
		Path:     payload.Filename,
		Filename: payload.Filename,
		SHA256:   tracker.HashBytes([]byte(req.Content)),
		Size:     int64(len(req.Content)),
		FileType: string(payload.FileType),
	}
	if err := s.tracker.MarkUploaded(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	// Only verbatim text can feed the local similarity index.
	if s.index != nil && payload.FileType == graphrag.FileTypeText {
		if err := s.index.AddDocument(r.Context(), payload.Filename, req.Content); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUploads(w http.ResponseWriter, r *http.Request) {
	records, err := s.tracker.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []tracker.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"uploads": records,
		"total":   len(records),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	answer, err := s.backend.Query(r.Context(), req.Question)
	countBackendCall("query", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleGenerateReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic      string `json:"topic"`
		ReviewType string `json:"review_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	proc, err := s.backend.GenerateReview(r.Context(), req.Topic, req.ReviewType)
	countBackendCall("generate_review", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	draft, err := s.drafts.SaveGenerated(r.Context(), proc, req.ReviewType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleRefineReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DraftID        string `json:"draft_id"`
		RefinementType string `json:"refinement_type"`
		Feedback       string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	source, err := s.lookupDraft(r.Context(), req.DraftID)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp, err := s.backend.RefineSection(r.Context(), graphrag.RefineRequest{
		SectionContent: source.Content,
		RefinementType: graphrag.RefinementType(req.RefinementType),
		Feedback:       req.Feedback,
	})
	countBackendCall("refine_section", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	draft, err := s.drafts.SaveRefined(r.Context(), source, req.RefinementType, resp.RefinedSection)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// lookupDraft resolves an empty ID to the latest draft.
func (s *Server) lookupDraft(ctx context.Context, id string) (*review.Draft, error) {
	if id == "" {
		return s.drafts.Latest(ctx)
	}
	return s.drafts.Get(ctx, id)
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := s.drafts.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if drafts == nil {
		drafts = []review.Draft{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"drafts": drafts,
		"total":  len(drafts),
	})
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.drafts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleExportDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.drafts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	page, err := review.ExportHTML(draft)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("review-draft-%d.html", draft.Ordinal)))
	w.Write(page)
}

func (s *Server) handleCritique(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	crit, err := s.assistant.CritiqueText(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, crit)
}

func (s *Server) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		writeError(w, http.StatusServiceUnavailable,
			errors.New("similarity check unavailable: no embedding model configured"))
		return
	}

	var req struct {
		Text  string `json:"text"`
		Limit int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	report, err := assist.CheckSimilarity(r.Context(), s.index, req.Text, req.Limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
