package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/nselim/graphdesk/internal/assist"
	"github.com/nselim/graphdesk/internal/db"
	"github.com/nselim/graphdesk/internal/graphrag"
	"github.com/nselim/graphdesk/internal/review"
)

// newStubBackend serves a minimal GraphRAG API for handler tests.
func newStubBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ready", "message": "ok", "documents_processed": 3,
		})
	})
	mux.HandleFunc("GET /api/documents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"documents": []map[string]interface{}{
				{"filename": "paper.pdf", "path": "files/paper.pdf", "chunks": 12},
			},
			"total": 1,
		})
	})
	mux.HandleFunc("POST /api/add_document", func(w http.ResponseWriter, r *http.Request) {
		var req graphrag.AddDocumentRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "success", "message": "added", "filename": req.Filename,
		})
	})
	mux.HandleFunc("POST /api/query", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Question string `json:"question"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "success", "question": req.Question, "answer": "stub answer",
		})
	})
	mux.HandleFunc("POST /api/generate_enhanced_review", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"topic": "test topic",
			"phases": []map[string]interface{}{
				{"phase": "scoping", "status": "completed"},
				{"phase": "writing", "status": "completed", "word_count": 42},
			},
			"final_review": "# Review\n\nGenerated body.",
		})
	})
	mux.HandleFunc("POST /api/refine_review_section", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":          "success",
			"refined_section": "Refined body.",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupTest(t *testing.T) (*Server, *db.DB) {
	t.Helper()

	backend := newStubBackend(t)
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	client := graphrag.NewClient(backend.URL, 0)
	assistant := assist.New(client)
	s := New(Config{Port: 0}, client, database, assistant, nil)
	return s, database
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStatusProxy(t *testing.T) {
	s, _ := setupTest(t)

	w := doJSON(t, s.Router(), http.MethodGet, "/api/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var st graphrag.StatusResponse
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if !st.Ready() || st.DocumentsProcessed != 3 {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestStatusBackendDown(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	client := graphrag.NewClient("http://127.0.0.1:1", 0)
	s := New(Config{}, client, database, assist.New(client), nil)

	w := doJSON(t, s.Router(), http.MethodGet, "/api/status", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestDocumentsProxy(t *testing.T) {
	s, _ := setupTest(t)

	w := doJSON(t, s.Router(), http.MethodGet, "/api/documents", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var list graphrag.DocumentList
	json.NewDecoder(w.Body).Decode(&list)
	if list.Total != 1 || list.Documents[0].Filename != "paper.pdf" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestUploadTextTracksDocument(t *testing.T) {
	s, _ := setupTest(t)

	w := doJSON(t, s.Router(), http.MethodPost, "/api/upload",
		`{"filename":"notes.txt","content":"some pasted text","file_type":"text"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s.Router(), http.MethodGet, "/api/uploads", "")
	var uploads struct {
		Total int `json:"total"`
	}
	json.NewDecoder(w.Body).Decode(&uploads)
	if uploads.Total != 1 {
		t.Errorf("expected 1 tracked upload, got %d", uploads.Total)
	}
}

func TestUploadEmptyContent(t *testing.T) {
	s, _ := setupTest(t)

	w := doJSON(t, s.Router(), http.MethodPost, "/api/upload",
		`{"filename":"empty.txt","content":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGenerateAndRefineReview(t *testing.T) {
	s, _ := setupTest(t)

	w := doJSON(t, s.Router(), http.MethodPost, "/api/review/generate",
		`{"topic":"test topic","review_type":"systematic"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("generate: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var first review.Draft
	json.NewDecoder(w.Body).Decode(&first)
	if first.Ordinal != 0 {
		t.Errorf("first draft ordinal = %d, want 0", first.Ordinal)
	}
	if len(first.PhaseLog) != 2 {
		t.Errorf("phase log length = %d, want 2", len(first.PhaseLog))
	}

	w = doJSON(t, s.Router(), http.MethodPost, "/api/review/refine",
		`{"refinement_type":"improve_writing"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("refine: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var refined review.Draft
	json.NewDecoder(w.Body).Decode(&refined)
	if refined.Ordinal != 1 {
		t.Errorf("refined ordinal = %d, want 1", refined.Ordinal)
	}
	if refined.SourceDraft != first.ID {
		t.Errorf("source draft = %q, want %q", refined.SourceDraft, first.ID)
	}
	if refined.Content != "Refined body." {
		t.Errorf("refined content = %q", refined.Content)
	}
}

func TestRefineWithoutDrafts(t *testing.T) {
	s, _ := setupTest(t)

	w := doJSON(t, s.Router(), http.MethodPost, "/api/review/refine",
		`{"refinement_type":"improve_writing"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestExportDraft(t *testing.T) {
	s, _ := setupTest(t)

	w := doJSON(t, s.Router(), http.MethodPost, "/api/review/generate",
		`{"topic":"test topic"}`)
	var draft review.Draft
	json.NewDecoder(w.Body).Decode(&draft)

	req := httptest.NewRequest(http.MethodGet, "/api/drafts/"+draft.ID+"/export", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Generated body.") {
		t.Error("export missing draft body")
	}
}

func TestCritiqueEndpoint(t *testing.T) {
	s, _ := setupTest(t)

	w := doJSON(t, s.Router(), http.MethodPost, "/api/assist/critique",
		`{"text":"This are a draft."}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var crit assist.Critique
	json.NewDecoder(w.Body).Decode(&crit)
	if crit.Text != "stub answer" {
		t.Errorf("critique text = %q", crit.Text)
	}
	if crit.Source != "graphrag" {
		t.Errorf("source = %q", crit.Source)
	}
}

func TestSimilarityUnavailableWithoutIndex(t *testing.T) {
	s, _ := setupTest(t)

	w := doJSON(t, s.Router(), http.MethodPost, "/api/assist/similarity",
		`{"text":"draft"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestChatPersistsSession(t *testing.T) {
	s, _ := setupTest(t)

	server := httptest.NewServer(s.Router())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(chatRequest{Type: "ask", Content: "what is in the KB?"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "response" || resp.SessionID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Content != "stub answer" {
		t.Errorf("answer = %q", resp.Content)
	}

	// History replays both turns of the session.
	if err := conn.WriteJSON(chatRequest{Type: "history", SessionID: resp.SessionID}); err != nil {
		t.Fatalf("write history: %v", err)
	}
	var hist chatResponse
	if err := conn.ReadJSON(&hist); err != nil {
		t.Fatalf("read history: %v", err)
	}
	if hist.Type != "history" || len(hist.Messages) != 2 {
		t.Fatalf("unexpected history: %+v", hist)
	}
	if hist.Messages[0].Role != "user" || hist.Messages[1].Role != "assistant" {
		t.Errorf("unexpected roles: %+v", hist.Messages)
	}
}

func TestChatEmptyContent(t *testing.T) {
	s, _ := setupTest(t)

	server := httptest.NewServer(s.Router())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(chatRequest{Type: "ask", Content: ""}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Content, "content is required") {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestServeIndex(t *testing.T) {
	s, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "GraphDesk") {
		t.Error("expected HTML to contain 'GraphDesk'")
	}
}

func TestHealthz(t *testing.T) {
	s, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := setupTest(t)

	// A counted request first, so the request counter has a sample to scrape.
	doJSON(t, s.Router(), http.MethodGet, "/api/status", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "graphdesk_requests_total") {
		t.Error("expected graphdesk metrics in scrape output")
	}
}
