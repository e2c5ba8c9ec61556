// Package gateway runs the local web gateway: a browser UI plus a JSON
// API that fronts the GraphRAG backend and the local stores.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nselim/graphdesk/internal/assist"
	"github.com/nselim/graphdesk/internal/db"
	"github.com/nselim/graphdesk/internal/graphrag"
	"github.com/nselim/graphdesk/internal/review"
	"github.com/nselim/graphdesk/internal/simindex"
	"github.com/nselim/graphdesk/internal/tracker"
)

// Config holds gateway configuration.
type Config struct {
	Port     int
	DataDir  string // directory holding the SQLite DB and similarity index
	AllowAll bool   // allow all CORS origins (dev mode)
}

// Server is the local gateway between the browser UI and the backend.
type Server struct {
	cfg        Config
	backend    *graphrag.Client
	tracker    *tracker.Tracker
	drafts     *review.Store
	chats      *ChatStore
	assistant  *assist.Assistant
	index      *simindex.Index // nil when no embedder is configured
	router     chi.Router
	httpServer *http.Server
}

// New creates a gateway server. The similarity index may be nil, in which
// case the similarity endpoint reports that the feature is unavailable.
func New(cfg Config, backend *graphrag.Client, database *db.DB, assistant *assist.Assistant, index *simindex.Index) *Server {
	s := &Server{
		cfg:       cfg,
		backend:   backend,
		tracker:   tracker.New(database),
		drafts:    review.NewStore(database),
		chats:     NewChatStore(database),
		assistant: assistant,
		index:     index,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)
	r.Use(middleware.Timeout(5 * time.Minute))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metricsHandler())

	r.Get("/", s.ServeIndex)

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/documents", s.handleDocuments)
	r.Post("/api/initialize", s.handleInitialize)
	r.Post("/api/upload", s.handleUpload)
	r.Get("/api/uploads", s.handleUploads)
	r.Post("/api/query", s.handleQuery)

	r.Post("/api/review/generate", s.handleGenerateReview)
	r.Post("/api/review/refine", s.handleRefineReview)
	r.Get("/api/drafts", s.handleListDrafts)
	r.Get("/api/drafts/{id}", s.handleGetDraft)
	r.Get("/api/drafts/{id}/export", s.handleExportDraft)

	r.Post("/api/assist/critique", s.handleCritique)
	r.Post("/api/assist/similarity", s.handleSimilarity)

	r.Get("/ws/chat", s.handleWebSocket)

	return r
}

// Router returns the chi router, mostly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("graphdesk gateway listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and persists the similarity
// index if one is loaded.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.index != nil && s.cfg.DataDir != "" {
		if err := s.index.Persist(s.cfg.DataDir); err != nil {
			log.Printf("gateway: persisting similarity index: %v", err)
		}
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
