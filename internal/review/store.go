package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nselim/graphdesk/internal/db"
	"github.com/nselim/graphdesk/internal/graphrag"
)

// ErrNotFound is returned when a draft does not exist.
var ErrNotFound = errors.New("draft not found")

// Store persists review drafts.
type Store struct {
	db *db.DB
}

// NewStore creates a draft store backed by the given database.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// SaveGenerated stores the final review of a completed backend process
// as the next draft and returns it.
func (s *Store) SaveGenerated(ctx context.Context, proc *graphrag.ReviewProcess, reviewType string) (*Draft, error) {
	phases := make([]Phase, len(proc.Phases))
	for i, p := range proc.Phases {
		phases[i] = Phase{Phase: p.Phase, Status: p.Status, Details: p.Details}
	}

	draft := &Draft{
		ID:         uuid.NewString(),
		Topic:      proc.Topic,
		ReviewType: reviewType,
		Content:    proc.FinalReview,
		PhaseLog:   phases,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.insert(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SaveRefined stores a refined section as the next draft, linked to the
// draft it was refined from.
func (s *Store) SaveRefined(ctx context.Context, source *Draft, refinementType, content string) (*Draft, error) {
	draft := &Draft{
		ID:             uuid.NewString(),
		Topic:          source.Topic,
		ReviewType:     source.ReviewType,
		Content:        content,
		SourceDraft:    source.ID,
		RefinementType: refinementType,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.insert(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// insert writes the draft with the next free ordinal. The ordinal
// sequence starts at 0 so the first draft keeps position zero.
func (s *Store) insert(ctx context.Context, draft *Draft) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting draft insert: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(ordinal) + 1, 0) FROM drafts`,
	).Scan(&draft.Ordinal); err != nil {
		return fmt.Errorf("computing draft ordinal: %w", err)
	}

	phaseJSON, err := json.Marshal(draft.PhaseLog)
	if err != nil {
		return fmt.Errorf("marshaling phase log: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO drafts (id, topic, review_type, ordinal, content, phase_log, source_draft, refinement_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.ID, draft.Topic, draft.ReviewType, draft.Ordinal, draft.Content,
		string(phaseJSON), nullable(draft.SourceDraft), nullable(draft.RefinementType), draft.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting draft: %w", err)
	}
	return tx.Commit()
}

// Get retrieves a draft by ID.
func (s *Store) Get(ctx context.Context, id string) (*Draft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, topic, review_type, ordinal, content, phase_log, source_draft, refinement_type, created_at
		 FROM drafts WHERE id = ?`, id)
	return scanDraft(row)
}

// GetByOrdinal retrieves the draft at the given position (0 = first).
func (s *Store) GetByOrdinal(ctx context.Context, ordinal int) (*Draft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, topic, review_type, ordinal, content, phase_log, source_draft, refinement_type, created_at
		 FROM drafts WHERE ordinal = ?`, ordinal)
	return scanDraft(row)
}

// Latest returns the most recently produced draft.
func (s *Store) Latest(ctx context.Context) (*Draft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, topic, review_type, ordinal, content, phase_log, source_draft, refinement_type, created_at
		 FROM drafts ORDER BY ordinal DESC LIMIT 1`)
	return scanDraft(row)
}

// List returns all drafts in production order (ordinal ascending).
func (s *Store) List(ctx context.Context) ([]Draft, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, review_type, ordinal, content, phase_log, source_draft, refinement_type, created_at
		 FROM drafts ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *d)
	}
	return drafts, rows.Err()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDraft(row scanner) (*Draft, error) {
	d := &Draft{}
	var phaseJSON string
	var sourceDraft, refinementType sql.NullString
	err := row.Scan(&d.ID, &d.Topic, &d.ReviewType, &d.Ordinal, &d.Content,
		&phaseJSON, &sourceDraft, &refinementType, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning draft: %w", err)
	}
	if err := json.Unmarshal([]byte(phaseJSON), &d.PhaseLog); err != nil {
		return nil, fmt.Errorf("unmarshaling phase log: %w", err)
	}
	d.SourceDraft = sourceDraft.String
	d.RefinementType = refinementType.String
	return d, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
