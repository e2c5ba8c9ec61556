// Package tracker records which local files have been uploaded to the
// backend and their content hashes, so unchanged files are not re-sent.
package tracker

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nselim/graphdesk/internal/db"
)

// Record describes one tracked document.
type Record struct {
	Path       string    `json:"path"`
	Filename   string    `json:"filename"`
	SHA256     string    `json:"sha256"`
	Size       int64     `json:"size"`
	FileType   string    `json:"file_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Stats summarizes the tracked document set. Chunk counts live on the
// backend only, so totals here cover what the client itself knows.
type Stats struct {
	TotalDocuments int   `json:"total_documents"`
	TotalBytes     int64 `json:"total_bytes"`
}

// Tracker is a SHA-256 based change tracker over the documents table.
type Tracker struct {
	db *db.DB
}

// New creates a tracker backed by the given database.
func New(d *db.DB) *Tracker {
	return &Tracker{db: d}
}

// HashFile computes the SHA-256 hex digest of a file, streaming its content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes computes the SHA-256 hex digest of in-memory content,
// used for pasted text.
func HashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// IsUploaded reports whether the file at path has already been uploaded
// with the given content hash. A changed file reports false.
func (t *Tracker) IsUploaded(ctx context.Context, path, hash string) (bool, error) {
	var stored string
	err := t.db.QueryRowContext(ctx,
		`SELECT sha256 FROM documents WHERE path = ?`, path,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return stored == hash, nil
}

// MarkUploaded records a successful upload, replacing any previous
// record for the same path.
func (t *Tracker) MarkUploaded(ctx context.Context, rec Record) error {
	if rec.Filename == "" {
		rec.Filename = filepath.Base(rec.Path)
	}
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = time.Now().UTC()
	}
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO documents (path, filename, sha256, size, file_type, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   filename = excluded.filename,
		   sha256 = excluded.sha256,
		   size = excluded.size,
		   file_type = excluded.file_type,
		   uploaded_at = excluded.uploaded_at`,
		rec.Path, rec.Filename, rec.SHA256, rec.Size, rec.FileType, rec.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("recording upload of %s: %w", rec.Path, err)
	}
	return nil
}

// Get returns the record for path, or nil if the path is untracked.
func (t *Tracker) Get(ctx context.Context, path string) (*Record, error) {
	rec := &Record{}
	err := t.db.QueryRowContext(ctx,
		`SELECT path, filename, sha256, size, file_type, uploaded_at
		 FROM documents WHERE path = ?`, path,
	).Scan(&rec.Path, &rec.Filename, &rec.SHA256, &rec.Size, &rec.FileType, &rec.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", path, err)
	}
	return rec, nil
}

// List returns all tracked documents ordered by upload time, newest first.
func (t *Tracker) List(ctx context.Context) ([]Record, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT path, filename, sha256, size, file_type, uploaded_at
		 FROM documents ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Path, &rec.Filename, &rec.SHA256, &rec.Size,
			&rec.FileType, &rec.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats returns totals over the tracked document set.
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	err := t.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size), 0) FROM documents`,
	).Scan(&s.TotalDocuments, &s.TotalBytes)
	if err != nil {
		return nil, fmt.Errorf("computing stats: %w", err)
	}
	return s, nil
}

// Clear removes all tracking records.
func (t *Tracker) Clear(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing tracking data: %w", err)
	}
	return nil
}
