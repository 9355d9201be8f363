// Package store persists reviews as JSON files under the data directory,
// one subdirectory per review.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/revulabs/revu-cli/internal/review"
	"github.com/revulabs/revu-cli/internal/security"
	consts "github.com/revulabs/revu-cli/internal/shared/constants"
	sharederrors "github.com/revulabs/revu-cli/internal/shared/errors"
)

const reviewFilename = "review.json"

// ReviewSummary is the listing row returned by List.
type ReviewSummary struct {
	ID            string  `json:"id"`
	CreatedAt     string  `json:"created_at"`
	Language      string  `json:"language"`
	Filename      string  `json:"filename,omitempty"`
	TotalFindings int     `json:"total_findings"`
	Duration      float64 `json:"duration_seconds"`
}

// Store reads and writes review records below a single base directory.
type Store struct {
	mu      sync.RWMutex
	baseDir string
}

// New creates a Store rooted at baseDir, creating it when missing.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: base directory required", sharederrors.ErrRepositoryOperation)
	}
	if err := os.MkdirAll(baseDir, consts.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// BaseDir returns the root the store writes under.
func (s *Store) BaseDir() string { return s.baseDir }

// Save writes the review record to <base>/<id>/review.json.
func (s *Store) Save(ctx context.Context, rev *review.Review) error {
	if err := security.ValidateID(rev.ID); err != nil {
		return fmt.Errorf("%w: %v", sharederrors.ErrInvalidReviewID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := security.ResolveWithin(s.baseDir, rev.ID)
	if err != nil {
		return fmt.Errorf("resolve review directory: %w", err)
	}
	if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
		return fmt.Errorf("create review directory: %w", err)
	}

	data, err := json.MarshalIndent(rev, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", sharederrors.ErrSerializationFailed, err)
	}

	path := filepath.Join(dir, reviewFilename)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, consts.DefaultFilePerm); err != nil {
		return fmt.Errorf("write review: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize review: %w", err)
	}
	return nil
}

// Get loads one review by ID.
func (s *Store) Get(ctx context.Context, id string) (*review.Review, error) {
	if err := security.ValidateID(id); err != nil {
		return nil, fmt.Errorf("%w: %v", sharederrors.ErrInvalidReviewID, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := security.ResolveWithin(s.baseDir, id, reviewFilename)
	if err != nil {
		return nil, fmt.Errorf("resolve review path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", sharederrors.ErrReviewNotFound, id)
		}
		return nil, fmt.Errorf("read review: %w", err)
	}

	var rev review.Review
	if err := json.Unmarshal(data, &rev); err != nil {
		return nil, fmt.Errorf("%w: %v", sharederrors.ErrDeserializationFailed, err)
	}
	return &rev, nil
}

// List returns summaries of stored reviews, newest first, capped at limit.
func (s *Store) List(ctx context.Context, limit int) ([]ReviewSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read store directory: %w", err)
	}

	summaries := make([]ReviewSummary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name(), reviewFilename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue // partial or foreign directory
		}
		var rev review.Review
		if err := json.Unmarshal(data, &rev); err != nil {
			continue
		}
		summaries = append(summaries, ReviewSummary{
			ID:            rev.ID,
			CreatedAt:     rev.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Language:      rev.Language,
			Filename:      rev.Filename,
			TotalFindings: rev.Summary.TotalFindings,
			Duration:      rev.Summary.DurationSeconds,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt > summaries[j].CreatedAt
	})
	if limit > 0 && limit < len(summaries) {
		summaries = summaries[:limit]
	}
	return summaries, nil
}
