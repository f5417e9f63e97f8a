package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultLimit is the number of runs returned when no limit is given.
const DefaultLimit = 50

// MaxLimit caps the number of runs returned by List.
const MaxLimit = 500

// ErrNoDatabase is returned when history is used without a database.
var ErrNoDatabase = errors.New("history database is not configured")

// Repository persists run summaries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the history table.
func (r *Repository) Migrate() error {
	if r.db == nil {
		return ErrNoDatabase
	}
	if err := r.db.AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("migrate history: %w", err)
	}
	return nil
}

// Save stores run, assigning an id when it has none.
func (r *Repository) Save(ctx context.Context, run *Run) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]Run, error) {
	if r.db == nil {
		return nil, ErrNoDatabase
	}

	var runs []Run
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
