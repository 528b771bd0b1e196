package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Pruner applies the retention policy to a Store: an age cutoff in days
// and an optional cap on the total number of reports.
type Pruner struct {
	store         *Store
	retentionDays int
	maxReports    int64
	logger        *slog.Logger
}

// PrunerConfig configures a Pruner.
type PrunerConfig struct {
	// RetentionDays is how many days of reports to keep. Zero disables
	// age-based pruning.
	RetentionDays int

	// MaxReports caps the number of stored reports. Zero disables the cap.
	MaxReports int64

	// Logger for prune activity. Defaults to slog.Default.
	Logger *slog.Logger
}

// NewPruner creates a pruner over the given store.
func NewPruner(store *Store, cfg PrunerConfig) (*Pruner, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pruner{
		store:         store,
		retentionDays: cfg.RetentionDays,
		maxReports:    cfg.MaxReports,
		logger:        logger.With("component", "history_pruner"),
	}, nil
}

// Prune enforces the retention policy once and returns the total number
// of reports deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.retentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -p.retentionDays)
		deleted, err := p.store.PruneBefore(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("age-based prune: %w", err)
		}
		total += deleted
	}

	if p.maxReports > 0 {
		deleted, err := p.store.TrimToLimit(ctx, p.maxReports)
		if err != nil {
			return total, fmt.Errorf("count-based prune: %w", err)
		}
		total += deleted
	}

	if total > 0 {
		p.logger.Info("pruned compliance reports",
			"deleted", total,
			"retention_days", p.retentionDays,
			"max_reports", p.maxReports)
	}

	return total, nil
}
