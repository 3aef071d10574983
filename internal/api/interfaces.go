package api

import (
	"context"                        // Context on all ledger operations
	"errors"                         // Error kind matching
	"miner_registry/internal/domain" // Importing domain models
	"miner_registry/internal/ledger" // Ledger error kinds
	"net/http"                       // HTTP status codes
)

// Registry is the ledger surface the handlers run against. *ledger.Store
// implements it; tests substitute a mock.
type Registry interface {
	Create(ctx context.Context, pubkey string) (*domain.Miner, error)
	GetByPubkey(ctx context.Context, pubkey string) (*domain.Miner, error)
	GetByID(ctx context.Context, id uint) (*domain.Miner, error)
	List(ctx context.Context, enabledOnly bool, offset, limit int) ([]domain.Miner, int64, error)
	SetEnabled(ctx context.Context, id uint, enabled bool) error
	Adjust(ctx context.Context, id uint, delta int64, reason string) (int64, error)
	Adjustments(ctx context.Context, minerID uint, offset, limit int) ([]domain.Adjustment, int64, error)
	ListAdjustments(ctx context.Context, filter ledger.AdjustmentFilter, offset, limit int) ([]domain.Adjustment, int64, error)
}

// statusForError maps ledger error kinds to HTTP statuses
func statusForError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound // Lookup miss
	case errors.Is(err, ledger.ErrDuplicateKey), errors.Is(err, ledger.ErrInsufficientBalance):
		return http.StatusConflict // Caller conflict, never retried
	case errors.Is(err, ledger.ErrInvalidPubkey):
		return http.StatusBadRequest // Malformed input
	case errors.Is(err, ledger.ErrStoreUnavailable):
		return http.StatusServiceUnavailable // Store down after retries
	default:
		return http.StatusInternalServerError
	}
}
