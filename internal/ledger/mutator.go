package ledger

import (
	"context"
	"errors"
	"miner_registry/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Adjust applies delta to a miner's balance and returns the new balance.
// The balance change is a single conditional UPDATE, so concurrent
// adjustments to the same miner serialize on the row and cannot lose
// updates; a debit that would take the balance below zero matches no row
// and fails with ErrInsufficientBalance, leaving the balance unchanged.
// The adjustment record is appended in the same transaction.
func (s *Store) Adjust(ctx context.Context, id uint, delta int64, reason string) (int64, error) {
	var newBalance int64 // Balance after the adjustment
	err := withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Apply the delta only if the resulting balance stays non-negative
			res := tx.Model(&domain.Miner{}).
				Where("id = ? AND balance + ? >= 0", id, delta).
				Update("balance", gorm.Expr("balance + ?", delta)) // updated_at changes in the same write
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// No row matched: either the miner is unknown or the debit is too large
				var count int64
				if err := tx.Model(&domain.Miner{}).Where("id = ?", id).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ErrNotFound
				}
				return ErrInsufficientBalance
			}
			// Re-read the balance inside the transaction for the ledger entry
			var miner domain.Miner
			if err := tx.First(&miner, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			newBalance = miner.Balance
			// Append the adjustment record
			adj := domain.Adjustment{
				MinerID: id,              // Adjusted miner
				Delta:   delta,           // Applied delta
				Balance: newBalance,      // Running balance after
				Type:    adjustmentType(delta), // credit or debit
				Reason:  reason,          // Origin of the adjustment
			}
			return tx.Create(&adj).Error
		})
	})
	if err != nil {
		// Log domain rejections at info, store failures at error
		entry := logrus.WithFields(logrus.Fields{
			"miner_id": id,          // Miner identifier
			"delta":    delta,       // Requested delta
			"error":    err.Error(), // Error message
		})
		if IsDomainError(err) {
			entry.Info("Adjustment rejected")
		} else {
			entry.Error("Adjustment failed")
		}
		return 0, err
	}
	// Log successful adjustment
	logrus.WithFields(logrus.Fields{
		"miner_id": id,                    // Miner identifier
		"delta":    delta,                 // Applied delta
		"balance":  newBalance,            // Balance after
		"type":     adjustmentType(delta), // Adjustment type
	}).Info("Balance adjusted")
	return newBalance, nil
}

// adjustmentType classifies a delta for the ledger record. A zero delta is
// recorded as a credit; it changes nothing but still stamps updated_at.
func adjustmentType(delta int64) string {
	if delta < 0 {
		return domain.AdjustmentDebit
	}
	return domain.AdjustmentCredit
}

// Adjustments returns a page of a miner's adjustment history, newest first,
// plus the total count. The miner must exist.
func (s *Store) Adjustments(ctx context.Context, minerID uint, offset, limit int) ([]domain.Adjustment, int64, error) {
	var adjustments []domain.Adjustment // Slice to hold adjustments
	var total int64                     // Total adjustment count
	err := withRetry(ctx, func() error {
		// Reject unknown miners rather than returning an empty history
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.Miner{}).Where("id = ?", minerID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		query := s.db.WithContext(ctx).Model(&domain.Adjustment{}).Where("miner_id = ?", minerID)
		if err := query.Count(&total).Error; err != nil {
			return err
		}
		return query.Order("created_at desc").Offset(offset).Limit(limit).Find(&adjustments).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return adjustments, total, nil
}

// AdjustmentFilter narrows the global adjustment listing
type AdjustmentFilter struct {
	MinerID string // Filter by miner id, empty for all
	Type    string // Filter by adjustment type, empty for all
	From    string // Inclusive lower bound on created_at
	To      string // Inclusive upper bound on created_at
}

// ListAdjustments returns a filtered page over all adjustments, newest first
func (s *Store) ListAdjustments(ctx context.Context, filter AdjustmentFilter, offset, limit int) ([]domain.Adjustment, int64, error) {
	var adjustments []domain.Adjustment // Slice to hold adjustments
	var total int64                     // Total matching count
	err := withRetry(ctx, func() error {
		query := s.db.WithContext(ctx).Model(&domain.Adjustment{}) // Start building the query
		if filter.MinerID != "" {
			query = query.Where("miner_id = ?", filter.MinerID) // Filter by miner
		}
		if filter.Type != "" {
			query = query.Where("type = ?", filter.Type) // Filter by adjustment type
		}
		if filter.From != "" {
			query = query.Where("created_at >= ?", filter.From) // Filter by start date
		}
		if filter.To != "" {
			query = query.Where("created_at <= ?", filter.To) // Filter by end date
		}
		if err := query.Count(&total).Error; err != nil {
			return err
		}
		return query.Order("created_at desc").Offset(offset).Limit(limit).Find(&adjustments).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return adjustments, total, nil
}
