package ledger

import (
	"context"
	"errors"
	"miner_registry/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Store owns the miners table. All balance mutations go through Adjust
// (mutator.go); nothing else writes the balance column.
type Store struct {
	db *gorm.DB // Shared GORM handle
}

// NewStore creates a ledger store over an open database handle
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create registers a new miner with a zero balance, disabled by default.
// The unique index on pubkey rejects double registration with ErrDuplicateKey.
func (s *Store) Create(ctx context.Context, pubkey string) (*domain.Miner, error) {
	// Validate pubkey shape before touching the store
	if err := ValidatePubkey(pubkey); err != nil {
		return nil, err
	}
	miner := domain.Miner{Pubkey: pubkey} // Balance and Enabled take their column defaults
	err := withRetry(ctx, func() error {
		if err := s.db.WithContext(ctx).Create(&miner).Error; err != nil {
			// Duplicate pubkey is a caller error, not a store failure
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateKey
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Log successful registration
	logrus.WithFields(logrus.Fields{
		"miner_id": miner.ID,     // Assigned identifier
		"pubkey":   miner.Pubkey, // Registered public key
	}).Info("Miner registered")
	return &miner, nil
}

// GetByPubkey returns the miner registered under pubkey, or ErrNotFound
func (s *Store) GetByPubkey(ctx context.Context, pubkey string) (*domain.Miner, error) {
	var miner domain.Miner // Miner struct to hold data
	err := withRetry(ctx, func() error {
		if err := s.db.WithContext(ctx).Where("pubkey = ?", pubkey).First(&miner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound // Lookup miss
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &miner, nil
}

// GetByID returns the miner with the given id, or ErrNotFound
func (s *Store) GetByID(ctx context.Context, id uint) (*domain.Miner, error) {
	var miner domain.Miner // Miner struct to hold data
	err := withRetry(ctx, func() error {
		if err := s.db.WithContext(ctx).First(&miner, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound // Lookup miss
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &miner, nil
}

// List returns a page of miners plus the total count. With enabledOnly set,
// only miners eligible for reward distribution are returned.
func (s *Store) List(ctx context.Context, enabledOnly bool, offset, limit int) ([]domain.Miner, int64, error) {
	var miners []domain.Miner // Slice to hold miners
	var total int64           // Total miner count
	err := withRetry(ctx, func() error {
		query := s.db.WithContext(ctx).Model(&domain.Miner{}) // Start building the query
		if enabledOnly {
			query = query.Where("enabled = ?", true) // Filter to enabled miners
		}
		// Count total miners for pagination
		if err := query.Count(&total).Error; err != nil {
			return err
		}
		// Fetch the requested page, oldest registrations first
		return query.Order("id asc").Offset(offset).Limit(limit).Find(&miners).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return miners, total, nil
}

// SetEnabled toggles whether a miner may participate in reward distribution.
// Setting the current value again is a no-op; decommissioning is enabled=false,
// there is no deletion path.
func (s *Store) SetEnabled(ctx context.Context, id uint, enabled bool) error {
	err := withRetry(ctx, func() error {
		res := s.db.WithContext(ctx).Model(&domain.Miner{}).
			Where("id = ?", id).
			Update("enabled", enabled) // updated_at is maintained by GORM in the same write
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Distinguish an idempotent re-set from an unknown id
			var count int64
			if err := s.db.WithContext(ctx).Model(&domain.Miner{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	// Log the toggle
	logrus.WithFields(logrus.Fields{
		"miner_id": id,      // Miner identifier
		"enabled":  enabled, // New participation state
	}).Info("Miner enabled flag set")
	return nil
}
