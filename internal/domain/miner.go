package domain

import "time"

// Miner Model
type Miner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                    // Primary key, never reused
	Pubkey    string    `gorm:"size:44;uniqueIndex;not null" json:"pubkey"` // Public key of the mining participant
	Balance   int64     `gorm:"not null;default:0" json:"balance"`       // Accumulated credit, mutated only via atomic adjustments
	Enabled   bool      `gorm:"not null;default:false" json:"enabled"`   // Gates participation in reward distribution
	CreatedAt time.Time `json:"created_at"`                              // Set on registration
	UpdatedAt time.Time `json:"updated_at"`                              // Maintained on every mutation
}
