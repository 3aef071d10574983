package domain

import "time"

// Adjustment types
const (
	AdjustmentCredit = "credit" // Positive delta
	AdjustmentDebit  = "debit"  // Negative delta
)

// Adjustment Model
type Adjustment struct {
	ID        uint      `gorm:"primaryKey" json:"id"` // Primary key
	MinerID   uint      `gorm:"index;not null" json:"miner_id"` // Foreign key to Miner
	Delta     int64     `gorm:"not null" json:"delta"`          // Signed amount applied to the balance
	Balance   int64     `gorm:"not null" json:"balance"`        // Running balance after the adjustment
	Type      string    `gorm:"size:16;not null" json:"type"`   // Adjustment type: credit or debit
	Reason    string    `gorm:"size:255" json:"reason"`         // Free-form origin of the adjustment
	CreatedAt time.Time `json:"created_at"`                     // Timestamp of the adjustment
}
