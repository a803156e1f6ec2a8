package models

import (
	"time"
)

// ProgressRecord accumulates per-category answer tallies for a user
// across every sitting ever completed. Counters only ever grow.
type ProgressRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `json:"user_id" gorm:"index:idx_progress_user_cat,unique;not null"`
	Category  string    `json:"category" gorm:"index:idx_progress_user_cat,unique;not null"`
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
}

func (p *ProgressRecord) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Correct * 100 / p.Total
}
