package models

import "time"

// Base contains common columns for all tables. IDs are auto-incrementing
// integers; rows are hard-deleted so unique columns stay reusable.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
