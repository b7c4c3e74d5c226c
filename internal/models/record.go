package models

import "time"

// RecordType distinguishes expenses from income. Wire values are the
// integers used by existing clients.
type RecordType int

const (
	RecordTypeExpense RecordType = 1
	RecordTypeIncome  RecordType = 2
)

// Valid reports whether t is a known record type.
func (t RecordType) Valid() bool {
	return t == RecordTypeExpense || t == RecordTypeIncome
}

// Record is a single monetary entry in a book. AddBy and AddAt are
// server-assigned at creation: AddBy is the authenticated caller and AddAt
// the creation wall-clock time. AddAt is immutable afterwards.
type Record struct {
	Base
	Amount     float64    `gorm:"index;not null" json:"amount"`
	Note       string     `json:"note"`
	Type       RecordType `gorm:"default:1" json:"type"`
	CategoryID uint       `gorm:"index;not null" json:"category_id"`
	BookID     uint       `gorm:"index;not null" json:"book_id"`
	AddBy      uint       `gorm:"index;not null" json:"add_by"`
	AddAt      time.Time  `gorm:"index;not null" json:"add_at"`
}
