package models

// User represents a registered user. The password is stored only as a
// bcrypt hash and is never serialized.
type User struct {
	Base
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	Username       string `gorm:"uniqueIndex;not null" json:"username"`
	HashedPassword string `gorm:"not null" json:"-"`
}
