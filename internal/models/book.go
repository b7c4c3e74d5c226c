package models

// Book is a shared ledger grouping records. Members are resolved through
// the user_book join table rather than a bidirectional object graph.
type Book struct {
	Base
	Name string `gorm:"not null" json:"name"`

	// Populated by the book service on reads; not a GORM relationship.
	Members []User `gorm:"-" json:"members,omitempty"`
}

// UserBook is the membership join between users and books. The pair is the
// primary key, so duplicate memberships violate a uniqueness constraint.
type UserBook struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	BookID uint `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
}

// TableName keeps the join table name used by the persisted schema.
func (UserBook) TableName() string {
	return "user_book"
}
