package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"costbook/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique
// email/username. The plaintext password is always "password123".
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithName(t, db, fmt.Sprintf("user%d", n))
}

// CreateTestUserWithName creates a user with the given username.
func CreateTestUserWithName(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:          username + "@test.com",
		Username:       username,
		HashedPassword: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBook creates a book with a unique name.
func CreateTestBook(t *testing.T, db *gorm.DB) *models.Book {
	t.Helper()

	book := &models.Book{Name: fmt.Sprintf("Test Book %d", nextID())}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("failed to create test book: %v", err)
	}
	return book
}

// CreateTestMembership enrolls a user in a book.
func CreateTestMembership(t *testing.T, db *gorm.DB, userID, bookID uint) {
	t.Helper()

	if err := db.Create(&models.UserBook{UserID: userID, BookID: bookID}).Error; err != nil {
		t.Fatalf("failed to create test membership: %v", err)
	}
}

// CreateTestCategory creates a root category.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	n := nextID()
	category := &models.Category{
		CnName: fmt.Sprintf("测试%d", n),
		EnName: fmt.Sprintf("Test Category %d", n),
		Icon:   int(n),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestRecord creates an expense record in the given book and category.
func CreateTestRecord(t *testing.T, db *gorm.DB, addBy, categoryID, bookID uint, amount float64) *models.Record {
	t.Helper()

	record := &models.Record{
		Amount:     amount,
		Type:       models.RecordTypeExpense,
		CategoryID: categoryID,
		BookID:     bookID,
		AddBy:      addBy,
		AddAt:      time.Now(),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test record: %v", err)
	}
	return record
}
