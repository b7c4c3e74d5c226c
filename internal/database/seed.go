package database

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"costbook/internal/auth"
	"costbook/internal/logger"
	"costbook/internal/models"
)

// SeedDemoData inserts the predefined categories, two demo users, one demo
// book with memberships, and a handful of sample records. It is best-effort
// and idempotent: uniqueness violations from re-running against an already
// seeded store are ignored, and any other failure is logged without
// aborting startup.
//
// The demo credentials (admin/admin, test/test) are a known anti-pattern
// kept for behavioral parity with existing clients.
func SeedDemoData(db *gorm.DB) {
	log := logger.Get()

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		log.Errorw("seed: failed to inspect users table", "error", err)
		return
	}
	if userCount > 0 {
		log.Debug("seed: store already seeded, skipping")
		return
	}

	seedCategories(db)
	seedUsers(db)
	seedBook(db)
	seedMemberships(db)
	seedRecords(db)
}

func seedCategories(db *gorm.DB) {
	parent := func(id uint) *uint { return &id }

	categories := []models.Category{
		{CnName: "购物", EnName: "Shop", Icon: 1},
		{CnName: "服饰", EnName: "Dress", Icon: 2},
		{CnName: "护肤", EnName: "Necessity", Icon: 3},
		{CnName: "数码", EnName: "Digital", Icon: 4},
		{CnName: "应用", EnName: "App", Icon: 5},
		{CnName: "交通", EnName: "Traffic", Icon: 6},
		{CnName: "旅行", EnName: "Travel", Icon: 7},
		{CnName: "美食", EnName: "Food", Icon: 8},
		{CnName: "娱乐", EnName: "Entertainment", Icon: 9},
		{CnName: "游戏", EnName: "Game", Icon: 91, ParentID: parent(9)},
		{CnName: "电影", EnName: "Movie", Icon: 92, ParentID: parent(9)},
		{CnName: "生活", EnName: "Life", Icon: 10},
		{CnName: "其他", EnName: "Others", Icon: 11},
	}

	for i := range categories {
		seedCreate(db, &categories[i], "category", categories[i].EnName)
	}
}

func seedUsers(db *gorm.DB) {
	demoUsers := []struct {
		email    string
		username string
		password string
	}{
		{"admin@126.com", "admin", "admin"},
		{"test@126.com", "test", "test"},
	}

	for _, u := range demoUsers {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			logger.Get().Errorw("seed: failed to hash demo password", "username", u.username, "error", err)
			continue
		}
		user := &models.User{Email: u.email, Username: u.username, HashedPassword: hash}
		seedCreate(db, user, "user", u.username)
	}
}

func seedBook(db *gorm.DB) {
	seedCreate(db, &models.Book{Name: "default"}, "book", "default")
}

func seedMemberships(db *gorm.DB) {
	memberships := []models.UserBook{
		{UserID: 1, BookID: 1},
		{UserID: 2, BookID: 1},
	}
	for i := range memberships {
		seedCreate(db, &memberships[i], "membership", "")
	}
}

func seedRecords(db *gorm.DB) {
	note := "test"
	records := []models.Record{
		{Amount: 100, Note: note, CategoryID: 1, BookID: 1},
		{Amount: 20, CategoryID: 1, BookID: 1},
		{Amount: 70.2, CategoryID: 2, BookID: 1},
		{Amount: 10.5, Note: note, CategoryID: 3, BookID: 1},
	}
	for i := range records {
		records[i].Type = models.RecordTypeExpense
		records[i].AddBy = 1
		records[i].AddAt = time.Now()
		seedCreate(db, &records[i], "record", "")
	}
}

// seedCreate inserts value, swallowing duplicate-key errors and logging
// anything else.
func seedCreate(db *gorm.DB, value interface{}, kind, name string) {
	if err := db.Create(value).Error; err != nil {
		if isDuplicateErr(err) {
			return
		}
		logger.Get().Errorw("seed: insert failed", "kind", kind, "name", name, "error", err)
	}
}

// isDuplicateErr detects uniqueness violations across the sqlite and
// postgres drivers.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "constraint failed")
}
