package services

import (
	"costbook/internal/models"
	"costbook/internal/pagination"
)

// UserPatch enumerates the user fields a partial update may set. Nil fields
// are left untouched, so unset fields are never overwritten with defaults.
type UserPatch struct {
	Email    *string
	Username *string
	Password *string
}

// BookPatch enumerates the book fields a partial update may set.
type BookPatch struct {
	Name *string
}

// CategoryPatch enumerates the category fields a partial update may set.
type CategoryPatch struct {
	CnName   *string
	EnName   *string
	Icon     *int
	ParentID *uint
}

// RecordPatch enumerates the record fields a partial update may set.
// AddBy and AddAt are provenance fields and cannot be patched.
type RecordPatch struct {
	Amount     *float64
	Note       *string
	Type       *models.RecordType
	CategoryID *uint
	BookID     *uint
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, username, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	ListUsers(req pagination.ListRequest) (*pagination.ListResponse[models.User], error)
	UpdateUser(id uint, patch UserPatch) (*models.User, error)
	DeleteUser(id uint) error
	Authenticate(username, password string) (*models.User, error)
}

// BookServicer defines the contract for book-related business logic.
type BookServicer interface {
	CreateBook(name string, memberIDs []uint) (*models.Book, error)
	GetBookByID(id uint) (*models.Book, error)
	ListBooks(req pagination.ListRequest) (*pagination.ListResponse[models.Book], error)
	UpdateBook(id uint, patch BookPatch) (*models.Book, error)
	DeleteBook(id uint) error
	AddMember(bookID, userID uint) error
	RemoveMember(bookID, userID uint) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(cnName, enName string, icon int, parentID *uint) (*models.Category, error)
	GetCategoryByID(id uint) (*models.Category, error)
	ListCategories(req pagination.ListRequest) (*pagination.ListResponse[models.Category], error)
	UpdateCategory(id uint, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(id uint) error
}

// RecordServicer defines the contract for record-related business logic.
type RecordServicer interface {
	CreateRecord(addBy uint, amount float64, note string, recordType models.RecordType, categoryID, bookID uint) (*models.Record, error)
	GetRecordByID(id uint) (*models.Record, error)
	ListBookRecords(bookID uint, req pagination.ListRequest) (*pagination.ListResponse[models.Record], error)
	UpdateRecord(id uint, patch RecordPatch) (*models.Record, error)
	DeleteRecord(id uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
