package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "costbook/internal/errors"
	"costbook/internal/models"
	"costbook/internal/pagination"
)

// bookService handles book-related business logic. Members are resolved by
// key lookup through the user_book join, never by object-graph traversal.
type bookService struct {
	db *gorm.DB
}

// NewBookService creates a new BookServicer.
func NewBookService(db *gorm.DB) BookServicer {
	return &bookService{db: db}
}

// CreateBook creates a new book and, when memberIDs are given, inserts a
// membership row for each listed user atomically with the book itself.
func (s *bookService) CreateBook(name string, memberIDs []uint) (*models.Book, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "book name is required")
	}

	book := &models.Book{Name: name}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, userID := range memberIDs {
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if count == 0 {
				return apperrors.ErrUserNotFound
			}
			if err := tx.Create(&models.UserBook{UserID: userID, BookID: book.ID}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	book.Members, err = s.members(book.ID)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetBookByID retrieves a book with its member list.
func (s *bookService) GetBookByID(id uint) (*models.Book, error) {
	var book models.Book
	if err := s.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	members, err := s.members(book.ID)
	if err != nil {
		return nil, err
	}
	book.Members = members
	return &book, nil
}

// ListBooks retrieves books ordered by ID honoring offset/limit.
func (s *bookService) ListBooks(req pagination.ListRequest) (*pagination.ListResponse[models.Book], error) {
	req.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Book{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var books []models.Book
	if err := s.db.Scopes(pagination.Paginate(req)).Find(&books).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range books {
		members, err := s.members(books[i].ID)
		if err != nil {
			return nil, err
		}
		books[i].Members = members
	}

	result := pagination.NewListResponse(books, req.Offset, req.Limit, totalItems)
	return &result, nil
}

// UpdateBook applies the patch to an existing book.
func (s *bookService) UpdateBook(id uint, patch BookPatch) (*models.Book, error) {
	book, err := s.GetBookByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "book name cannot be empty")
		}
		if err := s.db.Model(&models.Book{}).Where("id = ?", id).Update("name", *patch.Name).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		book.Name = *patch.Name
	}

	return book, nil
}

// DeleteBook removes a book together with its records and memberships in a
// single transaction. Deleting a non-existent id is a no-op.
func (s *bookService) DeleteBook(id uint) error {
	var count int64
	if err := s.db.Model(&models.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&models.Record{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.UserBook{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.Book{}, id).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AddMember inserts a membership row. A duplicate pair is a conflict, not a
// silent no-op.
func (s *bookService) AddMember(bookID, userID uint) error {
	if _, err := s.GetBookByID(bookID); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrUserNotFound
	}

	if err := s.db.Model(&models.UserBook{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateMembership
	}

	if err := s.db.Create(&models.UserBook{UserID: userID, BookID: bookID}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RemoveMember deletes a membership row. Removing an absent pair is a no-op.
func (s *bookService) RemoveMember(bookID, userID uint) error {
	if _, err := s.GetBookByID(bookID); err != nil {
		return err
	}
	if err := s.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.UserBook{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// members resolves a book's member users via the join table.
func (s *bookService) members(bookID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Joins("JOIN user_book ON user_book.user_id = users.id").
		Where("user_book.book_id = ?", bookID).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}
