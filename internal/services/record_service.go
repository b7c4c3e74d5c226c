package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "costbook/internal/errors"
	"costbook/internal/models"
	"costbook/internal/pagination"
)

// recordService handles record-related business logic.
type recordService struct {
	db *gorm.DB
}

// NewRecordService creates a new RecordServicer.
func NewRecordService(db *gorm.DB) RecordServicer {
	return &recordService{db: db}
}

// CreateRecord creates a new record. AddBy is the authenticated caller and
// AddAt is assigned from the server clock; neither is client-supplied.
// Category and book references are checked up front so a dangling id
// surfaces as a not-found error rather than a storage failure.
func (s *recordService) CreateRecord(addBy uint, amount float64, note string, recordType models.RecordType, categoryID, bookID uint) (*models.Record, error) {
	if recordType == 0 {
		recordType = models.RecordTypeExpense
	}
	if !recordType.Valid() {
		return nil, apperrors.ErrInvalidRecordType
	}

	if err := s.checkRefs(&categoryID, &bookID); err != nil {
		return nil, err
	}

	record := &models.Record{
		Amount:     amount,
		Note:       note,
		Type:       recordType,
		CategoryID: categoryID,
		BookID:     bookID,
		AddBy:      addBy,
		AddAt:      time.Now(),
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return record, nil
}

// GetRecordByID retrieves a record by ID
func (s *recordService) GetRecordByID(id uint) (*models.Record, error) {
	var record models.Record
	if err := s.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// ListBookRecords retrieves a book's records ordered by ID honoring
// offset/limit. An offset past the count yields an empty list.
func (s *recordService) ListBookRecords(bookID uint, req pagination.ListRequest) (*pagination.ListResponse[models.Record], error) {
	req.Defaults()

	base := s.db.Model(&models.Record{}).Where("book_id = ?", bookID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.Record
	if err := base.Scopes(pagination.Paginate(req)).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewListResponse(records, req.Offset, req.Limit, totalItems)
	return &result, nil
}

// UpdateRecord applies the patch to an existing record. AddAt and AddBy are
// immutable. A non-existent id is reported as not-found and leaves storage
// unchanged.
func (s *recordService) UpdateRecord(id uint, patch RecordPatch) (*models.Record, error) {
	record, err := s.GetRecordByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkRefs(patch.CategoryID, patch.BookID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.Note != nil {
		updates["note"] = *patch.Note
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return nil, apperrors.ErrInvalidRecordType
		}
		updates["type"] = *patch.Type
	}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.BookID != nil {
		updates["book_id"] = *patch.BookID
	}

	if len(updates) > 0 {
		if err := s.db.Model(record).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return record, nil
}

// DeleteRecord removes a record. Deleting a non-existent id is a no-op.
func (s *recordService) DeleteRecord(id uint) error {
	if err := s.db.Delete(&models.Record{}, id).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// checkRefs verifies that the referenced category and book exist. Nil ids
// are skipped, so it serves both create and patch paths.
func (s *recordService) checkRefs(categoryID, bookID *uint) error {
	var count int64
	if categoryID != nil {
		if err := s.db.Model(&models.Category{}).Where("id = ?", *categoryID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrCategoryNotFound
		}
	}
	if bookID != nil {
		if err := s.db.Model(&models.Book{}).Where("id = ?", *bookID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrBookNotFound
		}
	}
	return nil
}
