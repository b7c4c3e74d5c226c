package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "costbook/internal/errors"
	"costbook/internal/models"
	"costbook/internal/pagination"
)

// categoryService handles category-related business logic. Categories are
// global labels shared by all books.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category. The parent, when given, must
// reference an existing category; the schema carries no foreign key for the
// self-reference, so this is validated here.
func (s *categoryService) CreateCategory(cnName, enName string, icon int, parentID *uint) (*models.Category, error) {
	if cnName == "" && enName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	if parentID != nil {
		if err := s.checkParent(*parentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		CnName:   cnName,
		EnName:   enName,
		Icon:     icon,
		ParentID: parentID,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// ListCategories retrieves categories ordered by ID honoring offset/limit.
func (s *categoryService) ListCategories(req pagination.ListRequest) (*pagination.ListResponse[models.Category], error) {
	req.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Category{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.db.Scopes(pagination.Paginate(req)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewListResponse(categories, req.Offset, req.Limit, totalItems)
	return &result, nil
}

// UpdateCategory applies the patch to an existing category.
func (s *categoryService) UpdateCategory(id uint, patch CategoryPatch) (*models.Category, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if patch.CnName != nil {
		updates["cn_name"] = *patch.CnName
	}
	if patch.EnName != nil {
		updates["en_name"] = *patch.EnName
	}
	if patch.Icon != nil {
		updates["icon"] = *patch.Icon
	}
	if patch.ParentID != nil {
		if *patch.ParentID == id {
			return nil, apperrors.ErrSelfParentCategory
		}
		if err := s.checkParent(*patch.ParentID); err != nil {
			return nil, err
		}
		updates["parent_id"] = *patch.ParentID
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory removes a category. Deletion is restricted while child
// categories or records still reference it; deleting a non-existent id is
// a no-op.
func (s *categoryService) DeleteCategory(id uint) error {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil
	}

	if err := s.db.Model(&models.Category{}).Where("parent_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrCategoryHasChildren
	}

	if err := s.db.Model(&models.Record{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(&models.Category{}, id).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *categoryService) checkParent(parentID uint) error {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", parentID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
	}
	return nil
}
