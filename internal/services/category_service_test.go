package services

import (
	"testing"

	"costbook/internal/pagination"
	"costbook/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("root category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		category, err := svc.CreateCategory("餐饮", "Food", 1, nil)
		testutil.AssertNoError(t, err)
		if category.ID == 0 {
			t.Fatal("expected non-zero category ID")
		}
		if category.ParentID != nil {
			t.Errorf("expected nil parent, got %v", *category.ParentID)
		}
	})

	t.Run("child of an existing parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		parent := testutil.CreateTestCategory(t, db)

		child, err := svc.CreateCategory("游戏", "Game", 2, &parent.ID)
		testutil.AssertNoError(t, err)
		if child.ParentID == nil || *child.ParentID != parent.ID {
			t.Errorf("expected parent %d, got %v", parent.ID, child.ParentID)
		}
	})

	t.Run("unknown parent is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		ghost := uint(9999)
		_, err := svc.CreateCategory("孤儿", "Orphan", 3, &ghost)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("both names empty is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("", "", 1, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("patch applies only present fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		category := testutil.CreateTestCategory(t, db)

		icon := 42
		updated, err := svc.UpdateCategory(category.ID, CategoryPatch{Icon: &icon})
		testutil.AssertNoError(t, err)
		if updated.Icon != 42 {
			t.Errorf("expected icon 42, got %d", updated.Icon)
		}
		if updated.EnName != category.EnName {
			t.Errorf("EnName should be untouched, got %s", updated.EnName)
		}
	})

	t.Run("category cannot become its own parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		category := testutil.CreateTestCategory(t, db)

		_, err := svc.UpdateCategory(category.ID, CategoryPatch{ParentID: &category.ID})
		testutil.AssertAppError(t, err, "SELF_PARENT_CATEGORY")
	})

	t.Run("nonexistent id reports not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		name := "x"
		_, err := svc.UpdateCategory(9999, CategoryPatch{EnName: &name})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("restricted while children exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		parent := testutil.CreateTestCategory(t, db)
		_, err := svc.CreateCategory("子类", "Child", 1, &parent.ID)
		testutil.AssertNoError(t, err)

		err = svc.DeleteCategory(parent.ID)
		testutil.AssertAppError(t, err, "CATEGORY_HAS_CHILDREN")
	})

	t.Run("restricted while records reference it", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		user := testutil.CreateTestUser(t, db)
		book := testutil.CreateTestBook(t, db)
		category := testutil.CreateTestCategory(t, db)
		testutil.CreateTestRecord(t, db, user.ID, category.ID, book.ID, 3.5)

		err := svc.DeleteCategory(category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})

	t.Run("unreferenced category deletes cleanly and is idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		category := testutil.CreateTestCategory(t, db)
		testutil.AssertNoError(t, svc.DeleteCategory(category.ID))
		testutil.AssertNoError(t, svc.DeleteCategory(category.ID))

		_, err := svc.GetCategoryByID(category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestListCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	for i := 0; i < 3; i++ {
		testutil.CreateTestCategory(t, db)
	}

	result, err := svc.ListCategories(pagination.ListRequest{Limit: 2})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 3 {
		t.Errorf("expected total 3, got %d", result.TotalItems)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 categories, got %d", len(result.Data))
	}
}
