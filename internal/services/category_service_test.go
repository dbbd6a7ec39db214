package services

import (
	"testing"
	"time"

	"gastor/internal/pagination"
	"gastor/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		category, err := svc.CreateCategory(user.ID, "Subscriptions")
		testutil.AssertNoError(t, err)

		if category.ID == "" {
			t.Fatal("expected non-empty category ID")
		}
		if category.Total != 0 {
			t.Errorf("expected zero total, got %d", category.Total)
		}
	})

	t.Run("duplicate_name_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Utilities")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "utilities")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("same_name_different_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user1.ID, "Hobbies")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user2.ID, "Hobbies")
		testutil.AssertNoError(t, err)
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("", "Anything")
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})
}

func TestGetCategoryByID(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)

		got, err := svc.GetCategoryByID(user.ID, category.ID)
		testutil.AssertNoError(t, err)
		if got.ID != category.ID {
			t.Errorf("expected category %s, got %s", category.ID, got.ID)
		}
	})

	t.Run("foreign_category_is_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, owner.ID)

		_, err := svc.GetCategoryByID(intruder.ID, category.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetCategoryByID(user.ID, "no-such-category")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetUserCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	for _, name := range []string{"Zoo", "Aquarium", "Museum"} {
		testutil.CreateTestCategoryWithName(t, db, user.ID, name)
	}
	testutil.CreateTestCategory(t, db, other.ID)

	result, err := svc.GetUserCategories(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if result.TotalItems != 3 {
		t.Fatalf("expected 3 categories, got %d", result.TotalItems)
	}
	if result.Data[0].Name != "Aquarium" {
		t.Errorf("expected name-sorted list starting with Aquarium, got %q", result.Data[0].Name)
	}
}

func TestRenameCategory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategoryWithName(t, db, user.ID, "Old Name")

		renamed, err := svc.RenameCategory(user.ID, category.ID, "New Name")
		testutil.AssertNoError(t, err)
		if renamed.Name != "New Name" {
			t.Errorf("expected 'New Name', got %q", renamed.Name)
		}
	})

	t.Run("rename_to_same_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategoryWithName(t, db, user.ID, "Stable")

		_, err := svc.RenameCategory(user.ID, category.ID, "Stable")
		testutil.AssertNoError(t, err)
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Taken")
		category := testutil.CreateTestCategoryWithName(t, db, user.ID, "Original")

		_, err := svc.RenameCategory(user.ID, category.ID, "taken")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("foreign_category_is_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, owner.ID)

		_, err := svc.RenameCategory(intruder.ID, category.ID, "Hijacked")
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("empty_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID)

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, category.ID))

		_, err := svc.GetCategoryByID(user.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("blocked_while_expenses_exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		ledger := NewLedgerService(db, nil)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestAccountWithBalance(t, db, user.ID, 5000)
		category := testutil.CreateTestCategory(t, db, user.ID)

		expense, err := ledger.CreateExpense(user.ID, category.ID, 1000, "Gym", "", time.Now())
		testutil.AssertNoError(t, err)

		err = svc.DeleteCategory(user.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_HAS_EXPENSES")

		// Deleting the expense first unblocks the category.
		testutil.AssertNoError(t, ledger.DeleteExpense(user.ID, expense.ID))
		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, category.ID))
	})

	t.Run("foreign_category_is_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, owner.ID)

		err := svc.DeleteCategory(intruder.ID, category.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}
