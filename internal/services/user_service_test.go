package services

import (
	"testing"

	"costbook/internal/pagination"
	"costbook/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Alice@Example.com", "alice", "s3cret")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.HashedPassword == "s3cret" || user.HashedPassword == "" {
			t.Error("expected password to be stored as a hash")
		}

		byID, err := svc.GetUserByID(user.ID)
		testutil.AssertNoError(t, err)
		if byID.Username != "alice" {
			t.Errorf("expected alice, got %s", byID.Username)
		}

		byEmail, err := svc.GetUserByEmail("alice@example.com")
		testutil.AssertNoError(t, err)
		if byEmail.ID != user.ID {
			t.Errorf("expected id %d, got %d", user.ID, byEmail.ID)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("bob@example.com", "bob", "pw")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("bob@example.com", "robert", "pw")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("carol@example.com", "carol", "pw")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("carol2@example.com", "carol", "pw")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "dave", "pw")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAuthenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	_, err := svc.CreateUser("eve@example.com", "eve", "opensesame")
	testutil.AssertNoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		user, err := svc.Authenticate("eve", "opensesame")
		testutil.AssertNoError(t, err)
		if user.Username != "eve" {
			t.Errorf("expected eve, got %s", user.Username)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("eve", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate("mallory", "opensesame")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("patch applies only present fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("frank@example.com", "frank", "pw")
		testutil.AssertNoError(t, err)

		newEmail := "franklin@example.com"
		updated, err := svc.UpdateUser(user.ID, UserPatch{Email: &newEmail})
		testutil.AssertNoError(t, err)

		if updated.Email != "franklin@example.com" {
			t.Errorf("expected updated email, got %s", updated.Email)
		}
		if updated.Username != "frank" {
			t.Errorf("username should be untouched, got %s", updated.Username)
		}
	})

	t.Run("nonexistent id reports not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		name := "ghost"
		_, err := svc.UpdateUser(9999, UserPatch{Username: &name})
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("email conflict with another user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("grace@example.com", "grace", "pw")
		testutil.AssertNoError(t, err)
		other, err := svc.CreateUser("heidi@example.com", "heidi", "pw")
		testutil.AssertNoError(t, err)

		taken := "grace@example.com"
		_, err = svc.UpdateUser(other.ID, UserPatch{Email: &taken})
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("password patch is rehashed and usable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("ivan@example.com", "ivan", "old")
		testutil.AssertNoError(t, err)

		newPw := "new-password"
		_, err = svc.UpdateUser(user.ID, UserPatch{Password: &newPw})
		testutil.AssertNoError(t, err)

		_, err = svc.Authenticate("ivan", "new-password")
		testutil.AssertNoError(t, err)
		_, err = svc.Authenticate("ivan", "old")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("delete is idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("judy@example.com", "judy", "pw")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteUser(user.ID))
		testutil.AssertNoError(t, svc.DeleteUser(user.ID))

		_, err = svc.GetUserByID(user.ID)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestListUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	for i := 0; i < 3; i++ {
		testutil.CreateTestUser(t, db)
	}

	t.Run("honors offset and limit", func(t *testing.T) {
		result, err := svc.ListUsers(pagination.ListRequest{Offset: 1, Limit: 1})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 3 {
			t.Errorf("expected total 3, got %d", result.TotalItems)
		}
		if len(result.Data) != 1 {
			t.Fatalf("expected 1 user, got %d", len(result.Data))
		}
	})

	t.Run("offset past the count yields an empty list", func(t *testing.T) {
		result, err := svc.ListUsers(pagination.ListRequest{Offset: 100})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 0 {
			t.Errorf("expected empty list, got %d users", len(result.Data))
		}
	})

	t.Run("stable order by id", func(t *testing.T) {
		result, err := svc.ListUsers(pagination.ListRequest{})
		testutil.AssertNoError(t, err)
		var prev uint
		for _, u := range result.Data {
			if u.ID <= prev {
				t.Fatalf("expected ascending ids, got %d after %d", u.ID, prev)
			}
			prev = u.ID
		}
	})
}
