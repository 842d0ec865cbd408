package repository

import (
	"testing"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/models"
)

func seedRepoUsers(t *testing.T, repo *GormUserRepository) []*models.User {
	t.Helper()
	users := []*models.User{
		{Name: "Asha", Email: "asha@example.in", PasswordHash: "x", Role: constants.RoleCustomer},
		{Name: "Vikram", Email: "vikram@example.in", PasswordHash: "x", Role: constants.RoleCustomer},
		{Name: "Ravi Patil", Email: "ravi@farm.in", PasswordHash: "x", Role: constants.RoleFarmer},
		{Name: "Admin", Email: "admin@krishisetu.local", PasswordHash: "x", Role: constants.RoleAdmin},
	}
	for _, user := range users {
		if err := repo.Create(user); err != nil {
			t.Fatalf("create user failed: %v", err)
		}
	}
	return users
}

func TestUserRepositoryLookups(t *testing.T) {
	repo := NewUserRepository(openRepositoryTestDB(t))
	users := seedRepoUsers(t, repo)

	got, err := repo.GetByEmail("  RAVI@farm.in ")
	if err != nil || got == nil || got.ID != users[2].ID {
		t.Fatalf("GetByEmail should normalise case and spaces, got %+v err=%v", got, err)
	}
	missing, err := repo.GetByEmail("nobody@example.in")
	if err != nil || missing != nil {
		t.Fatalf("missing email want nil,nil got %+v,%v", missing, err)
	}
	if none, err := repo.GetByID(0); none != nil || err != nil {
		t.Fatalf("zero id want nil,nil")
	}

	listed, err := repo.ListByIDs([]uint{users[0].ID, users[3].ID})
	if err != nil || len(listed) != 2 {
		t.Fatalf("ListByIDs want 2 got %d err=%v", len(listed), err)
	}
}

func TestUserRepositoryListAndCount(t *testing.T) {
	repo := NewUserRepository(openRepositoryTestDB(t))
	seedRepoUsers(t, repo)

	customers, total, err := repo.List(UserListFilter{Page: 1, PageSize: 1, Role: "CUSTOMER"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(customers) != 1 {
		t.Fatalf("customer page want total=2 len=1 got total=%d len=%d", total, len(customers))
	}

	found, total, err := repo.List(UserListFilter{Search: "farm.in"})
	if err != nil || total != 1 || found[0].Role != constants.RoleFarmer {
		t.Fatalf("search by email fragment failed: total=%d err=%v", total, err)
	}

	counts, err := repo.CountByRole()
	if err != nil {
		t.Fatalf("count by role failed: %v", err)
	}
	if counts[constants.RoleCustomer] != 2 || counts[constants.RoleFarmer] != 1 || counts[constants.RoleAdmin] != 1 {
		t.Fatalf("unexpected role counts: %+v", counts)
	}
}

func TestUserRepositoryDelete(t *testing.T) {
	repo := NewUserRepository(openRepositoryTestDB(t))
	users := seedRepoUsers(t, repo)

	if err := repo.Delete(users[1].ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	gone, err := repo.GetByID(users[1].ID)
	if err != nil || gone != nil {
		t.Fatalf("deleted user should not be found, got %+v err=%v", gone, err)
	}
}
