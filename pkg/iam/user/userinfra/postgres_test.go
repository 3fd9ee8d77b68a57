package userinfra_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/rbac"
	"github.com/texamhq/texam/pkg/iam/user"
	"github.com/texamhq/texam/pkg/iam/user/userinfra"
	"github.com/texamhq/texam/pkg/kernel"
)

func newMockRepo(t *testing.T) (user.UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return userinfra.NewPostgresUserRepository(sqlx.NewDb(db, "postgres")), mock
}

func userColumns() []string {
	return []string{"id", "username", "email", "name", "picture", "created_at", "updated_at"}
}

func sampleUser() user.User {
	email := "alice@example.com"
	now := time.Now().UTC()
	return user.User{
		ID:        kernel.NewUserID("user-1"),
		Username:  email,
		Email:     &email,
		Name:      "Alice",
		Picture:   "https://cdn.example.com/alice.png",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestFindByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT \\* FROM users WHERE email").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("user-1", "alice@example.com", "alice@example.com", "Alice", "", now, now))

	u, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u.ID != kernel.NewUserID("user-1") {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT \\* FROM users WHERE email").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	if !errx.IsType(err, errx.TypeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestCreate_UniqueViolationIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), sampleUser())
	if err == nil {
		t.Fatal("expected the unique violation to surface")
	}
	if !errx.IsType(err, errx.TypeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateWithRole_CommitsBothRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := sampleUser()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT id FROM roles WHERE name").
		WithArgs(rbac.RoleMember).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("role-member"))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(sqlmock.AnyArg(), "user-1", "role-member").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.CreateWithRole(context.Background(), u, rbac.RoleMember); err != nil {
		t.Fatalf("CreateWithRole: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateWithRole_MissingRoleRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := sampleUser()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT id FROM roles WHERE name").
		WithArgs("Ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.CreateWithRole(context.Background(), u, "Ghost")
	if err == nil {
		t.Fatal("expected a grant failure")
	}
	if !errx.IsType(err, errx.TypeInternal) {
		t.Fatalf("grant failures must be internal so callers can retry the bare insert, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateProfile_ZeroRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users SET name").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProfile(context.Background(), sampleUser())
	if !errx.IsType(err, errx.TypeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
