package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/atinyakov/WikiSmart/internal/models"
)

func setupUserMock(t *testing.T) (*PostgresUserRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresUserRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, email, hashed_password, role)`)).
		WithArgs("alice", "alice@example.com", "hash", "USER").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	u, err := repo.CreateUser(context.Background(), "alice", "alice@example.com", "hash", models.RoleUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.User{ID: 7, Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	if u != want {
		t.Errorf("CreateUser = %+v; want %+v", u, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	_, err := repo.CreateUser(context.Background(), "alice", "a@b.io", "hash", models.RoleUser)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateUser_OtherError(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.CreateUser(context.Background(), "alice", "a@b.io", "hash", models.RoleUser)
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestGetByUsername(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, hashed_password, role FROM users WHERE username = $1`)).
		WithArgs("root").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "hashed_password", "role"}).
			AddRow(int64(1), "root", "root@example.com", "h", "ADMIN"))

	u, hash, err := repo.GetByUsername(context.Background(), "root")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash != "h" || !u.IsAdmin() || u.ID != 1 {
		t.Errorf("GetByUsername = %+v, %q", u, hash)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "hashed_password", "role"}))

	_, _, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, role FROM users WHERE id = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role"}).
			AddRow(int64(5), "bob", "bob@example.com", "USER"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(6).
		WillReturnError(errors.New("query failed"))

	u, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "bob" || u.Role != models.RoleUser {
		t.Errorf("GetByID = %+v", u)
	}

	if _, err := repo.GetByID(context.Background(), 6); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected query error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
