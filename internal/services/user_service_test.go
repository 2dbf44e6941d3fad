package services

import (
	"errors"
	"testing"

	"github.com/sdpro1234/skin-disease-ai/internal/apperr"
	"github.com/sdpro1234/skin-disease-ai/internal/database"
)

func openTestDB(t *testing.T, name string) *UserService {
	t.Helper()
	// Shared-cache in-memory database so pooled connections see the same data.
	db, err := database.New("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewUserService(db)
}

func TestUserService_RegisterAndDuplicate(t *testing.T) {
	svc := openTestDB(t, "userreg")

	user, err := svc.Register("alice", "alice@x.com", "pw1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" || user.Username != "alice" || user.Email != "alice@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash leaked in returned user")
	}

	// Same username again
	_, err = svc.Register("alice", "alice2@x.com", "pw2")
	if !errors.Is(err, apperr.ErrUserExists) {
		t.Fatalf("duplicate username: got %v, want ErrUserExists", err)
	}

	// Same email, different username
	_, err = svc.Register("alice2", "alice@x.com", "pw2")
	if !errors.Is(err, apperr.ErrUserExists) {
		t.Fatalf("duplicate email: got %v, want ErrUserExists", err)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	svc := openTestDB(t, "userauth")

	if _, err := svc.Register("alice", "alice@x.com", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate("alice", "pw1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("authenticated as %q", user.Username)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash leaked after authentication")
	}

	// Wrong password and unknown user must be indistinguishable.
	_, wrongPw := svc.Authenticate("alice", "wrong")
	_, unknown := svc.Authenticate("nobody", "pw1")
	if !errors.Is(wrongPw, apperr.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", wrongPw)
	}
	if !errors.Is(unknown, apperr.ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v", unknown)
	}
}

func TestUserService_PasswordsAreHashed(t *testing.T) {
	svc := openTestDB(t, "userhash")

	if _, err := svc.Register("alice", "alice@x.com", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	var stored string
	row := svc.db.QueryRow("SELECT password_hash FROM users WHERE username = ?", "alice")
	if err := row.Scan(&stored); err != nil {
		t.Fatalf("read hash: %v", err)
	}
	if stored == "pw1" || stored == "" {
		t.Fatalf("password stored in the clear: %q", stored)
	}
}

func TestUserService_GetByUsername(t *testing.T) {
	svc := openTestDB(t, "userget")

	if _, err := svc.Register("alice", "alice@x.com", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.GetByUsername("alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.Email != "alice@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.GetByUsername("nobody"); err == nil {
		t.Fatal("expected error for unknown user")
	}
}
