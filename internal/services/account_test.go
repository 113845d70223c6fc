package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/diewo77/faculty-records/internal/models"
)

type recordingCache struct{ invalidated []uint }

func (c *recordingCache) Invalidate(userID uint) { c.invalidated = append(c.invalidated, userID) }

func TestRegisterAndAuthenticate(t *testing.T) {
	gdb := setupTestDB(t, t.Name())
	svc := NewAccountService(gdb, nil)

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "ravi", Email: "Ravi@Example.edu", Password: "secret123", FirstName: "Ravi",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ravi@example.edu" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if !u.HasRole(models.RoleFaculty) {
		t.Error("new account should hold the faculty role")
	}

	got, err := svc.Authenticate(context.Background(), "ravi", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("user id = %d, want %d", got.ID, u.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "ravi", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	gdb := setupTestDB(t, t.Name())
	svc := NewAccountService(gdb, nil)

	in := RegisterInput{Username: "asha", Email: "asha@example.edu", Password: "pw"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("got %v, want duplicate_username", err)
	}
	in.Username = "asha2"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("got %v, want duplicate_email", err)
	}
}

func TestAuthenticateDeactivated(t *testing.T) {
	gdb := setupTestDB(t, t.Name())
	cache := &recordingCache{}
	svc := NewAccountService(gdb, cache)

	u, err := svc.Register(context.Background(), RegisterInput{Username: "old", Email: "old@example.edu", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Deactivate(context.Background(), u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(context.Background(), "old", "pw"); !errors.Is(err, ErrInactive) {
		t.Errorf("got %v, want account_inactive", err)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != u.ID {
		t.Errorf("invalidated = %v", cache.invalidated)
	}

	if err := svc.Deactivate(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	gdb := setupTestDB(t, t.Name())
	svc := NewAccountService(gdb, nil)

	u, err := svc.Register(context.Background(), RegisterInput{Username: "pw", Email: "pw@example.edu", Password: "first"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ChangePassword(context.Background(), u.ID, "wrong", "second"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong current password: got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), u.ID, "first", "second"); err != nil {
		t.Fatalf("change: %v", err)
	}

	var cur models.User
	if err := gdb.First(&cur, u.ID).Error; err != nil {
		t.Fatal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(cur.PasswordHash), []byte("second")) != nil {
		t.Error("new password not set")
	}
}

func TestSetRoles(t *testing.T) {
	gdb := setupTestDB(t, t.Name())
	cache := &recordingCache{}
	svc := NewAccountService(gdb, cache)

	u, err := svc.Register(context.Background(), RegisterInput{Username: "hodder", Email: "hod@example.edu", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SetRoles(context.Background(), u.ID, []string{models.RoleHOD, models.RoleFaculty}); err != nil {
		t.Fatalf("set roles: %v", err)
	}
	if len(cache.invalidated) != 1 {
		t.Errorf("invalidated = %v", cache.invalidated)
	}

	var cur models.User
	if err := gdb.Preload("Roles").First(&cur, u.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !cur.IsHOD() || !cur.IsFaculty() || cur.IsAdmin() {
		t.Errorf("roles = %+v", cur.Roles)
	}

	if err := svc.SetRoles(context.Background(), u.ID, []string{"emperor"}); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("unknown role: got %v", err)
	}
}
