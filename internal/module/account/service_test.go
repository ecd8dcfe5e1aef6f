package account

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/bazarche/bazarche/internal/domain"
)

const testSecret = "unit-test-secret-not-for-production!!"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) domain.AccountService {
	t.Helper()
	return NewAccountService(NewUserRepository(db), testSecret, time.Hour)
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Ahmad ", "Ahmad@Example.COM", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected a non-zero id")
	}
	if user.Name != "Ahmad" {
		t.Errorf("Name = %q; want trimmed", user.Name)
	}
	if user.Email != "ahmad@example.com" {
		t.Errorf("Email = %q; want lowercased", user.Email)
	}
	if user.Admin {
		t.Error("registration must never grant the admin flag")
	}
	if user.PasswordHash == "s3cret-pass" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestRegister_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "a@b.com", "password1"},
		{"single rune name", "x", "a@b.com", "password1"},
		{"name too long", strings.Repeat("n", 101), "a@b.com", "password1"},
		{"empty email", "Ahmad", "", "password1"},
		{"malformed email", "Ahmad", "not-an-email", "password1"},
		{"password too short", "Ahmad", "a@b.com", "short"},
		{"password too long", "Ahmad", "a@b.com", strings.Repeat("p", 73)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.userName, tt.email, tt.password); !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ahmad", "a@b.com", "password1"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	// Same address with different casing still collides.
	if _, err := svc.Register(ctx, "Other", "A@B.com", "password2"); !domain.IsAlreadyExists(err) {
		t.Errorf("expected already-exists error, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ahmad", "a@b.com", "password1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := svc.Login(ctx, "A@B.com ", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a signed token")
	}
	if exp := time.Unix(resp.ExpiresAt, 0); time.Until(exp) < 55*time.Minute {
		t.Errorf("ExpiresAt = %v; want roughly one hour out", exp)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ahmad", "a@b.com", "password1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// An unknown address and a wrong password fail identically.
	for _, tt := range []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@b.com", "password1"},
		{"wrong password", "a@b.com", "wrong-pass"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.email, tt.password)
			if !domain.IsUnauthorized(err) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			if err.Error() != errBadCredentials.Error() {
				t.Errorf("message = %q; failures must be indistinguishable", err.Error())
			}
		})
	}
}
