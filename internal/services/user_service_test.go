package services

import (
	"errors"
	"testing"

	"github.com/pritamkumarbishwas/backend/internal/models"
)

func newUserFixture() (UserService, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewUserService(users, nil, NewAuthService()), users
}

func TestRegisterValidatesRequiredFields(t *testing.T) {
	svc, _ := newUserFixture()

	cases := []models.RegisterRequest{
		{Email: "a@example.com", Password: "secret"},
		{Name: "Alice", Password: "secret"},
		{Name: "Alice", Email: "a@example.com"},
	}
	for _, req := range cases {
		if _, err := svc.Register(&req); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Register(%+v): err = %v, want ErrInvalidRequest", req, err)
		}
	}
}

func TestRegisterHashesPasswordAndDefaultsPic(t *testing.T) {
	svc, _ := newUserFixture()

	user, err := svc.Register(&models.RegisterRequest{Name: "Alice", Email: "a@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret" {
		t.Errorf("password stored unhashed")
	}
	if user.Pic != models.DefaultPic {
		t.Errorf("pic = %q, want default avatar", user.Pic)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture()

	req := models.RegisterRequest{Name: "Alice", Email: "a@example.com", Password: "secret"}
	if _, err := svc.Register(&req); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(&req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: err = %v, want ErrEmailTaken", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newUserFixture()
	if _, err := svc.Register(&models.RegisterRequest{Name: "Alice", Email: "a@example.com", Password: "secret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := svc.Authenticate("a@example.com", "secret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Name != "Alice" {
		t.Errorf("name = %q, want Alice", user.Name)
	}

	if _, err := svc.Authenticate("a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSearchExcludesCaller(t *testing.T) {
	svc, users := newUserFixture()
	alice := users.add("Alice", "alice@example.com")
	users.add("Bob", "bob@example.com")
	users.add("Bobby", "bobby@example.com")

	found, err := svc.Search("bob", alice.ID)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("found %d users, want 2", len(found))
	}

	all, err := svc.Search("", alice.ID)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, u := range all {
		if u.ID == alice.ID {
			t.Errorf("caller included in search results")
		}
	}
}
