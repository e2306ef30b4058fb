package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/nestwell/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubAuthUserRepo struct {
	users     map[string]models.User
	nextID    uint
	existsErr error
	createErr error
}

func newStubAuthUserRepo() *stubAuthUserRepo {
	return &stubAuthUserRepo{users: map[string]models.User{}, nextID: 1}
}

func (stub *stubAuthUserRepo) ExistsByNormalizedEmail(email string) (bool, error) {
	if stub.existsErr != nil {
		return false, stub.existsErr
	}
	_, ok := stub.users[email]
	return ok, nil
}

func (stub *stubAuthUserRepo) FindByNormalizedEmail(email string) (models.User, error) {
	user, ok := stub.users[email]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (stub *stubAuthUserRepo) FindByID(userID uint) (models.User, error) {
	for _, user := range stub.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *stubAuthUserRepo) Create(user *models.User) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	user.ID = stub.nextID
	stub.nextID++
	stub.users[user.Email] = *user
	return nil
}

func newTestAuthService() (*AuthService, *stubAuthUserRepo) {
	repo := newStubAuthUserRepo()
	return newAuthServiceWithCost(repo, bcrypt.MinCost), repo
}

func TestAuthServiceRegisterAndAuthenticate(t *testing.T) {
	service, repo := newTestAuthService()

	user, err := service.Register("mom@example.com", "StrongPass1", "  Anna ")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if user.ID == 0 || user.DisplayName != "Anna" {
		t.Fatalf("unexpected registered user: %#v", user)
	}
	if repo.users["mom@example.com"].PasswordHash == "StrongPass1" {
		t.Fatal("expected password to be hashed")
	}

	authenticated, err := service.Authenticate("mom@example.com", "StrongPass1")
	if err != nil {
		t.Fatalf("Authenticate() unexpected error: %v", err)
	}
	if authenticated.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, authenticated.ID)
	}
}

func TestAuthServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	service, _ := newTestAuthService()

	if _, err := service.Register("mom@example.com", "StrongPass1", ""); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if _, err := service.Register("mom@example.com", "StrongPass1", ""); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestAuthServiceRegisterRejectsWeakPassword(t *testing.T) {
	service, repo := newTestAuthService()

	if _, err := service.Register("mom@example.com", "weak", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatal("expected no user created")
	}
}

func TestAuthServiceRegisterPropagatesRepositoryErrors(t *testing.T) {
	service, repo := newTestAuthService()
	repo.createErr = errors.New("disk full")

	if _, err := service.Register("mom@example.com", "StrongPass1", ""); !errors.Is(err, repo.createErr) {
		t.Fatalf("expected wrapped create error, got %v", err)
	}
}

func TestAuthServiceAuthenticateRejectsBadCredentials(t *testing.T) {
	service, _ := newTestAuthService()
	if _, err := service.Register("mom@example.com", "StrongPass1", ""); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if _, err := service.Authenticate("mom@example.com", "WrongPass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := service.Authenticate("nobody@example.com", "StrongPass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
