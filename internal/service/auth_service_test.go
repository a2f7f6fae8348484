package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tollway/internal/models"
	"tollway/internal/password"
	"tollway/internal/repository"
)

type fakeUserRepo struct {
	users   map[string]*models.User
	updated map[string]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   map[string]*models.User{},
		updated: map[string]string{},
	}
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	copied := *user
	f.users[user.Username] = &copied
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	user, ok := f.users[username]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	f.updated[username] = passwordHash
	return nil
}

func (f *fakeUserRepo) ListUsernames(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(f.users))
	for name := range f.users {
		names = append(names, name)
	}
	return names, nil
}

func newTestAuthService(t *testing.T, repo UserRepository) *AuthService {
	t.Helper()
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(repo, hasher, tokens, zap.NewNop())
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["admin"] = &models.User{
		Username:     "admin",
		PasswordHash: mustHash(t, "freepasses4all"),
		Role:         models.RoleAdmin,
	}
	svc := newTestAuthService(t, repo)

	token, err := svc.Login(context.Background(), "admin", "freepasses4all")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.Username != "admin" || claims.Role != models.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["admin"] = &models.User{
		Username:     "admin",
		PasswordHash: mustHash(t, "right"),
		Role:         models.RoleAdmin,
	}
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginEmptyInput(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty username, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "admin", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestUpsertUserCreatesWithNormalRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	created, err := svc.UpsertUser(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	if !created {
		t.Fatalf("expected user to be created")
	}

	user := repo.users["alice"]
	if user == nil {
		t.Fatalf("user not stored")
	}
	if user.Role != models.RoleNormal {
		t.Fatalf("expected role normal, got %q", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUpsertUserRotatesPasswordKeepingRole(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["op_am"] = &models.User{
		Username:     "op_am",
		PasswordHash: mustHash(t, "old"),
		Role:         models.RoleOperator,
		OperatorID:   "AM",
	}
	svc := newTestAuthService(t, repo)

	created, err := svc.UpsertUser(context.Background(), "op_am", "new")
	if err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	if created {
		t.Fatalf("expected existing user, not created")
	}
	if _, ok := repo.updated["op_am"]; !ok {
		t.Fatalf("expected password update")
	}
	if repo.users["op_am"].Role != models.RoleOperator {
		t.Fatalf("role must survive password rotation")
	}
}
