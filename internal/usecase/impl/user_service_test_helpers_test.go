package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"qbank/config"
	"qbank/internal/domain/entity"
	"qbank/internal/domain/repository"
	"qbank/internal/domain/service"
	"qbank/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost: bcrypt.MinCost,
		},
	}
	cfg.SecretKey.Access = "usecase_test_secret"

	return cfg
}

func newTestHasher() service.PasswordHasher {
	return auth.NewBcryptHasherWithCost(bcrypt.MinCost)
}

func newTestTokenService(t *testing.T) service.TokenService {
	t.Helper()

	tokens, err := auth.NewJWTService(newTestConfig())
	require.NoError(t, err)

	return tokens
}

func mustHash(t *testing.T, password string) string {
	t.Helper()

	hash, err := newTestHasher().Hash(password)
	require.NoError(t, err)

	return hash
}

// memoryUserRepository is an in-memory UserRepository used for end-to-end flows.
type memoryUserRepository struct {
	mu    sync.Mutex
	users []*entity.User
}

func (r *memoryUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			clone := *u

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memoryUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	found := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if u, err := r.FindByID(ctx, id); err == nil {
			found = append(found, u)
		}
	}

	return found, nil
}

func (r *memoryUserRepository) List(_ context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.ExcludeDeleted && u.IsDeleted {
			continue
		}
		clone := *u
		users = append(users, &clone)
	}

	return users, nil
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	clone := *user
	r.users = append(r.users, &clone)

	return nil
}

func (r *memoryUserRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	return r.update(id, func(u *entity.User) { u.PasswordHash = passwordHash })
}

func (r *memoryUserRepository) MarkDeleted(_ context.Context, id uuid.UUID) error {
	return r.update(id, func(u *entity.User) { u.IsDeleted = true })
}

func (r *memoryUserRepository) update(id uuid.UUID, fn func(*entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			fn(u)

			return nil
		}
	}

	return repository.ErrUserNotFound
}

// noopQuestionRepository resolves no questions.
type noopQuestionRepository struct{}

func (noopQuestionRepository) FindByIDs(context.Context, []uuid.UUID) ([]*entity.Question, error) {
	return nil, nil
}
