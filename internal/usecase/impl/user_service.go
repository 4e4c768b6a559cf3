// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "qbank/internal/delivery/context"
	"qbank/internal/domain/entity"
	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/domain/repository"
	"qbank/internal/domain/service"
	"qbank/internal/usecase"
	"qbank/internal/validation"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo     repository.UserRepository
	questionRepo repository.QuestionRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	publisher    service.EventPublisher
	validator    *validation.Validator
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	QuestionRepo repository.QuestionRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Publisher    service.EventPublisher
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo:     params.UserRepo,
		questionRepo: params.QuestionRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		publisher:    params.Publisher,
		validator:    validation.Default(),
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup creates an account and signs the new user in.
func (srv *userService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.AuthOutput, error) {
	if err := srv.validator.Struct(input); err != nil {
		srv.log(ctx).Warn("Signup input rejected", slog.Any("violations", domainerrors.Violations(err)))

		return nil, err
	}

	srv.log(ctx).Info("Starting signup", slog.String("email", input.Email))

	_, err := srv.userRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		srv.log(ctx).Warn("Signup with registered email", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrEmailTaken, "email already registered")
	case !errors.Is(err, repository.ErrUserNotFound):
		srv.log(ctx).Error("Failed to look up email during signup", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during signup")
	}

	newUser := &entity.User{
		Name:                input.Name,
		Email:               input.Email,
		PasswordHash:        hashedPassword,
		QuestionsCreated:    []uuid.UUID{},
		QuestionsBookmarked: []uuid.UUID{},
		AttemptedQuestions:  []entity.QuestionAttempt{},
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		// Lost a race against a concurrent signup; the unique index decided.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errors.Wrap(domainerrors.ErrEmailTaken, "email already registered")
		}
		srv.log(ctx).Error("Failed to create user", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create user during signup")
	}

	output, err := srv.authenticate(newUser)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token after signup", slog.Any("userID", newUser.ID), slog.Any("error", err))

		return nil, err
	}

	srv.publish(ctx, service.EventUserRegistered, newUser.ID, uuid.Nil)
	srv.log(ctx).Debug("Signup completed", slog.Any("userID", newUser.ID))

	return output, nil
}

// Login verifies credentials and issues a token. Unknown, deleted and
// mismatched accounts all surface as ErrInvalidCredentials.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	if err := srv.validator.Struct(input); err != nil {
		srv.log(ctx).Warn("Login input rejected", slog.Any("violations", domainerrors.Violations(err)))

		return nil, err
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Warn("Login for unknown email", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "user not found")
	}
	if err != nil {
		srv.log(ctx).Error("Failed to look up user during login", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !user.IsActive() {
		srv.log(ctx).Warn("Login for deleted user", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "user is deleted")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch during login", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	output, err := srv.authenticate(user)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token during login", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("User logged in", slog.Any("userID", user.ID), slog.String("role", entity.RoleOf(user).String()))

	return output, nil
}

// UpdatePassword replaces the caller's password after checking the current one.
func (srv *userService) UpdatePassword(ctx context.Context, userID uuid.UUID, input *usecase.UpdatePasswordInput) error {
	user, err := srv.loadActiveUser(ctx, userID)
	if err != nil {
		return err
	}

	if !srv.hasher.Check(input.OldPassword, user.PasswordHash) {
		srv.log(ctx).Warn("Old password mismatch", slog.Any("userID", userID))

		return errors.Wrap(domainerrors.ErrIncorrectPassword, "old password mismatch")
	}

	if err := srv.validator.Struct(input); err != nil {
		srv.log(ctx).Warn("New password rejected", slog.Any("userID", userID), slog.Any("violations", domainerrors.Violations(err)))

		return err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash new password", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to hash new password")
	}

	if err := srv.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrUserNotFound, "user disappeared during password update")
		}
		srv.log(ctx).Error("Failed to persist new password", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to update password")
	}

	srv.publish(ctx, service.EventUserPasswordUpdated, userID, uuid.Nil)
	srv.log(ctx).Info("Password updated", slog.Any("userID", userID))

	return nil
}

// Me returns the caller's profile with its content lists expanded.
func (srv *userService) Me(ctx context.Context, userID uuid.UUID) (*usecase.UserView, error) {
	user, err := srv.loadActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views, err := srv.buildUserViews(ctx, []*entity.User{user}, false)
	if err != nil {
		return nil, err
	}

	return views[0], nil
}

// GetAllUsers lists every active user with expanded content lists.
func (srv *userService) GetAllUsers(ctx context.Context) ([]*usecase.UserView, error) {
	users, err := srv.userRepo.List(ctx, repository.UserFilter{ExcludeDeleted: true})
	if err != nil {
		srv.log(ctx).Error("Failed to list users", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list users")
	}

	views, err := srv.buildUserViews(ctx, users, true)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Listed users", slog.Int("count", len(views)))

	return views, nil
}

// DeleteUser soft-deletes userID on behalf of actorID.
func (srv *userService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if err := srv.userRepo.MarkDeleted(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Delete of unknown user", slog.Any("userID", userID))

			return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}
		srv.log(ctx).Error("Failed to delete user", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to mark user deleted")
	}

	srv.publish(ctx, service.EventUserDeleted, userID, actorID)
	srv.log(ctx).Info("User deleted", slog.Any("userID", userID), slog.Any("actorID", actorID))

	return nil
}

// IsAdmin reports whether userID is an active administrator.
func (srv *userService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to find user by id")
	}

	return user.IsActive() && entity.RoleOf(user) == entity.RoleAdmin, nil
}

func (srv *userService) loadActiveUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Warn("Token subject not found", slog.Any("userID", userID))

		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
	}
	if err != nil {
		srv.log(ctx).Error("Failed to load user", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	if !user.IsActive() {
		srv.log(ctx).Warn("Token subject is deleted", slog.Any("userID", userID))

		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user is deleted")
	}

	return user, nil
}

func (srv *userService) authenticate(user *entity.User) (*usecase.AuthOutput, error) {
	token, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}

	return &usecase.AuthOutput{
		Token:   token,
		IsAdmin: user.IsAdmin,
		Name:    user.Name,
	}, nil
}

// publish emits an account event. Failures are logged and never returned.
func (srv *userService) publish(ctx context.Context, eventType string, userID, actorID uuid.UUID) {
	if srv.publisher == nil {
		return
	}

	event := &service.AccountEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		EventID:    uuid.NewString(),
		Type:       eventType,
		UserID:     userID.String(),
		OccurredAt: time.Now().UTC(),
	}
	if actorID != uuid.Nil {
		event.ActorID = actorID.String()
	}

	if err := srv.publisher.PublishAccountEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish account event",
			slog.String("type", eventType),
			slog.Any("userID", userID),
			slog.Any("error", err),
		)
	}
}
