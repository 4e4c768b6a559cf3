package postgres

import (
	"context"
	"time"

	"qbank/internal/domain/entity"
	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/domain/repository"
	"qbank/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// FindByID retrieves a single user by their unique ID, soft-deleted or not.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&userM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address, soft-deleted or not.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// FindByIDs retrieves the users matching ids. Unknown ids are skipped.
func (repo *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}

	var userMs []model.UserModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&userMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find users by ids")
	}

	return toUserDomains(userMs), nil
}

// List returns users matching the filter, oldest first.
func (repo *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	query := repo.db.WithContext(ctx).Model(&model.UserModel{})
	if filter.ExcludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var userMs []model.UserModel
	if err := query.Order("created_at ASC").Find(&userMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list users")
	}

	return toUserDomains(userMs), nil
}

// Create persists a new user entity. The unique email index rejects duplicates.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate user id")
		}
		user.ID = id
	}

	// Map the pure domain entity to a GORM persistence model.
	userM := fromUserDomain(user)
	now := repo.now()
	userM.CreatedAt = now
	userM.UpdatedAt = now

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateEmail
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// UpdatePassword replaces the stored password hash.
func (repo *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return repo.updateColumns(ctx, id, map[string]any{"password_hash": passwordHash}, "failed to update password")
}

// MarkDeleted sets the soft-delete flag. The row itself is kept.
func (repo *userRepository) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	return repo.updateColumns(ctx, id, map[string]any{"is_deleted": true}, "failed to mark user deleted")
}

func (repo *userRepository) updateColumns(ctx context.Context, id uuid.UUID, columns map[string]any, details string) error {
	columns["updated_at"] = repo.now()

	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, details)
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	attempts := make([]entity.QuestionAttempt, 0, len(data.AttemptedQuestions))
	for _, a := range data.AttemptedQuestions {
		attempts = append(attempts, entity.QuestionAttempt{
			QuestionID:      a.Question,
			IsAnswerCorrect: a.IsAnswerCorrect,
		})
	}

	return &entity.User{
		ID:                  data.ID,
		Name:                data.Name,
		Email:               data.Email,
		PasswordHash:        data.PasswordHash,
		IsAdmin:             data.IsAdmin,
		IsDeleted:           data.IsDeleted,
		QuestionsCreated:    append([]uuid.UUID{}, data.QuestionCreated...),
		QuestionsBookmarked: append([]uuid.UUID{}, data.QuestionBookmarked...),
		AttemptedQuestions:  attempts,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}

func toUserDomains(data []model.UserModel) []*entity.User {
	users := make([]*entity.User, 0, len(data))
	for i := range data {
		users = append(users, toUserDomain(&data[i]))
	}

	return users
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	attempts := make([]model.AttemptRecord, 0, len(data.AttemptedQuestions))
	for _, a := range data.AttemptedQuestions {
		attempts = append(attempts, model.AttemptRecord{
			Question:        a.QuestionID,
			IsAnswerCorrect: a.IsAnswerCorrect,
		})
	}

	return &model.UserModel{
		ID:                 data.ID,
		Name:               data.Name,
		Email:              data.Email,
		PasswordHash:       data.PasswordHash,
		IsAdmin:            data.IsAdmin,
		IsDeleted:          data.IsDeleted,
		QuestionCreated:    datatypes.NewJSONSlice(nonNilIDs(data.QuestionsCreated)),
		QuestionBookmarked: datatypes.NewJSONSlice(nonNilIDs(data.QuestionsBookmarked)),
		AttemptedQuestions: datatypes.NewJSONSlice(attempts),
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

// nonNilIDs keeps empty reference lists stored as [] rather than null.
func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}

	return ids
}
