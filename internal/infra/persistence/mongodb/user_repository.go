package mongodb

import (
	"context"
	"time"

	"qbank/config"
	"qbank/internal/domain/entity"
	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/domain/repository"
	"qbank/internal/errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// userRepository implements the domain.UserRepository interface on the 'users' collection.
type userRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
	now     func() time.Time
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *mongo.Database, cfg *config.Config) repository.UserRepository {
	return newUserRepository(db, operationTimeout(cfg))
}

func newUserRepository(db *mongo.Database, timeout time.Duration) *userRepository {
	return &userRepository{
		coll:    db.Collection(usersCollection),
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// FindByID retrieves a single user by id, soft-deleted or not.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, "failed to find user by id")
}

// FindByEmail retrieves a single user by email, soft-deleted or not.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, bson.D{{Key: "email", Value: email}}, "failed to find user by email")
}

func (repo *userRepository) findOne(ctx context.Context, filter bson.D, details string) (*entity.User, error) {
	ctx, cancel := withTimeout(ctx, repo.timeout)
	defer cancel()

	var doc userDocument
	if err := repo.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	user, err := toUserDomain(&doc)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	return user, nil
}

// FindByIDs retrieves the users matching ids. Unknown ids are skipped.
func (repo *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idStrings(ids)}}}}

	return repo.find(ctx, filter, options.Find(), "failed to find users by ids")
}

// List returns users matching the filter, oldest first.
func (repo *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	query := bson.D{}
	if filter.ExcludeDeleted {
		// Documents written before the flag existed count as active.
		query = append(query, bson.E{Key: "isDeleted", Value: bson.D{{Key: "$ne", Value: true}}})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	return repo.find(ctx, query, opts, "failed to list users")
}

func (repo *userRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptions, details string) ([]*entity.User, error) {
	ctx, cancel := withTimeout(ctx, repo.timeout)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	users := make([]*entity.User, 0, len(docs))
	for i := range docs {
		user, err := toUserDomain(&docs[i])
		if err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, details)
		}
		users = append(users, user)
	}

	return users, nil
}

// Create inserts a new user document. The unique email index rejects duplicates.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate user id")
		}
		user.ID = id
	}

	now := repo.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	ctx, cancel := withTimeout(ctx, repo.timeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, fromUserDomain(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	return nil
}

// UpdatePassword replaces the stored password hash.
func (repo *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return repo.updateOne(ctx, id, bson.D{{Key: "password", Value: passwordHash}}, "failed to update password")
}

// MarkDeleted sets the soft-delete flag. The document itself is kept.
func (repo *userRepository) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	return repo.updateOne(ctx, id, bson.D{{Key: "isDeleted", Value: true}}, "failed to mark user deleted")
}

func (repo *userRepository) updateOne(ctx context.Context, id uuid.UUID, set bson.D, details string) error {
	ctx, cancel := withTimeout(ctx, repo.timeout)
	defer cancel()

	set = append(set, bson.E{Key: "updatedAt", Value: repo.now()})
	result, err := repo.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, details)
	}

	if result.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}
