package mongodb

import (
	"context"
	"testing"
	"time"

	"qbank/internal/domain/entity"
	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func userDoc(id uuid.UUID, name, email string, deleted bool, createdAt time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "name", Value: name},
		{Key: "email", Value: email},
		{Key: "password", Value: "$2a$10$hash"},
		{Key: "isAdmin", Value: false},
		{Key: "isDeleted", Value: deleted},
		{Key: "questionCreated", Value: bson.A{}},
		{Key: "questionBookmarked", Value: bson.A{}},
		{Key: "attemptedQuestions", Value: bson.A{}},
		{Key: "createdAt", Value: createdAt},
		{Key: "updatedAt", Value: createdAt},
	}
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("find by id", func(mt *mtest.T) {
		repo := newUserRepository(mt.DB, time.Second)
		id := uuid.New()
		questionID := uuid.New()

		doc := userDoc(id, "Alice", "alice@example.com", false, createdAt)
		doc = append(doc[:6:6],
			bson.E{Key: "questionCreated", Value: bson.A{questionID.String()}},
			bson.E{Key: "questionBookmarked", Value: bson.A{"not-a-uuid"}},
			bson.E{Key: "attemptedQuestions", Value: bson.A{
				bson.D{{Key: "question", Value: questionID.String()}, {Key: "isAnswerCorrect", Value: 1}},
			}},
			bson.E{Key: "createdAt", Value: createdAt},
		)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "qbank.users", mtest.FirstBatch, doc))

		user, err := repo.FindByID(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, "Alice", user.Name)
		assert.Equal(mt, "$2a$10$hash", user.PasswordHash)
		assert.Equal(mt, []uuid.UUID{questionID}, user.QuestionsCreated)
		assert.Empty(mt, user.QuestionsBookmarked)
		assert.Equal(mt, []entity.QuestionAttempt{{QuestionID: questionID, IsAnswerCorrect: 1}}, user.AttemptedQuestions)
		assert.True(mt, user.CreatedAt.Equal(createdAt))
	})

	mt.Run("find by email not found", func(mt *mtest.T) {
		repo := newUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "qbank.users", mtest.FirstBatch))

		user, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		assert.Nil(mt, user)
		assert.ErrorIs(mt, err, repository.ErrUserNotFound)
	})

	mt.Run("find by email command error", func(mt *mtest.T) {
		repo := newUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad query",
			Name:    "BadValue",
		}))

		_, err := repo.FindByEmail(context.Background(), "alice@example.com")
		require.Error(mt, err)

		var appErr domainerrors.AppError
		require.True(mt, errors.As(err, &appErr))
		assert.Equal(mt, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
	})

	mt.Run("list active users", func(mt *mtest.T) {
		repo := newUserRepository(mt.DB, 0)
		alice := uuid.New()
		bob := uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "qbank.users", mtest.FirstBatch,
			userDoc(alice, "Alice", "alice@example.com", false, createdAt),
			userDoc(bob, "Bob", "bob@example.com", false, createdAt.Add(time.Minute)),
		))

		users, err := repo.List(context.Background(), repository.UserFilter{ExcludeDeleted: true})
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, alice, users[0].ID)
		assert.Equal(mt, bob, users[1].ID)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		filter := started.Command.Lookup("filter").Document()
		assert.True(mt, filter.Lookup("isDeleted", "$ne").Boolean())
	})

	mt.Run("list treats a missing deletion flag as active", func(mt *mtest.T) {
		repo := newUserRepository(mt.DB, 0)
		legacy := uuid.New()
		doc := userDoc(legacy, "Legacy", "legacy@example.com", false, createdAt)
		withoutFlag := make(bson.D, 0, len(doc))
		for _, e := range doc {
			if e.Key != "isDeleted" {
				withoutFlag = append(withoutFlag, e)
			}
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "qbank.users", mtest.FirstBatch, withoutFlag))

		users, err := repo.List(context.Background(), repository.UserFilter{ExcludeDeleted: true})
		require.NoError(mt, err)
		require.Len(mt, users, 1)
		assert.Equal(mt, legacy, users[0].ID)
		assert.True(mt, users[0].IsActive())
	})

	mt.Run("find by ids skips empty input", func(mt *mtest.T) {
		repo := newUserRepository(mt.DB, 0)

		users, err := repo.FindByIDs(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, users)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := newUserRepository(mt.DB, 0)
		repo.now = func() time.Time { return createdAt }
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &entity.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"}
		require.NoError(mt, repo.Create(context.Background(), user))

		assert.NotEqual(mt, uuid.Nil, user.ID)
		assert.Equal(mt, uuid.Version(7), user.ID.Version())
		assert.Equal(mt, createdAt, user.CreatedAt)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
		inserted := started.Command.Lookup("documents").Array().Index(0).Value().Document()
		assert.Equal(mt, user.ID.String(), inserted.Lookup("_id").StringValue())
		assert.False(mt, inserted.Lookup("isDeleted").Boolean())
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := newUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: qbank.users index: email_unique",
		}))

		err := repo.Create(context.Background(), &entity.User{Name: "Bob", Email: "alice@example.com"})
		assert.ErrorIs(mt, err, repository.ErrDuplicateEmail)
	})

	mt.Run("update password", func(mt *mtest.T) {
		repo := newUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		require.NoError(mt, repo.UpdatePassword(context.Background(), uuid.New(), "new-hash"))
	})

	mt.Run("mark deleted unknown user", func(mt *mtest.T) {
		repo := newUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.MarkDeleted(context.Background(), uuid.New())
		assert.ErrorIs(mt, err, repository.ErrUserNotFound)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, EnsureIndexes(context.Background(), mt.DB))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "createIndexes", started.CommandName)
	})
}
