package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"qbank/internal/domain/entity"
	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	id := uuid.New()
	questionID := uuid.New()
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			id.String(), "Alice", "alice@example.com", "hash", true, false,
			`["`+questionID.String()+`"]`, `[]`,
			`[{"question":"`+questionID.String()+`","isAnswerCorrect":1}]`,
			createdAt, createdAt,
		))

	user, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, []uuid.UUID{questionID}, user.QuestionsCreated)
	assert.Empty(t, user.QuestionsBookmarked)
	assert.Equal(t, []entity.QuestionAttempt{{QuestionID: questionID, IsAnswerCorrect: 1}}, user.AttemptedQuestions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
}

func TestUserRepository_List_ExcludesDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE is_deleted = $1 ORDER BY created_at ASC`)).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(uuid.NewString(), "Alice", "alice@example.com", "h1", false, false, `[]`, `[]`, `[]`, now, now).
			AddRow(uuid.NewString(), "Bob", "bob@example.com", "h2", false, false, `[]`, `[]`, `[]`, now, now))

	users, err := repo.List(context.Background(), repository.UserFilter{ExcludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDs_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	users, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &entity.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))

	assert.Equal(t, uuid.Version(7), user.ID.Version())
	assert.False(t, user.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})

	err := repo.Create(context.Background(), &entity.User{Name: "Bob", Email: "alice@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), uuid.New(), "new-hash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_MarkDeleted_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkDeleted(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_FindByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestionRepository(db)

	questionID := uuid.New()
	creatorID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "questions" WHERE id IN ($1,$2)`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "file", "links", "tags", "type", "options",
			"correct_answer_index", "correct_answer", "created_by", "created_by_name",
			"created_at", "updated_at",
		}).AddRow(
			questionID.String(), "Two sum", "Find two numbers", "", `["https://example.com"]`, `[]`, "mcq", `["a","b"]`,
			1, "", creatorID.String(), "Bob", now, now,
		))

	questions, err := repo.FindByIDs(context.Background(), []uuid.UUID{questionID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, questionID, q.ID)
	assert.Equal(t, []string{"https://example.com"}, q.Links)
	assert.Equal(t, []string{"a", "b"}, q.Options)
	require.NotNil(t, q.CorrectAnswerIndex)
	assert.Equal(t, 1, *q.CorrectAnswerIndex)
	assert.Equal(t, creatorID, q.CreatedBy)
	require.NoError(t, mock.ExpectationsWereMet())
}
