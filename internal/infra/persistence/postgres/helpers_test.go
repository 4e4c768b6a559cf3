package postgres

import (
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newMockDB opens GORM on top of sqlmock so repositories can be tested without a server.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(newDiscardLogger(), nil),
	})
	require.NoError(t, err)

	return db, mock
}

var userColumns = []string{
	"id", "name", "email", "password_hash", "is_admin", "is_deleted",
	"question_created", "question_bookmarked", "attempted_questions",
	"created_at", "updated_at",
}
