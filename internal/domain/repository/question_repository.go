package repository

import (
	"context"

	"qbank/internal/domain/entity"

	"github.com/google/uuid"
)

// QuestionRepository is the read-side lookup the account views join against.
type QuestionRepository interface {
	// FindByIDs retrieves the questions matching ids. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Question, error)
}
