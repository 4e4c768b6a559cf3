package postgres

import (
	"context"

	"qbank/internal/domain/entity"
	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/domain/repository"
	"qbank/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// questionRepository implements the domain.QuestionRepository interface using GORM.
type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository is the constructor for questionRepository.
func NewQuestionRepository(db *gorm.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

// FindByIDs retrieves the questions matching ids. Unknown ids are skipped.
func (repo *questionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Question, error) {
	if len(ids) == 0 {
		return []*entity.Question{}, nil
	}

	var questionMs []model.QuestionModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&questionMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find questions by ids")
	}

	questions := make([]*entity.Question, 0, len(questionMs))
	for i := range questionMs {
		questions = append(questions, toQuestionDomain(&questionMs[i]))
	}

	return questions, nil
}

func toQuestionDomain(data *model.QuestionModel) *entity.Question {
	return &entity.Question{
		ID:                 data.ID,
		Title:              data.Title,
		Description:        data.Description,
		File:               data.File,
		Links:              append([]string{}, data.Links...),
		Tags:               append([]uuid.UUID{}, data.Tags...),
		Type:               data.Type,
		Options:            append([]string{}, data.Options...),
		CorrectAnswerIndex: data.CorrectAnswerIndex,
		CorrectAnswer:      data.CorrectAnswer,
		CreatedBy:          data.CreatedBy,
		CreatedByName:      data.CreatedByName,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}
