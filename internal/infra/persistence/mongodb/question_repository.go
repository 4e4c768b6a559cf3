package mongodb

import (
	"context"
	"time"

	"qbank/config"
	"qbank/internal/domain/entity"
	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/domain/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// questionRepository reads the 'questions' collection for profile expansion.
type questionRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewQuestionRepository is the constructor for questionRepository.
func NewQuestionRepository(db *mongo.Database, cfg *config.Config) repository.QuestionRepository {
	return &questionRepository{
		coll:    db.Collection(questionsCollection),
		timeout: operationTimeout(cfg),
	}
}

// FindByIDs retrieves the questions matching ids. Unknown ids are skipped.
func (repo *questionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Question, error) {
	if len(ids) == 0 {
		return []*entity.Question{}, nil
	}

	ctx, cancel := withTimeout(ctx, repo.timeout)
	defer cancel()

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idStrings(ids)}}}}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find questions by ids")
	}

	var docs []questionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to decode questions")
	}

	questions := make([]*entity.Question, 0, len(docs))
	for i := range docs {
		q, err := toQuestionDomain(&docs[i])
		if err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to decode questions")
		}
		questions = append(questions, q)
	}

	return questions, nil
}
