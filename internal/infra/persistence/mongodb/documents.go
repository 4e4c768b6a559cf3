package mongodb

import (
	"time"

	"qbank/internal/domain/entity"
	"qbank/internal/errors"

	"github.com/google/uuid"
)

// userDocument mirrors a document of the 'users' collection. Ids are stored as uuid strings.
type userDocument struct {
	ID                 string            `bson:"_id"`
	Name               string            `bson:"name"`
	Email              string            `bson:"email"`
	Password           string            `bson:"password"`
	IsAdmin            bool              `bson:"isAdmin"`
	IsDeleted          bool              `bson:"isDeleted"`
	QuestionCreated    []string          `bson:"questionCreated"`
	QuestionBookmarked []string          `bson:"questionBookmarked"`
	AttemptedQuestions []attemptDocument `bson:"attemptedQuestions"`
	CreatedAt          time.Time         `bson:"createdAt"`
	UpdatedAt          time.Time         `bson:"updatedAt"`
}

type attemptDocument struct {
	Question        string `bson:"question"`
	IsAnswerCorrect int    `bson:"isAnswerCorrect"`
}

// questionDocument mirrors a document of the 'questions' collection.
// The description key keeps the spelling used by existing content.
type questionDocument struct {
	ID                 string        `bson:"_id"`
	Title              string        `bson:"title"`
	Description        string        `bson:"descrption"`
	File               string        `bson:"file,omitempty"`
	Links              []string      `bson:"links"`
	Tags               []string      `bson:"tags"`
	Type               string        `bson:"type"`
	Options            []string      `bson:"options"`
	CorrectAnswerIndex *int          `bson:"correctAnswerIndex,omitempty"`
	CorrectAnswer      string        `bson:"correctAnswer,omitempty"`
	CreatedByRef       string        `bson:"createdByRef"`
	CreatedByInfo      createdByInfo `bson:"createdByInfo"`
	CreatedAt          time.Time     `bson:"createdAt"`
	UpdatedAt          time.Time     `bson:"updatedAt"`
}

type createdByInfo struct {
	Name string `bson:"name"`
}

func fromUserDomain(u *entity.User) *userDocument {
	attempts := make([]attemptDocument, 0, len(u.AttemptedQuestions))
	for _, a := range u.AttemptedQuestions {
		attempts = append(attempts, attemptDocument{
			Question:        a.QuestionID.String(),
			IsAnswerCorrect: a.IsAnswerCorrect,
		})
	}

	return &userDocument{
		ID:                 u.ID.String(),
		Name:               u.Name,
		Email:              u.Email,
		Password:           u.PasswordHash,
		IsAdmin:            u.IsAdmin,
		IsDeleted:          u.IsDeleted,
		QuestionCreated:    idStrings(u.QuestionsCreated),
		QuestionBookmarked: idStrings(u.QuestionsBookmarked),
		AttemptedQuestions: attempts,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func toUserDomain(d *userDocument) (*entity.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid user id %q", d.ID)
	}

	attempts := make([]entity.QuestionAttempt, 0, len(d.AttemptedQuestions))
	for _, a := range d.AttemptedQuestions {
		questionID, err := uuid.Parse(a.Question)
		if err != nil {
			continue
		}
		attempts = append(attempts, entity.QuestionAttempt{
			QuestionID:      questionID,
			IsAnswerCorrect: a.IsAnswerCorrect,
		})
	}

	return &entity.User{
		ID:                  id,
		Name:                d.Name,
		Email:               d.Email,
		PasswordHash:        d.Password,
		IsAdmin:             d.IsAdmin,
		IsDeleted:           d.IsDeleted,
		QuestionsCreated:    parseIDs(d.QuestionCreated),
		QuestionsBookmarked: parseIDs(d.QuestionBookmarked),
		AttemptedQuestions:  attempts,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}, nil
}

func toQuestionDomain(d *questionDocument) (*entity.Question, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid question id %q", d.ID)
	}
	createdBy, _ := uuid.Parse(d.CreatedByRef)

	return &entity.Question{
		ID:                 id,
		Title:              d.Title,
		Description:        d.Description,
		File:               d.File,
		Links:              d.Links,
		Tags:               parseIDs(d.Tags),
		Type:               d.Type,
		Options:            d.Options,
		CorrectAnswerIndex: d.CorrectAnswerIndex,
		CorrectAnswer:      d.CorrectAnswer,
		CreatedBy:          createdBy,
		CreatedByName:      d.CreatedByInfo.Name,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}

	return out
}

// parseIDs converts stored id strings, skipping any that are not uuids.
func parseIDs(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, id)
	}

	return out
}
