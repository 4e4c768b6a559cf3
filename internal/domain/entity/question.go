package entity

import (
	"time"

	"github.com/google/uuid"
)

// Question is a question-bank item. Accounts only reference questions by id;
// the fields here are what the profile views need to display them.
type Question struct {
	ID                 uuid.UUID
	Title              string
	Description        string
	File               string
	Links              []string
	Tags               []uuid.UUID
	Type               string
	Options            []string
	CorrectAnswerIndex *int
	CorrectAnswer      string
	CreatedBy          uuid.UUID // Author reference.
	CreatedByName      string    // Author name captured when the question was written.
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
