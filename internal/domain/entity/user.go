// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account in the question bank.
type User struct {
	ID                  uuid.UUID         // The Global Unique Identifier (GUID) for the user.
	Name                string            // The user's display name.
	Email               string            // Unique login identifier.
	PasswordHash        string            // bcrypt digest of the password. Never leaves the service layer.
	IsAdmin             bool              // Grants access to the administrative endpoints.
	IsDeleted           bool              // Soft-delete marker. Deleted users are kept but treated as inactive.
	QuestionsCreated    []uuid.UUID       // Questions authored by the user.
	QuestionsBookmarked []uuid.UUID       // Questions the user saved for later.
	AttemptedQuestions  []QuestionAttempt // Questions the user answered, with the outcome.
	CreatedAt           time.Time         // Timestamp of when this user account was created.
	UpdatedAt           time.Time         // Timestamp of the last modification to this user's data.
}

// QuestionAttempt records one answered question.
type QuestionAttempt struct {
	QuestionID      uuid.UUID
	IsAnswerCorrect int // 1 when the answer was correct, 0 otherwise.
}

// IsActive reports whether the account has not been soft-deleted.
func (u *User) IsActive() bool {
	return !u.IsDeleted
}

// ReferencedQuestionIDs returns every question id the user points at, without duplicates.
func (u *User) ReferencedQuestionIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(u.QuestionsCreated)+len(u.QuestionsBookmarked)+len(u.AttemptedQuestions))

	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, id := range u.QuestionsCreated {
		add(id)
	}
	for _, id := range u.QuestionsBookmarked {
		add(id)
	}
	for _, attempt := range u.AttemptedQuestions {
		add(attempt.QuestionID)
	}

	return ids
}
