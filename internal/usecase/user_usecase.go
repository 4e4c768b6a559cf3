// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SignupInput defines the data required to create an account.
type SignupInput struct {
	Name     string `json:"name" validate:"required,notblank" message:"Please Enter a Valid name"`
	Email    string `json:"email" validate:"required,email" message:"Please enter a valid email"`
	Password string `json:"password" validate:"required,min=6" message:"Please enter a valid password"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email" message:"Please enter a valid email"`
	Password string `json:"password" validate:"required,min=6" message:"Please enter a valid password"`
}

// UpdatePasswordInput defines the data required to change the caller's password.
type UpdatePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required" message:"Please enter old password"`
	Password    string `json:"password" validate:"required,min=6" message:"Please enter password"`
}

// --- Output DTOs ---

// AuthOutput is returned by signup and login.
type AuthOutput struct {
	Token   string `json:"token"`
	IsAdmin bool   `json:"isAdmin"`
	Name    string `json:"name"`
}

// CreatorView is the public part of a question author.
type CreatorView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// QuestionView is a question expanded for display inside a profile.
type QuestionView struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description,omitempty"`
	File               string       `json:"file,omitempty"`
	Links              []string     `json:"links,omitempty"`
	Tags               []string     `json:"tags,omitempty"`
	Type               string       `json:"type,omitempty"`
	Options            []string     `json:"options,omitempty"`
	CorrectAnswerIndex *int         `json:"correctAnswerIndex,omitempty"`
	CorrectAnswer      string       `json:"correctAnswer,omitempty"`
	CreatedBy          *CreatorView `json:"createdBy,omitempty"`
	CreatedByName      string       `json:"createdByName,omitempty"`
}

// AttemptView is an answered question with its outcome.
type AttemptView struct {
	Question        *QuestionView `json:"question"`
	IsAnswerCorrect int           `json:"isAnswerCorrect"`
}

// UserView is the client-facing profile. It never carries the password hash
// or the deletion flag. ID is only filled in admin listings.
type UserView struct {
	ID                 string          `json:"id,omitempty"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	IsAdmin            bool            `json:"isAdmin"`
	QuestionCreated    []*QuestionView `json:"questionCreated"`
	QuestionBookmarked []*QuestionView `json:"questionBookmarked"`
	AttemptedQuestions []*AttemptView  `json:"attemptedQuestions"`
}

// UserUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	Signup(ctx context.Context, input *SignupInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, input *UpdatePasswordInput) error
	Me(ctx context.Context, userID uuid.UUID) (*UserView, error)
	GetAllUsers(ctx context.Context) ([]*UserView, error)
	DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error

	// IsAdmin reports whether userID belongs to an active administrator.
	// Unknown and deleted users are reported as non-admins.
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}
