// Package model holds the GORM persistence models of the relational store.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserModel mirrors the 'users' table. Content references are kept as JSON arrays
// because questions live outside this service.
type UserModel struct {
	ID                 uuid.UUID                          `gorm:"type:uuid;primaryKey"`
	Name               string                             `gorm:"type:varchar(100);not null"`
	Email              string                             `gorm:"type:varchar(255);uniqueIndex:idx_users_email;not null"`
	PasswordHash       string                             `gorm:"type:varchar(255);not null"`
	IsAdmin            bool                               `gorm:"not null"`
	IsDeleted          bool                               `gorm:"not null;index"`
	QuestionCreated    datatypes.JSONSlice[uuid.UUID]     `gorm:"type:jsonb"`
	QuestionBookmarked datatypes.JSONSlice[uuid.UUID]     `gorm:"type:jsonb"`
	AttemptedQuestions datatypes.JSONSlice[AttemptRecord] `gorm:"type:jsonb"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// AttemptRecord is one element of UserModel.AttemptedQuestions.
type AttemptRecord struct {
	Question        uuid.UUID `json:"question"`
	IsAnswerCorrect int       `json:"isAnswerCorrect"`
}
