package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuestionModel mirrors the 'questions' table.
type QuestionModel struct {
	ID                 uuid.UUID                      `gorm:"type:uuid;primaryKey"`
	Title              string                         `gorm:"type:text;not null"`
	Description        string                         `gorm:"type:text"`
	File               string                         `gorm:"type:text"`
	Links              datatypes.JSONSlice[string]    `gorm:"type:jsonb"`
	Tags               datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb"`
	Type               string                         `gorm:"type:varchar(50)"`
	Options            datatypes.JSONSlice[string]    `gorm:"type:jsonb"`
	CorrectAnswerIndex *int
	CorrectAnswer      string    `gorm:"type:text"`
	CreatedBy          uuid.UUID `gorm:"type:uuid;index"`
	CreatedByName      string    `gorm:"type:varchar(100)"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (QuestionModel) TableName() string {
	return "questions"
}
