package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentModel struct {
	StudentID       uuid.UUID  `gorm:"type:uuid;primaryKey;column:student_id" json:"student_id"`
	StudentUserID   *uuid.UUID `gorm:"type:uuid;column:student_user_id" json:"student_user_id,omitempty"`
	StudentFullName string     `gorm:"column:student_full_name;not null" json:"student_full_name"`
	StudentEmail    string     `gorm:"column:student_email;not null" json:"student_email"`
	StudentNumber   string     `gorm:"column:student_number;uniqueIndex;not null" json:"student_number"`

	StudentCreatedAt time.Time  `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt *time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}
