package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseModel struct {
	CourseID           uuid.UUID  `gorm:"type:uuid;primaryKey;column:course_id" json:"course_id"`
	CourseCode         string     `gorm:"column:course_code;uniqueIndex;not null" json:"course_code"`
	CourseName         string     `gorm:"column:course_name;not null" json:"course_name"`
	CourseDescription  *string    `gorm:"column:course_description" json:"course_description,omitempty"`
	CourseInstructorID *uuid.UUID `gorm:"type:uuid;column:course_instructor_id" json:"course_instructor_id,omitempty"`
	CourseIsActive     bool       `gorm:"column:course_is_active;not null;default:true" json:"course_is_active"`

	CourseCreatedAt time.Time      `gorm:"column:course_created_at;autoCreateTime" json:"course_created_at"`
	CourseUpdatedAt *time.Time     `gorm:"column:course_updated_at;autoUpdateTime" json:"course_updated_at,omitempty"`
	CourseDeletedAt gorm.DeletedAt `gorm:"column:course_deleted_at;index" json:"course_deleted_at,omitempty"`
}

func (CourseModel) TableName() string { return "courses" }

func (m *CourseModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseID == uuid.Nil {
		m.CourseID = uuid.New()
	}
	return nil
}
