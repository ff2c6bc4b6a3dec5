package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusDropped   = "dropped"
)

type EnrollmentModel struct {
	EnrollmentID        uuid.UUID `gorm:"type:uuid;primaryKey;column:enrollment_id" json:"enrollment_id"`
	EnrollmentStudentID uuid.UUID `gorm:"type:uuid;not null;column:enrollment_student_id;uniqueIndex:uq_enrollments_student_course" json:"enrollment_student_id"`
	EnrollmentCourseID  uuid.UUID `gorm:"type:uuid;not null;column:enrollment_course_id;uniqueIndex:uq_enrollments_student_course" json:"enrollment_course_id"`
	EnrollmentDate      time.Time `gorm:"type:date;not null;column:enrollment_date" json:"enrollment_date"`
	EnrollmentStatus    string    `gorm:"column:enrollment_status;not null;default:active" json:"enrollment_status"`

	// Cache hasil GradingService.CalculateFinalGrade — bukan sumber kebenaran.
	// Hanya ditulis lewat EnrollmentService.UpdateFinalGrade.
	EnrollmentFinalGrade *float64 `gorm:"column:enrollment_final_grade" json:"enrollment_final_grade,omitempty"`

	EnrollmentCreatedAt time.Time  `gorm:"column:enrollment_created_at;autoCreateTime" json:"enrollment_created_at"`
	EnrollmentUpdatedAt *time.Time `gorm:"column:enrollment_updated_at;autoUpdateTime" json:"enrollment_updated_at,omitempty"`
}

func (EnrollmentModel) TableName() string { return "enrollments" }

func (m *EnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.EnrollmentID == uuid.Nil {
		m.EnrollmentID = uuid.New()
	}
	return nil
}

func (m *EnrollmentModel) IsActive() bool {
	return m.EnrollmentStatus == EnrollmentStatusActive
}

func (m *EnrollmentModel) IsCompleted() bool {
	return m.EnrollmentStatus == EnrollmentStatusCompleted
}
