package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubmissionStatusDraft     = "draft"
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusLate      = "late"
	SubmissionStatusGraded    = "graded"
	SubmissionStatusReturned  = "returned"
)

type SubmissionModel struct {
	SubmissionID           uuid.UUID `gorm:"type:uuid;primaryKey;column:submission_id" json:"submission_id"`
	SubmissionAssignmentID uuid.UUID `gorm:"type:uuid;not null;column:submission_assignment_id;uniqueIndex:uq_submissions_assignment_enrollment" json:"submission_assignment_id"`
	SubmissionEnrollmentID uuid.UUID `gorm:"type:uuid;not null;column:submission_enrollment_id;uniqueIndex:uq_submissions_assignment_enrollment" json:"submission_enrollment_id"`

	SubmissionStatus  string  `gorm:"column:submission_status;not null;default:draft" json:"submission_status"`
	SubmissionContent *string `gorm:"column:submission_content" json:"submission_content,omitempty"`
	SubmissionFileURL *string `gorm:"column:submission_file_url" json:"submission_file_url,omitempty"`

	SubmissionGrade    *float64 `gorm:"column:submission_grade" json:"submission_grade,omitempty"`
	SubmissionFeedback *string  `gorm:"column:submission_feedback" json:"submission_feedback,omitempty"`

	SubmissionSubmittedAt *time.Time `gorm:"column:submission_submitted_at" json:"submission_submitted_at,omitempty"`
	// Turunan dari perbandingan submitted_at vs due_date assignment
	SubmissionIsLate   bool `gorm:"column:submission_is_late;not null;default:false" json:"submission_is_late"`
	SubmissionLateDays int  `gorm:"column:submission_late_days;not null;default:0" json:"submission_late_days"`

	SubmissionGradedBy *uuid.UUID `gorm:"type:uuid;column:submission_graded_by" json:"submission_graded_by,omitempty"`
	SubmissionGradedAt *time.Time `gorm:"column:submission_graded_at" json:"submission_graded_at,omitempty"`

	SubmissionCreatedAt time.Time  `gorm:"column:submission_created_at;autoCreateTime" json:"submission_created_at"`
	SubmissionUpdatedAt *time.Time `gorm:"column:submission_updated_at;autoUpdateTime" json:"submission_updated_at,omitempty"`
}

func (SubmissionModel) TableName() string { return "submissions" }

func (m *SubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubmissionID == uuid.Nil {
		m.SubmissionID = uuid.New()
	}
	return nil
}

func (m *SubmissionModel) IsGraded() bool {
	return m.SubmissionStatus == SubmissionStatusGraded && m.SubmissionGrade != nil
}
