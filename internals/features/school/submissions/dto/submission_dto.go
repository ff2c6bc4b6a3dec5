package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAssignmentRequest struct {
	AssignmentCourseID       uuid.UUID `json:"assignment_course_id" validate:"required"`
	AssignmentTitle          string    `json:"assignment_title" validate:"required,max=200"`
	AssignmentDesc           *string   `json:"assignment_description" validate:"omitempty,max=2000"`
	AssignmentDueDate        time.Time `json:"assignment_due_date" validate:"required"`
	AssignmentMaxScore       *float64  `json:"assignment_max_score" validate:"omitempty,gt=0"`
	AssignmentAttachmentURLs []string  `json:"assignment_attachment_urls" validate:"omitempty,dive,url"`
}

type SubmitAssignmentRequest struct {
	SubmissionAssignmentID uuid.UUID `json:"submission_assignment_id" validate:"required"`
	SubmissionContent      *string   `json:"submission_content" validate:"omitempty"`
	SubmissionFileURL      *string   `json:"submission_file_url" validate:"omitempty,url"`
}

type GradeSubmissionRequest struct {
	SubmissionGrade    float64 `json:"submission_grade" validate:"gte=0,lte=100"`
	SubmissionFeedback *string `json:"submission_feedback" validate:"omitempty,max=2000"`
}

type CompletionRateResult struct {
	EnrollmentID     uuid.UUID `json:"enrollment_id"`
	TotalAssignments int64     `json:"total_assignments"`
	SubmittedCount   int64     `json:"submitted_count"`
	CompletionRate   float64   `json:"completion_rate"`
}
