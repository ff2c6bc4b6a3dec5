package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	AssignmentStatusDraft     = "draft"
	AssignmentStatusPublished = "published"
	AssignmentStatusClosed    = "closed"
)

type AssignmentModel struct {
	AssignmentID       uuid.UUID `gorm:"type:uuid;primaryKey;column:assignment_id" json:"assignment_id"`
	AssignmentCourseID uuid.UUID `gorm:"type:uuid;not null;column:assignment_course_id;index" json:"assignment_course_id"`
	AssignmentTitle    string    `gorm:"column:assignment_title;not null" json:"assignment_title"`
	AssignmentDesc     *string   `gorm:"column:assignment_description" json:"assignment_description,omitempty"`

	// Hanya assignment published yang masuk hitungan completion rate
	AssignmentStatus   string    `gorm:"column:assignment_status;not null;default:draft" json:"assignment_status"`
	AssignmentDueDate  time.Time `gorm:"column:assignment_due_date;not null" json:"assignment_due_date"`
	AssignmentMaxScore float64   `gorm:"column:assignment_max_score;not null;default:100" json:"assignment_max_score"`

	AssignmentAttachmentURLs pq.StringArray `gorm:"type:text[];column:assignment_attachment_urls" json:"assignment_attachment_urls,omitempty"`

	AssignmentCreatedAt time.Time      `gorm:"column:assignment_created_at;autoCreateTime" json:"assignment_created_at"`
	AssignmentUpdatedAt *time.Time     `gorm:"column:assignment_updated_at;autoUpdateTime" json:"assignment_updated_at,omitempty"`
	AssignmentDeletedAt gorm.DeletedAt `gorm:"column:assignment_deleted_at;index" json:"assignment_deleted_at,omitempty"`
}

func (AssignmentModel) TableName() string { return "assignments" }

func (m *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentID == uuid.Nil {
		m.AssignmentID = uuid.New()
	}
	return nil
}

func (m *AssignmentModel) IsPublished() bool {
	return m.AssignmentStatus == AssignmentStatusPublished
}

func (m *AssignmentModel) IsPastDue(at time.Time) bool {
	return at.After(m.AssignmentDueDate)
}
