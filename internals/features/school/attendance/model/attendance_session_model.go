package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttendanceSessionStatusOpen   = "open"
	AttendanceSessionStatusClosed = "closed"
)

type AttendanceSessionModel struct {
	AttendanceSessionID       uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_session_id" json:"attendance_session_id"`
	AttendanceSessionCourseID uuid.UUID `gorm:"type:uuid;not null;column:attendance_session_course_id;index" json:"attendance_session_course_id"`
	AttendanceSessionName     string    `gorm:"column:attendance_session_name;not null" json:"attendance_session_name"`
	AttendanceSessionStatus   string    `gorm:"column:attendance_session_status;not null;default:open" json:"attendance_session_status"`

	AttendanceSessionStartTime time.Time `gorm:"column:attendance_session_start_time;not null" json:"attendance_session_start_time"`
	AttendanceSessionEndTime   time.Time `gorm:"column:attendance_session_end_time;not null" json:"attendance_session_end_time"`
	// Batas akhir check-in; setelah lewat, sweep auto-mark-absent boleh jalan.
	AttendanceSessionDeadline time.Time `gorm:"column:attendance_session_deadline;not null" json:"attendance_session_deadline"`

	AttendanceSessionCreatedAt time.Time      `gorm:"column:attendance_session_created_at;autoCreateTime" json:"attendance_session_created_at"`
	AttendanceSessionUpdatedAt *time.Time     `gorm:"column:attendance_session_updated_at;autoUpdateTime" json:"attendance_session_updated_at,omitempty"`
	AttendanceSessionDeletedAt gorm.DeletedAt `gorm:"column:attendance_session_deleted_at;index" json:"attendance_session_deleted_at,omitempty"`
}

func (AttendanceSessionModel) TableName() string { return "attendance_sessions" }

func (m *AttendanceSessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceSessionID == uuid.Nil {
		m.AttendanceSessionID = uuid.New()
	}
	return nil
}

func (m *AttendanceSessionModel) IsActive() bool {
	return m.AttendanceSessionStatus == AttendanceSessionStatusOpen && time.Now().Before(m.AttendanceSessionDeadline)
}

func (m *AttendanceSessionModel) HasExpired() bool {
	return !time.Now().Before(m.AttendanceSessionDeadline)
}
