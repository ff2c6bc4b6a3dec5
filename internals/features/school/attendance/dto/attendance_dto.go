package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAttendanceSessionRequest struct {
	AttendanceSessionCourseID  uuid.UUID `json:"attendance_session_course_id" validate:"required"`
	AttendanceSessionName      string    `json:"attendance_session_name" validate:"required,max=160"`
	AttendanceSessionStartTime time.Time `json:"attendance_session_start_time" validate:"required"`
	AttendanceSessionEndTime   time.Time `json:"attendance_session_end_time" validate:"required"`
	AttendanceSessionDeadline  time.Time `json:"attendance_session_deadline" validate:"required"`
}

type LeaveRequest struct {
	SupportingDocURL string  `json:"supporting_doc_url" validate:"required,url"`
	Notes            *string `json:"notes" validate:"omitempty,max=500"`
}

type ReviewRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=500"`
}

// SessionSummaryResult merekap kehadiran satu sesi per status.
type SessionSummaryResult struct {
	Total      int64   `json:"total"`
	Present    int64   `json:"present"`
	Absent     int64   `json:"absent"`
	Sick       int64   `json:"sick"`
	Permission int64   `json:"permission"`
	Pending    int64   `json:"pending"`
	Percentage float64 `json:"percentage"`
}
