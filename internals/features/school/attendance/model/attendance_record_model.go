package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttendanceStatusPresent    = "present"
	AttendanceStatusAbsent     = "absent"
	AttendanceStatusSick       = "sick"
	AttendanceStatusPermission = "permission"
	AttendanceStatusPending    = "pending"
)

type AttendanceRecordModel struct {
	AttendanceRecordID           uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_record_id" json:"attendance_record_id"`
	AttendanceRecordEnrollmentID uuid.UUID `gorm:"type:uuid;not null;column:attendance_record_enrollment_id;uniqueIndex:uq_attendance_records_enrollment_session" json:"attendance_record_enrollment_id"`
	AttendanceRecordSessionID    uuid.UUID `gorm:"type:uuid;not null;column:attendance_record_session_id;uniqueIndex:uq_attendance_records_enrollment_session" json:"attendance_record_session_id"`
	AttendanceRecordStatus       string    `gorm:"column:attendance_record_status;not null;default:pending" json:"attendance_record_status"`
	AttendanceRecordNotes        *string   `gorm:"column:attendance_record_notes" json:"attendance_record_notes,omitempty"`

	// Surat keterangan (sakit/izin) — URL dokumen milik layanan upload eksternal
	AttendanceRecordSupportingDocURL *string `gorm:"column:attendance_record_supporting_doc_url" json:"attendance_record_supporting_doc_url,omitempty"`

	AttendanceRecordReviewedBy *uuid.UUID `gorm:"type:uuid;column:attendance_record_reviewed_by" json:"attendance_record_reviewed_by,omitempty"`
	AttendanceRecordReviewedAt *time.Time `gorm:"column:attendance_record_reviewed_at" json:"attendance_record_reviewed_at,omitempty"`

	AttendanceRecordCreatedAt time.Time  `gorm:"column:attendance_record_created_at;autoCreateTime" json:"attendance_record_created_at"`
	AttendanceRecordUpdatedAt *time.Time `gorm:"column:attendance_record_updated_at;autoUpdateTime" json:"attendance_record_updated_at,omitempty"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }

func (m *AttendanceRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceRecordID == uuid.Nil {
		m.AttendanceRecordID = uuid.New()
	}
	return nil
}

func (m *AttendanceRecordModel) IsPresent() bool {
	return m.AttendanceRecordStatus == AttendanceStatusPresent
}

func (m *AttendanceRecordModel) NeedsReview() bool {
	return (m.AttendanceRecordStatus == AttendanceStatusSick || m.AttendanceRecordStatus == AttendanceStatusPermission) &&
		m.AttendanceRecordReviewedBy == nil
}
