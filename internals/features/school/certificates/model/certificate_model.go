package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CertificateStatusIssued  = "issued"
	CertificateStatusRevoked = "revoked"
	CertificateStatusExpired = "expired"
)

// CertificateModel adalah potret kelulusan yang dibekukan saat terbit:
// nilai dan persentase disalin dari hasil evaluasi, bukan dihitung ulang.
// Setelah issued hanya status dan verification_count yang boleh berubah.
// Partial unique index menjamin satu sertifikat issued per enrollment di
// level database — dua penerbitan bersamaan, satu yang menang.
type CertificateModel struct {
	CertificateID           uuid.UUID `gorm:"type:uuid;primaryKey;column:certificate_id" json:"certificate_id"`
	CertificateEnrollmentID uuid.UUID `gorm:"type:uuid;not null;column:certificate_enrollment_id;index;uniqueIndex:uq_certificates_issued_enrollment,where:certificate_status = 'issued'" json:"certificate_enrollment_id"`
	CertificateCourseID     uuid.UUID `gorm:"type:uuid;not null;column:certificate_course_id;index" json:"certificate_course_id"`

	CertificateCode string `gorm:"column:certificate_code;uniqueIndex;not null" json:"certificate_code"`

	CertificateFinalGrade        float64 `gorm:"column:certificate_final_grade;not null" json:"certificate_final_grade"`
	CertificateGradeLetter       string  `gorm:"column:certificate_grade_letter;not null" json:"certificate_grade_letter"`
	CertificateAttendancePct     float64 `gorm:"column:certificate_attendance_percentage;not null" json:"certificate_attendance_percentage"`
	CertificateCompletionRate    float64 `gorm:"column:certificate_assignment_completion_rate;not null" json:"certificate_assignment_completion_rate"`
	CertificateStatus            string  `gorm:"column:certificate_status;not null;default:issued" json:"certificate_status"`
	CertificateVerificationCount int64   `gorm:"column:certificate_verification_count;not null;default:0" json:"certificate_verification_count"`

	CertificateMetadata datatypes.JSON `gorm:"column:certificate_metadata" json:"certificate_metadata,omitempty"`

	CertificateGeneratedBy *uuid.UUID `gorm:"type:uuid;column:certificate_generated_by" json:"certificate_generated_by,omitempty"`

	CertificateIssuedAt   time.Time  `gorm:"column:certificate_issued_at;not null" json:"certificate_issued_at"`
	CertificateExpiryDate *time.Time `gorm:"column:certificate_expiry_date" json:"certificate_expiry_date,omitempty"`

	CertificateRevocationReason *string    `gorm:"column:certificate_revocation_reason" json:"certificate_revocation_reason,omitempty"`
	CertificateRevokedBy        *uuid.UUID `gorm:"type:uuid;column:certificate_revoked_by" json:"certificate_revoked_by,omitempty"`
	CertificateRevokedAt        *time.Time `gorm:"column:certificate_revoked_at" json:"certificate_revoked_at,omitempty"`

	CertificateCreatedAt time.Time  `gorm:"column:certificate_created_at;autoCreateTime" json:"certificate_created_at"`
	CertificateUpdatedAt *time.Time `gorm:"column:certificate_updated_at;autoUpdateTime" json:"certificate_updated_at,omitempty"`
}

func (CertificateModel) TableName() string { return "certificates" }

func (m *CertificateModel) BeforeCreate(tx *gorm.DB) error {
	if m.CertificateID == uuid.Nil {
		m.CertificateID = uuid.New()
	}
	return nil
}

func (m *CertificateModel) IsIssued() bool {
	return m.CertificateStatus == CertificateStatusIssued
}

// IsExpiredAt: sertifikat tanpa expiry_date berlaku selamanya.
func (m *CertificateModel) IsExpiredAt(at time.Time) bool {
	return m.CertificateExpiryDate != nil && at.After(*m.CertificateExpiryDate)
}
