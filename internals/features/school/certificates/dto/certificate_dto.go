package dto

import (
	"time"

	"github.com/google/uuid"
)

// EligibilityResult mengumpulkan SEMUA kegagalan syarat, bukan berhenti
// di kegagalan pertama — siswa langsung tahu semua yang kurang.
// FinalGrade dibaca dari cache enrollment_final_grade; nil berarti nilai
// akhir belum pernah dibekukan.
type EligibilityResult struct {
	EnrollmentID             uuid.UUID `json:"enrollment_id"`
	Eligible                 bool      `json:"eligible"`
	Errors                   []string  `json:"errors"`
	FinalGrade               *float64  `json:"final_grade"`
	GradeLetter              string    `json:"grade_letter,omitempty"`
	AttendancePercentage     float64   `json:"attendance_percentage"`
	AssignmentCompletionRate float64   `json:"assignment_completion_rate"`
}

type GenerateCertificateRequest struct {
	EnrollmentID uuid.UUID              `json:"enrollment_id" validate:"required"`
	ExpiryDate   *time.Time             `json:"expiry_date" validate:"omitempty"`
	Metadata     map[string]interface{} `json:"metadata" validate:"omitempty"`
}

type RevokeCertificateRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type VerifyCertificateResult struct {
	Valid             bool       `json:"valid"`
	CertificateCode   string     `json:"certificate_code"`
	Status            string     `json:"status"`
	FinalGrade        float64    `json:"final_grade"`
	GradeLetter       string     `json:"grade_letter"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	VerificationCount int64      `json:"verification_count"`
}
