package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "sekolahku_backend/internals/helpers"
)

// GradeModel menyimpan satu skor per pasangan (enrollment, grade component).
// max_score di-copy saat penilaian; bisa berbeda dari max_score komponen
// kalau instructor meng-override per input.
type GradeModel struct {
	GradeID           uuid.UUID `gorm:"type:uuid;primaryKey;column:grade_id" json:"grade_id"`
	GradeEnrollmentID uuid.UUID `gorm:"type:uuid;not null;column:grade_enrollment_id;uniqueIndex:uq_grades_enrollment_component" json:"grade_enrollment_id"`
	GradeComponentID  uuid.UUID `gorm:"type:uuid;not null;column:grade_component_id;uniqueIndex:uq_grades_enrollment_component" json:"grade_component_id"`
	GradeScore        float64   `gorm:"type:numeric(8,2);not null;column:grade_score" json:"grade_score"`
	GradeMaxScore     float64   `gorm:"type:numeric(8,2);not null;column:grade_max_score" json:"grade_max_score"`
	GradeNotes        *string   `gorm:"column:grade_notes" json:"grade_notes,omitempty"`

	GradedBy *uuid.UUID `gorm:"type:uuid;column:graded_by" json:"graded_by,omitempty"`
	GradedAt *time.Time `gorm:"column:graded_at" json:"graded_at,omitempty"`

	GradeCreatedAt time.Time  `gorm:"column:grade_created_at;autoCreateTime" json:"grade_created_at"`
	GradeUpdatedAt *time.Time `gorm:"column:grade_updated_at;autoUpdateTime" json:"grade_updated_at,omitempty"`
}

func (GradeModel) TableName() string { return "grades" }

func (m *GradeModel) BeforeCreate(tx *gorm.DB) error {
	if m.GradeID == uuid.Nil {
		m.GradeID = uuid.New()
	}
	if m.GradedAt == nil {
		now := time.Now()
		m.GradedAt = &now
	}
	return nil
}

// Percentage = score/max_score*100, dibulatkan 2 desimal.
func (m *GradeModel) Percentage() float64 {
	if m.GradeMaxScore <= 0 {
		return 0
	}
	return helper.Round2(m.GradeScore / m.GradeMaxScore * 100)
}
