package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GradeComponentModel adalah kategori penilaian berbobot per course
// (mis. "UTS" 30%, "UAS" 40%, "Tugas" 30%). Invariant: jumlah bobot
// komponen aktif per course tidak boleh melewati 100 — dijaga oleh
// GradingService.CreateGradeComponent, bukan oleh database.
type GradeComponentModel struct {
	GradeComponentID          uuid.UUID `gorm:"type:uuid;primaryKey;column:grade_component_id" json:"grade_component_id"`
	GradeComponentCourseID    uuid.UUID `gorm:"type:uuid;not null;column:grade_component_course_id;index" json:"grade_component_course_id"`
	GradeComponentName        string    `gorm:"column:grade_component_name;not null" json:"grade_component_name"`
	GradeComponentDescription *string   `gorm:"column:grade_component_description" json:"grade_component_description,omitempty"`
	GradeComponentWeight      float64   `gorm:"type:numeric(5,2);not null;column:grade_component_weight" json:"grade_component_weight"`
	GradeComponentMaxScore    float64   `gorm:"type:numeric(8,2);not null;default:100;column:grade_component_max_score" json:"grade_component_max_score"`
	GradeComponentIsActive    bool      `gorm:"column:grade_component_is_active;not null;default:true" json:"grade_component_is_active"`

	GradeComponentCreatedAt time.Time  `gorm:"column:grade_component_created_at;autoCreateTime" json:"grade_component_created_at"`
	GradeComponentUpdatedAt *time.Time `gorm:"column:grade_component_updated_at;autoUpdateTime" json:"grade_component_updated_at,omitempty"`
}

func (GradeComponentModel) TableName() string { return "grade_components" }

func (m *GradeComponentModel) BeforeCreate(tx *gorm.DB) error {
	if m.GradeComponentID == uuid.Nil {
		m.GradeComponentID = uuid.New()
	}
	return nil
}
