package dto

import (
	"github.com/google/uuid"

	gradingModel "sekolahku_backend/internals/features/school/grading/model"
)

// ========== REQUESTS ==========

type CreateGradeComponentRequest struct {
	GradeComponentCourseID    uuid.UUID `json:"grade_component_course_id" validate:"required"`
	GradeComponentName        string    `json:"grade_component_name" validate:"required,max=120"`
	GradeComponentDescription *string   `json:"grade_component_description" validate:"omitempty,max=500"`
	GradeComponentWeight      float64   `json:"grade_component_weight" validate:"required,gt=0,lte=100"`
	GradeComponentMaxScore    *float64  `json:"grade_component_max_score" validate:"omitempty,gt=0"`
	GradeComponentIsActive    *bool     `json:"grade_component_is_active" validate:"omitempty"`
}

type UpdateGradeComponentRequest struct {
	GradeComponentName        *string  `json:"grade_component_name" validate:"omitempty,max=120"`
	GradeComponentDescription *string  `json:"grade_component_description" validate:"omitempty,max=500"`
	GradeComponentWeight      *float64 `json:"grade_component_weight" validate:"omitempty,gt=0,lte=100"`
	GradeComponentMaxScore    *float64 `json:"grade_component_max_score" validate:"omitempty,gt=0"`
	GradeComponentIsActive    *bool    `json:"grade_component_is_active" validate:"omitempty"`
}

type InputGradeRequest struct {
	GradeStudentID   uuid.UUID `json:"grade_student_id" validate:"required"`
	GradeComponentID uuid.UUID `json:"grade_component_id" validate:"required"`
	GradeScore       float64   `json:"grade_score" validate:"gte=0"`
	GradeMaxScore    *float64  `json:"grade_max_score" validate:"omitempty,gt=0"` // override max_score per input
	GradeNotes       *string   `json:"grade_notes" validate:"omitempty,max=500"`
}

type BulkInputGradesRequest struct {
	Grades []InputGradeRequest `json:"grades" validate:"required,min=1,dive"`
}

// ========== RESULTS ==========

// ComponentBreakdown adalah rincian per komponen dalam perhitungan nilai akhir.
// Komponen yang belum dinilai tetap muncul (IsGraded=false, kontribusi 0),
// dan bobotnya tetap dihitung di penyebut.
type ComponentBreakdown struct {
	ComponentID   uuid.UUID `json:"component_id"`
	ComponentName string    `json:"component_name"`
	Score         *float64  `json:"score"`
	MaxScore      float64   `json:"max_score"`
	Percentage    *float64  `json:"percentage"`
	Weight        float64   `json:"weight"`
	WeightedScore float64   `json:"weighted_score"`
	GradeLetter   *string   `json:"grade_letter"`
	IsGraded      bool      `json:"is_graded"`
}

type FinalGradeResult struct {
	EnrollmentID     uuid.UUID            `json:"enrollment_id"`
	StudentID        uuid.UUID            `json:"student_id"`
	CourseID         uuid.UUID            `json:"course_id"`
	FinalScore       float64              `json:"final_score"`
	FinalGradeLetter string               `json:"final_grade_letter"`
	TotalWeight      float64              `json:"total_weight"`
	IsComplete       bool                 `json:"is_complete"`
	Details          []ComponentBreakdown `json:"details"`
}

type StudentFinalGrade struct {
	FinalGradeResult
	StudentName   string `json:"student_name"`
	StudentEmail  string `json:"student_email"`
	StudentNumber string `json:"student_number"`
}

type WeightValidationResult struct {
	TotalWeight     float64                           `json:"total_weight"`
	IsValid         bool                              `json:"is_valid"`
	RemainingWeight float64                           `json:"remaining_weight"`
	Components      []gradingModel.GradeComponentModel `json:"components"`
}

type CourseStatisticsResult struct {
	TotalStudents     int            `json:"total_students"`
	CompletedGrades   int            `json:"completed_grades"`
	AverageScore      float64        `json:"average_score"`
	HighestScore      float64        `json:"highest_score"`
	LowestScore       float64        `json:"lowest_score"`
	GradeDistribution map[string]int `json:"grade_distribution"`
}
