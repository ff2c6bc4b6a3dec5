package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCourseRequest struct {
	CourseCode         string     `json:"course_code" validate:"required,max=40"`
	CourseName         string     `json:"course_name" validate:"required,max=200"`
	CourseDescription  *string    `json:"course_description" validate:"omitempty,max=2000"`
	CourseInstructorID *uuid.UUID `json:"course_instructor_id" validate:"omitempty"`
}

type CreateStudentRequest struct {
	StudentFullName string `json:"student_full_name" validate:"required,max=160"`
	StudentEmail    string `json:"student_email" validate:"required,email"`
	StudentNumber   string `json:"student_number" validate:"required,max=40"`
}

type EnrollStudentRequest struct {
	EnrollmentStudentID uuid.UUID  `json:"enrollment_student_id" validate:"required"`
	EnrollmentCourseID  uuid.UUID  `json:"enrollment_course_id" validate:"required"`
	EnrollmentDate      *time.Time `json:"enrollment_date" validate:"omitempty"`
}
