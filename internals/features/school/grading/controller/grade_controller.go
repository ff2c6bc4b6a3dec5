package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/grading/dto"
	"sekolahku_backend/internals/features/school/grading/service"
	helper "sekolahku_backend/internals/helpers"
)

type GradeController struct {
	DB      *gorm.DB
	Service *service.GradingService
}

func NewGradeController(db *gorm.DB) *GradeController {
	return &GradeController{DB: db, Service: service.NewGradingService(db)}
}

func graderID(c *fiber.Ctx) *uuid.UUID {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// POST /grades — input satu nilai (instructor/admin)
func (ctrl *GradeController) Store(c *fiber.Ctx) error {
	var req dto.InputGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	grade, err := ctrl.Service.InputGrade(req.GradeStudentID, req.GradeComponentID, req.GradeScore, service.InputGradeOptions{
		MaxScore: req.GradeMaxScore,
		Notes:    req.GradeNotes,
		GradedBy: graderID(c),
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Nilai berhasil disimpan", grade)
}

// POST /grades/bulk — input nilai massal, all-or-nothing
func (ctrl *GradeController) BulkStore(c *fiber.Ctx) error {
	var req dto.BulkInputGradesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	grades, err := ctrl.Service.BulkInputGrades(req.Grades, graderID(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Semua nilai berhasil disimpan", grades)
}

// GET /grades/student/:student_id/course/:course_id
func (ctrl *GradeController) StudentGrades(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "student_id tidak valid")
	}
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "course_id tidak valid")
	}

	grades, err := ctrl.Service.GetStudentGrades(studentID, courseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", grades)
}

// GET /grades/enrollment/:enrollment_id/final
func (ctrl *GradeController) FinalGrade(c *fiber.Ctx) error {
	enrollmentID, err := uuid.Parse(c.Params("enrollment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "enrollment_id tidak valid")
	}

	result, err := ctrl.Service.CalculateFinalGrade(enrollmentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", result)
}

// GET /grades/course/:course_id/summary
func (ctrl *GradeController) CourseSummary(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "course_id tidak valid")
	}

	summary, err := ctrl.Service.GetCourseGradesSummary(courseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", summary)
}

// GET /grades/course/:course_id/statistics
func (ctrl *GradeController) CourseStatistics(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "course_id tidak valid")
	}

	stats, err := ctrl.Service.GetCourseStatistics(courseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", stats)
}
