package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/enrollments/dto"
	"sekolahku_backend/internals/features/school/enrollments/service"
	helper "sekolahku_backend/internals/helpers"
)

var validate = validator.New()

type EnrollmentController struct {
	DB      *gorm.DB
	Service *service.EnrollmentService
}

func NewEnrollmentController(db *gorm.DB) *EnrollmentController {
	return &EnrollmentController{DB: db, Service: service.NewEnrollmentService(db)}
}

// POST /courses — buat course (admin)
func (ctrl *EnrollmentController) CreateCourse(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	course, err := ctrl.Service.CreateCourse(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Course berhasil dibuat", course)
}

// POST /students — daftarkan siswa (admin)
func (ctrl *EnrollmentController) CreateStudent(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	student, err := ctrl.Service.CreateStudent(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Siswa berhasil didaftarkan", student)
}

// POST /enrollments — daftarkan siswa ke course
func (ctrl *EnrollmentController) Enroll(c *fiber.Ctx) error {
	var req dto.EnrollStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	enrollment, err := ctrl.Service.EnrollStudent(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Enrollment berhasil dibuat", enrollment)
}

// GET /enrollments/course/:course_id
func (ctrl *EnrollmentController) ListByCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "course_id tidak valid")
	}
	enrollments, err := ctrl.Service.ListByCourse(courseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", enrollments)
}

// POST /enrollments/:enrollment_id/refresh-final-grade
func (ctrl *EnrollmentController) RefreshFinalGrade(c *fiber.Ctx) error {
	enrollmentID, err := uuid.Parse(c.Params("enrollment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "enrollment_id tidak valid")
	}
	finalGrade, err := ctrl.Service.UpdateFinalGrade(enrollmentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Nilai akhir diperbarui", fiber.Map{
		"enrollment_id": enrollmentID,
		"final_grade":   finalGrade,
	})
}

// POST /enrollments/:enrollment_id/complete
func (ctrl *EnrollmentController) Complete(c *fiber.Ctx) error {
	enrollmentID, err := uuid.Parse(c.Params("enrollment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "enrollment_id tidak valid")
	}
	enrollment, err := ctrl.Service.CompleteEnrollment(enrollmentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Enrollment diselesaikan", enrollment)
}

// POST /enrollments/:enrollment_id/drop
func (ctrl *EnrollmentController) Drop(c *fiber.Ctx) error {
	enrollmentID, err := uuid.Parse(c.Params("enrollment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "enrollment_id tidak valid")
	}
	enrollment, err := ctrl.Service.DropEnrollment(enrollmentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Enrollment di-drop", enrollment)
}
