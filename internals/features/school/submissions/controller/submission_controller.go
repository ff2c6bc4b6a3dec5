package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/submissions/dto"
	"sekolahku_backend/internals/features/school/submissions/service"
	helper "sekolahku_backend/internals/helpers"
)

var validate = validator.New()

type SubmissionController struct {
	DB      *gorm.DB
	Service *service.SubmissionService
}

func NewSubmissionController(db *gorm.DB) *SubmissionController {
	return &SubmissionController{DB: db, Service: service.NewSubmissionService(db)}
}

func localUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User tidak dikenali")
	}
	return uuid.Parse(raw)
}

// POST /assignments — buat assignment (instructor/admin), status awal draft
func (ctrl *SubmissionController) CreateAssignment(c *fiber.Ctx) error {
	var req dto.CreateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	assignment, err := ctrl.Service.CreateAssignment(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Assignment berhasil dibuat", assignment)
}

// POST /assignments/:assignment_id/publish
func (ctrl *SubmissionController) PublishAssignment(c *fiber.Ctx) error {
	assignmentID, err := uuid.Parse(c.Params("assignment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "assignment_id tidak valid")
	}
	if err := ctrl.Service.PublishAssignment(assignmentID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Assignment dipublikasikan", nil)
}

// POST /assignments/:assignment_id/close
func (ctrl *SubmissionController) CloseAssignment(c *fiber.Ctx) error {
	assignmentID, err := uuid.Parse(c.Params("assignment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "assignment_id tidak valid")
	}
	if err := ctrl.Service.CloseAssignment(assignmentID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Assignment ditutup", nil)
}

// GET /assignments/:assignment_id/submissions
func (ctrl *SubmissionController) ListByAssignment(c *fiber.Ctx) error {
	assignmentID, err := uuid.Parse(c.Params("assignment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "assignment_id tidak valid")
	}
	submissions, err := ctrl.Service.ListSubmissionsByAssignment(assignmentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", submissions)
}

// POST /submissions — siswa mengumpulkan tugas
func (ctrl *SubmissionController) Submit(c *fiber.Ctx) error {
	studentID, err := localUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "User tidak dikenali")
	}

	var req dto.SubmitAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	submission, err := ctrl.Service.SubmitAssignment(studentID, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Tugas berhasil dikumpulkan", submission)
}

// POST /submissions/:submission_id/grade — instructor memberi nilai
func (ctrl *SubmissionController) Grade(c *fiber.Ctx) error {
	submissionID, err := uuid.Parse(c.Params("submission_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "submission_id tidak valid")
	}
	graderID, err := localUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "User tidak dikenali")
	}

	var req dto.GradeSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	submission, err := ctrl.Service.GradeSubmission(submissionID, req.SubmissionGrade, req.SubmissionFeedback, &graderID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Nilai submission disimpan", submission)
}

// POST /submissions/:submission_id/return — kembalikan untuk revisi
func (ctrl *SubmissionController) Return(c *fiber.Ctx) error {
	submissionID, err := uuid.Parse(c.Params("submission_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "submission_id tidak valid")
	}

	var req dto.GradeSubmissionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
		}
	}

	submission, err := ctrl.Service.ReturnSubmission(submissionID, req.SubmissionFeedback)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Submission dikembalikan ke siswa", submission)
}

// GET /submissions/enrollment/:enrollment_id/completion-rate
func (ctrl *SubmissionController) CompletionRate(c *fiber.Ctx) error {
	enrollmentID, err := uuid.Parse(c.Params("enrollment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "enrollment_id tidak valid")
	}

	result, err := ctrl.Service.AssignmentCompletionRate(enrollmentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", result)
}
