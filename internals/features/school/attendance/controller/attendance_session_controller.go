package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/attendance/dto"
	"sekolahku_backend/internals/features/school/attendance/service"
	helper "sekolahku_backend/internals/helpers"
)

var validate = validator.New()

type AttendanceSessionController struct {
	DB      *gorm.DB
	Service *service.AttendanceService
}

func NewAttendanceSessionController(db *gorm.DB) *AttendanceSessionController {
	return &AttendanceSessionController{DB: db, Service: service.NewAttendanceService(db)}
}

// POST /attendance-sessions — buat sesi kehadiran (instructor/admin)
func (ctrl *AttendanceSessionController) Create(c *fiber.Ctx) error {
	var req dto.CreateAttendanceSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := ctrl.Service.CreateSession(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Sesi kehadiran berhasil dibuat", session)
}

// POST /attendance-sessions/:session_id/close
func (ctrl *AttendanceSessionController) Close(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "session_id tidak valid")
	}
	if err := ctrl.Service.CloseSession(sessionID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Sesi ditutup", nil)
}

// POST /attendance-sessions/:session_id/mark-absent — sweep manual
func (ctrl *AttendanceSessionController) MarkAbsent(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "session_id tidak valid")
	}
	marked, err := ctrl.Service.AutoMarkAbsent(sessionID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", fiber.Map{"marked_absent": marked})
}

// GET /attendance-sessions/:session_id/summary
func (ctrl *AttendanceSessionController) Summary(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "session_id tidak valid")
	}
	summary, err := ctrl.Service.SessionSummary(sessionID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", summary)
}
