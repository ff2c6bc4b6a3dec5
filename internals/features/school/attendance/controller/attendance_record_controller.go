package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/attendance/dto"
	"sekolahku_backend/internals/features/school/attendance/model"
	"sekolahku_backend/internals/features/school/attendance/service"
	helper "sekolahku_backend/internals/helpers"
)

type AttendanceRecordController struct {
	DB      *gorm.DB
	Service *service.AttendanceService
}

func NewAttendanceRecordController(db *gorm.DB) *AttendanceRecordController {
	return &AttendanceRecordController{DB: db, Service: service.NewAttendanceService(db)}
}

func localUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User tidak dikenali")
	}
	return uuid.Parse(raw)
}

// POST /attendance/sessions/:session_id/check-in — siswa hadir
func (ctrl *AttendanceRecordController) CheckIn(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "session_id tidak valid")
	}
	studentID, err := localUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "User tidak dikenali")
	}

	record, err := ctrl.Service.CheckIn(sessionID, studentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Kehadiran tercatat", record)
}

// POST /attendance/sessions/:session_id/sick-leave
func (ctrl *AttendanceRecordController) SickLeave(c *fiber.Ctx) error {
	return ctrl.leaveRequest(c, ctrl.Service.RequestSickLeave, "Izin sakit tercatat, menunggu review")
}

// POST /attendance/sessions/:session_id/permission
func (ctrl *AttendanceRecordController) Permission(c *fiber.Ctx) error {
	return ctrl.leaveRequest(c, ctrl.Service.RequestPermission, "Izin tercatat, menunggu review")
}

func (ctrl *AttendanceRecordController) leaveRequest(
	c *fiber.Ctx,
	fn func(sessionID, studentID uuid.UUID, docURL string, notes *string) (*model.AttendanceRecordModel, error),
	message string,
) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "session_id tidak valid")
	}
	studentID, err := localUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "User tidak dikenali")
	}

	var req dto.LeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	record, err := fn(sessionID, studentID, req.SupportingDocURL, req.Notes)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, message, record)
}

// POST /attendance/records/:record_id/approve — review izin (instructor/admin)
func (ctrl *AttendanceRecordController) Approve(c *fiber.Ctx) error {
	return ctrl.review(c, true)
}

// POST /attendance/records/:record_id/reject
func (ctrl *AttendanceRecordController) Reject(c *fiber.Ctx) error {
	return ctrl.review(c, false)
}

func (ctrl *AttendanceRecordController) review(c *fiber.Ctx, approve bool) error {
	recordID, err := uuid.Parse(c.Params("record_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "record_id tidak valid")
	}
	reviewerID, err := localUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "User tidak dikenali")
	}

	var req dto.ReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
		}
	}

	if approve {
		record, err := ctrl.Service.ApproveRecord(recordID, reviewerID, req.Notes)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.Success(c, "Izin disetujui", record)
	}
	record, err := ctrl.Service.RejectRecord(recordID, reviewerID, req.Notes)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Izin ditolak, status menjadi absent", record)
}

// GET /attendance/enrollment/:enrollment_id/percentage
func (ctrl *AttendanceRecordController) Percentage(c *fiber.Ctx) error {
	enrollmentID, err := uuid.Parse(c.Params("enrollment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "enrollment_id tidak valid")
	}

	percentage, err := ctrl.Service.AttendancePercentage(enrollmentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", fiber.Map{
		"enrollment_id":         enrollmentID,
		"attendance_percentage": percentage,
	})
}
