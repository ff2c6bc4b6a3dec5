package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	attendanceCtrl "sekolahku_backend/internals/features/school/attendance/controller"
	authmw "sekolahku_backend/internals/middlewares/auth"
)

func AttendanceRoutes(r fiber.Router, db *gorm.DB) {
	instructorOnly := authmw.OnlyRoles(
		constants.RoleErrorInstructor("kehadiran"),
		constants.InstructorAndAbove...,
	)
	studentOnly := authmw.OnlyRoles(
		constants.RoleErrorStudent("kehadiran"),
		constants.StudentOnly...,
	)

	// =====================
	// Attendance Sessions
	// =====================
	sessionController := attendanceCtrl.NewAttendanceSessionController(db)
	sGroup := r.Group("/attendance-sessions")
	sGroup.Post("/", instructorOnly, sessionController.Create)
	sGroup.Post("/:session_id/close", instructorOnly, sessionController.Close)
	sGroup.Post("/:session_id/mark-absent", instructorOnly, sessionController.MarkAbsent)
	sGroup.Get("/:session_id/summary", instructorOnly, sessionController.Summary)

	// =====================
	// Attendance Records
	// =====================
	recordController := attendanceCtrl.NewAttendanceRecordController(db)
	aGroup := r.Group("/attendance")
	aGroup.Post("/sessions/:session_id/check-in", studentOnly, recordController.CheckIn)
	aGroup.Post("/sessions/:session_id/sick-leave", studentOnly, recordController.SickLeave)
	aGroup.Post("/sessions/:session_id/permission", studentOnly, recordController.Permission)
	aGroup.Post("/records/:record_id/approve", instructorOnly, recordController.Approve)
	aGroup.Post("/records/:record_id/reject", instructorOnly, recordController.Reject)
	aGroup.Get("/enrollment/:enrollment_id/percentage", recordController.Percentage)
}
