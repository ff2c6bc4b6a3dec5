package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	submissionCtrl "sekolahku_backend/internals/features/school/submissions/controller"
	authmw "sekolahku_backend/internals/middlewares/auth"
)

func SubmissionRoutes(r fiber.Router, db *gorm.DB) {
	instructorOnly := authmw.OnlyRoles(
		constants.RoleErrorInstructor("tugas"),
		constants.InstructorAndAbove...,
	)
	studentOnly := authmw.OnlyRoles(
		constants.RoleErrorStudent("tugas"),
		constants.StudentOnly...,
	)

	controller := submissionCtrl.NewSubmissionController(db)

	// =====================
	// Assignments
	// =====================
	aGroup := r.Group("/assignments")
	aGroup.Post("/", instructorOnly, controller.CreateAssignment)
	aGroup.Post("/:assignment_id/publish", instructorOnly, controller.PublishAssignment)
	aGroup.Post("/:assignment_id/close", instructorOnly, controller.CloseAssignment)
	aGroup.Get("/:assignment_id/submissions", instructorOnly, controller.ListByAssignment)

	// =====================
	// Submissions
	// =====================
	sGroup := r.Group("/submissions")
	sGroup.Post("/", studentOnly, controller.Submit)
	sGroup.Post("/:submission_id/grade", instructorOnly, controller.Grade)
	sGroup.Post("/:submission_id/return", instructorOnly, controller.Return)
	sGroup.Get("/enrollment/:enrollment_id/completion-rate", controller.CompletionRate)
}
