package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	enrollmentCtrl "sekolahku_backend/internals/features/school/enrollments/controller"
	authmw "sekolahku_backend/internals/middlewares/auth"
)

func EnrollmentRoutes(r fiber.Router, db *gorm.DB) {
	adminOnly := authmw.OnlyRoles(
		constants.RoleErrorAdmin("administrasi sekolah"),
		constants.AdminOnly...,
	)
	instructorOnly := authmw.OnlyRoles(
		constants.RoleErrorInstructor("enrollment"),
		constants.InstructorAndAbove...,
	)

	controller := enrollmentCtrl.NewEnrollmentController(db)

	r.Post("/courses", adminOnly, controller.CreateCourse)
	r.Post("/students", adminOnly, controller.CreateStudent)

	eGroup := r.Group("/enrollments")
	eGroup.Post("/", adminOnly, controller.Enroll)
	eGroup.Get("/course/:course_id", instructorOnly, controller.ListByCourse)
	eGroup.Post("/:enrollment_id/refresh-final-grade", instructorOnly, controller.RefreshFinalGrade)
	eGroup.Post("/:enrollment_id/complete", instructorOnly, controller.Complete)
	eGroup.Post("/:enrollment_id/drop", instructorOnly, controller.Drop)
}
