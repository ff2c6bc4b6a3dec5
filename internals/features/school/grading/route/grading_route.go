package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	gradingCtrl "sekolahku_backend/internals/features/school/grading/controller"
	authmw "sekolahku_backend/internals/middlewares/auth"
)

func GradingRoutes(r fiber.Router, db *gorm.DB) {
	instructorOnly := authmw.OnlyRoles(
		constants.RoleErrorInstructor("penilaian"),
		constants.InstructorAndAbove...,
	)

	// =====================
	// Grade Components
	// =====================
	componentController := gradingCtrl.NewGradeComponentController(db)
	gcGroup := r.Group("/grade-components")
	gcGroup.Post("/", instructorOnly, componentController.Create)
	gcGroup.Get("/course/:course_id", componentController.ListByCourse)
	gcGroup.Get("/course/:course_id/validate-weight", instructorOnly, componentController.ValidateWeight)
	gcGroup.Patch("/:id", instructorOnly, componentController.Update)
	gcGroup.Delete("/:id", instructorOnly, componentController.Deactivate)

	// =====================
	// Grades
	// =====================
	gradeController := gradingCtrl.NewGradeController(db)
	gGroup := r.Group("/grades")
	gGroup.Post("/", instructorOnly, gradeController.Store)
	gGroup.Post("/bulk", instructorOnly, gradeController.BulkStore)
	gGroup.Get("/student/:student_id/course/:course_id", gradeController.StudentGrades)
	gGroup.Get("/enrollment/:enrollment_id/final", gradeController.FinalGrade)
	gGroup.Get("/course/:course_id/summary", instructorOnly, gradeController.CourseSummary)
	gGroup.Get("/course/:course_id/statistics", instructorOnly, gradeController.CourseStatistics)
}
