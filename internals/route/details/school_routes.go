package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "sekolahku_backend/internals/features/school/attendance/route"
	certificateRoute "sekolahku_backend/internals/features/school/certificates/route"
	enrollmentRoute "sekolahku_backend/internals/features/school/enrollments/route"
	gradingRoute "sekolahku_backend/internals/features/school/grading/route"
	submissionRoute "sekolahku_backend/internals/features/school/submissions/route"
)

// SchoolRoutes: fitur akademik — butuh token.
func SchoolRoutes(r fiber.Router, db *gorm.DB) {
	enrollmentRoute.EnrollmentRoutes(r, db)
	gradingRoute.GradingRoutes(r, db)
	attendanceRoute.AttendanceRoutes(r, db)
	submissionRoute.SubmissionRoutes(r, db)
	certificateRoute.CertificateRoutes(r, db)
}
