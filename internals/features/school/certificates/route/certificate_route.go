package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	certificateCtrl "sekolahku_backend/internals/features/school/certificates/controller"
	authmw "sekolahku_backend/internals/middlewares/auth"
)

func CertificateRoutes(r fiber.Router, db *gorm.DB) {
	adminOnly := authmw.OnlyRoles(
		constants.RoleErrorAdmin("sertifikat"),
		constants.AdminOnly...,
	)

	controller := certificateCtrl.NewCertificateController(db)
	group := r.Group("/certificates")
	group.Get("/enrollment/:enrollment_id/eligibility", controller.Eligibility)
	group.Post("/", adminOnly, controller.Generate)
	group.Post("/:certificate_id/revoke", adminOnly, controller.Revoke)
}

// CertificatePublicRoutes tidak melewati AuthMiddleware — verifikasi
// kode sertifikat terbuka untuk siapa saja.
func CertificatePublicRoutes(r fiber.Router, db *gorm.DB) {
	controller := certificateCtrl.NewCertificateController(db)
	r.Get("/certificates/verify/:code", controller.Verify)
}
