package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentRoute "sekolahku_backend/internals/features/finance/payments/route"
	certificateRoute "sekolahku_backend/internals/features/school/certificates/route"
	authRoute "sekolahku_backend/internals/features/users/auth/route"
)

// PublicRoutes: endpoint yang bisa diakses tanpa token.
func PublicRoutes(r fiber.Router, db *gorm.DB) {
	authRoute.AuthRoutes(r, db)
	certificateRoute.CertificatePublicRoutes(r, db)
	paymentRoute.PaymentWebhookRoutes(r, db)
}
