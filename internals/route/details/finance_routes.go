package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentRoute "sekolahku_backend/internals/features/finance/payments/route"
)

// FinanceRoutes: pembayaran biaya course — butuh token.
func FinanceRoutes(r fiber.Router, db *gorm.DB) {
	paymentRoute.PaymentRoutes(r, db)
}
