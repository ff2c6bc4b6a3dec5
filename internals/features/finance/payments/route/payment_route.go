package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	paymentCtrl "sekolahku_backend/internals/features/finance/payments/controller"
	authmw "sekolahku_backend/internals/middlewares/auth"
)

func PaymentRoutes(r fiber.Router, db *gorm.DB) {
	adminOnly := authmw.OnlyRoles(
		constants.RoleErrorAdmin("pembayaran"),
		constants.AdminOnly...,
	)

	controller := paymentCtrl.NewPaymentController(db)
	group := r.Group("/payments")
	group.Post("/", adminOnly, controller.Create)
	group.Get("/student/:student_id", controller.ListByStudent)
}

// PaymentWebhookRoutes menerima notifikasi Midtrans — path-nya masuk
// daftar skip AuthMiddleware.
func PaymentWebhookRoutes(r fiber.Router, db *gorm.DB) {
	controller := paymentCtrl.NewPaymentController(db)
	r.Post("/payments/notification", controller.Notification)
}
