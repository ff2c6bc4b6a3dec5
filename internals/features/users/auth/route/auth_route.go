package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authCtrl "sekolahku_backend/internals/features/users/auth/controller"
	"sekolahku_backend/internals/middlewares"
)

// AuthRoutes terbuka tanpa AuthMiddleware kecuali logout.
func AuthRoutes(r fiber.Router, db *gorm.DB) {
	controller := authCtrl.NewAuthController(db)

	group := r.Group("/auth")
	group.Post("/register", controller.Register)
	group.Post("/login", middlewares.LoginRateLimiter(), controller.Login)
	group.Post("/refresh-token", controller.RefreshToken)
	group.Post("/logout", controller.Logout)
}
