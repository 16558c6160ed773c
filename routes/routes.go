package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/plotnest/syndicate/controllers"
	"github.com/plotnest/syndicate/controllers/admin_controllers"
	"github.com/plotnest/syndicate/controllers/referral_controllers"
	"github.com/plotnest/syndicate/routes/middlewares"
)

func SetupRouter() *fiber.App {
	app := fiber.New()

	app.Get("/api/v2/public/timestamp", controllers.GetTimestamp)
	app.Get("/api/v2/public/assets/:asset_id/snapshot", controllers.GetSnapshot)
	app.Get("/api/v2/public/invitations/:id", controllers.GetInvitation)
	app.Post("/api/v2/public/invitations/:id/accept", controllers.AcceptInvitation)

	api := app.Group("/api/v2", middlewares.Authenticate)

	api.Get("/members/me", controllers.GetMe)
	api.Get("/members/me/invitations", controllers.GetMyInvitations)

	api.Post("/assets/:asset_id/shares/:position/reserve", controllers.ReserveShare)
	api.Post("/assets/:asset_id/shares/:position/release", controllers.ReleaseShare)
	api.Post("/invitations/:id/cancel", controllers.CancelInvitation)

	api.Post("/bookings", controllers.CreateBooking)
	api.Get("/bookings/:id", controllers.GetBooking)
	api.Post("/bookings/:id/advance", controllers.AdvanceToPayment)
	api.Post("/bookings/:id/pay", controllers.PayStage)
	api.Get("/bookings/:id/commissions", controllers.GetBookingCommissions)

	api.Get("/referrals/commissions", referral_controllers.GetCommissions)

	admin := api.Group("/admin", middlewares.AdminVaildator)

	admin.Get("/assets", admin_controllers.GetAssetList)
	admin.Post("/assets", admin_controllers.CreateAsset)

	return app
}
