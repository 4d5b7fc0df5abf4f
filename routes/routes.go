package routes

import (
	"majestic/controllers/admin"
	"majestic/controllers/wallet"
	"majestic/middlewares"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	app.Use(middlewares.ClientInfo())

	walletroutes := app.Group("/wallet")
	walletroutes.Get("/balance", wallet.BalanceHandler)
	walletroutes.Get("/history", wallet.HistoryHandler)
	walletroutes.Get("/dashboard", wallet.DashboardHandler)
	walletroutes.Get("/leaderboard", wallet.LeaderboardHandler)
	walletroutes.Get("/notifications", wallet.NotificationsHandler)
	walletroutes.Post("/notifications/read", wallet.MarkNotificationReadHandler)
	walletroutes.Post("/spin", wallet.SpinHandler)
	walletroutes.Post("/daily", wallet.DailyClaimHandler)
	walletroutes.Post("/redeem", wallet.RedeemHandler)
	walletroutes.Post("/referral", wallet.ApplyReferralHandler)
	walletroutes.Post("/vault/redeem", wallet.VaultRedeemHandler)

	adminroutes := app.Group("/admin", middlewares.AdminAuth())
	adminroutes.Post("/adjust", admin.AdjustHandler)
	adminroutes.Post("/ban", admin.BanHandler)
	adminroutes.Post("/unban", admin.UnbanHandler)
	adminroutes.Post("/codes/generate", admin.GenerateCodesHandler)
	adminroutes.Get("/codes", admin.ListCodesHandler)
	adminroutes.Post("/orders/completed", admin.OrderCompletedHandler)
	adminroutes.Post("/orders/charge", admin.ChargeOrderHandler)
	adminroutes.Post("/migrate", admin.MigrateHandler)
}
