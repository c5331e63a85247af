package routes

import (
	"coinvault/controllers/admin"
	"coinvault/controllers/auth"
	"coinvault/controllers/deposit"
	"coinvault/controllers/seconds"
	"coinvault/controllers/trade"
	"coinvault/controllers/user"
	"coinvault/controllers/withdraw"
	"coinvault/middlewares"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	app.Post("/auth/register", auth.RegisterHandler)
	app.Post("/auth/login", auth.LoginHandler)

	userroutes := app.Group("/user", middlewares.UserAuth)
	userroutes.Get("/balances", user.GetBalancesHandler)
	userroutes.Get("/transactions", user.ListTransactionsHandler)
	userroutes.Post("/withdrawal-password", user.SetWithdrawalPasswordHandler)

	userroutes.Post("/trades", trade.CreateHandler)
	userroutes.Get("/trades", trade.ListHandler)
	userroutes.Get("/trades/:id", trade.GetHandler)
	userroutes.Post("/trades/:id/cancel", trade.CancelHandler)

	userroutes.Post("/seconds", seconds.SubmitHandler)
	userroutes.Post("/seconds/:id/timeout", seconds.TimeoutHandler)

	userroutes.Post("/deposits", deposit.SubmitHandler)
	userroutes.Post("/withdrawals", withdraw.RequestHandler)

	adminroutes := app.Group("/admin", middlewares.AdminAuth)
	adminroutes.Get("/seconds/pending", admin.ListPendingSecondsHandler)
	adminroutes.Post("/seconds/:id/approve", admin.ApproveSecondsHandler)
	adminroutes.Post("/seconds/:id/reject", admin.RejectSecondsHandler)

	adminroutes.Get("/trades", admin.ListTradesHandler)
	adminroutes.Post("/trades/:id/process", admin.ProcessTradeHandler)

	adminroutes.Get("/withdrawals/pending", admin.ListPendingWithdrawalsHandler)
	adminroutes.Post("/withdrawals/:id/approve", admin.ApproveWithdrawalHandler)
	adminroutes.Post("/withdrawals/:id/reject", admin.RejectWithdrawalHandler)

	adminroutes.Get("/deposits", admin.ListDepositsHandler)
	adminroutes.Post("/deposits/:id/status", admin.UpdateDepositStatusHandler)

	adminroutes.Get("/users", admin.ListUsersHandler)
	adminroutes.Post("/users/:id/balance", admin.AdjustBalanceHandler)
	adminroutes.Post("/users/:id/can-win-seconds", admin.SetCanWinSecondsHandler)

	adminroutes.Get("/market/prices", admin.MarketPricesHandler)
}
