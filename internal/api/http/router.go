package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallet-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Users        *handlers.UsersHandler
	Groups       *handlers.GroupsHandler
	Categories   *handlers.CategoriesHandler
	Transactions *handlers.TransactionsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	api.Post("/register", cfg.Auth.Register)
	api.Post("/admin", cfg.Auth.RegisterAdmin)
	api.Post("/login", cfg.Auth.Login)
	api.Get("/logout", cfg.Auth.Logout)

	api.Get("/users", cfg.Users.GetUsers)
	api.Get("/users/:username", cfg.Users.GetUser)
	api.Delete("/users", cfg.Users.DeleteUser)

	api.Post("/groups", cfg.Groups.CreateGroup)
	api.Get("/groups", cfg.Groups.GetGroups)
	api.Get("/groups/:name", cfg.Groups.GetGroup)
	api.Patch("/groups/:name/add", cfg.Groups.AddToGroup)
	api.Patch("/groups/:name/insert", cfg.Groups.InsertToGroup)
	api.Patch("/groups/:name/remove", cfg.Groups.RemoveFromGroup)
	api.Patch("/groups/:name/pull", cfg.Groups.PullFromGroup)
	api.Delete("/groups", cfg.Groups.DeleteGroup)

	api.Post("/categories", cfg.Categories.CreateCategory)
	api.Patch("/categories/:type", cfg.Categories.UpdateCategory)
	api.Delete("/categories", cfg.Categories.DeleteCategories)
	api.Get("/categories", cfg.Categories.GetCategories)

	api.Post("/users/:username/transactions", cfg.Transactions.CreateTransaction)
	api.Get("/users/:username/transactions", cfg.Transactions.GetUserTransactions)
	api.Get("/users/:username/transactions/category/:category", cfg.Transactions.GetUserTransactionsByCategory)
	api.Delete("/users/:username/transactions", cfg.Transactions.DeleteTransaction)

	api.Get("/groups/:name/transactions", cfg.Transactions.GetGroupTransactions)
	api.Get("/groups/:name/transactions/category/:category", cfg.Transactions.GetGroupTransactionsByCategory)

	api.Get("/transactions", cfg.Transactions.GetAllTransactions)
	api.Delete("/transactions", cfg.Transactions.DeleteTransactions)
	api.Get("/transactions/users/:username", cfg.Transactions.GetUserTransactionsAdmin)
	api.Get("/transactions/users/:username/category/:category", cfg.Transactions.GetUserTransactionsByCategoryAdmin)
	api.Get("/transactions/groups/:name", cfg.Transactions.GetGroupTransactionsAdmin)
	api.Get("/transactions/groups/:name/category/:category", cfg.Transactions.GetGroupTransactionsByCategoryAdmin)
}
