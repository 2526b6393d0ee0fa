package main

import (
	"log"
	"runtime/debug"
	"strings"

	"cafepos-backend/internal/admin"
	"cafepos-backend/internal/audit"
	"cafepos-backend/internal/auth"
	"cafepos-backend/internal/config"
	"cafepos-backend/internal/customers"
	"cafepos-backend/internal/dashboard"
	"cafepos-backend/internal/database"
	"cafepos-backend/internal/menu"
	"cafepos-backend/internal/models"
	"cafepos-backend/internal/orders"
	"cafepos-backend/internal/payments"
	"cafepos-backend/internal/realtime"
	"cafepos-backend/internal/tables"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	hub := realtime.NewHub()
	go hub.Run()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			body := fiber.Map{"error": "Unexpected server error"}
			if cfg.Env != "production" {
				body["stack"] = string(debug.Stack())
			}
			return c.Status(fiber.StatusInternalServerError).JSON(body)
		},
	})

	// CORS origins come as a comma separated string
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Realtime channel
	app.Use("/ws", realtime.UpgradeRequired)
	app.Get("/ws", hub.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Branch management
	adminRoutes.Post("/branches", admin.CreateBranchHandler())
	adminRoutes.Get("/branches", admin.ListBranchesHandler())
	adminRoutes.Get("/branches/:id", admin.GetBranchHandler())
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler())
	adminRoutes.Delete("/branches/:id", admin.DeleteBranchHandler())
	adminRoutes.Post("/branches/:id/admin", admin.CreateBranchAdminHandler())
	adminRoutes.Get("/branches/:id/admins", admin.ListBranchAdminsHandler())

	// Floor plan
	adminRoutes.Post("/branches/:id/floors", admin.CreateFloorHandler())
	adminRoutes.Get("/branches/:id/floors", admin.ListFloorsHandler())
	adminRoutes.Put("/floors/:id", admin.UpdateFloorHandler())
	adminRoutes.Delete("/floors/:id", admin.DeleteFloorHandler())

	// Terminals
	adminRoutes.Post("/terminals", admin.CreateTerminalHandler())
	adminRoutes.Get("/terminals", admin.ListTerminalsHandler())
	adminRoutes.Get("/terminals/:id", admin.GetTerminalHandler())
	adminRoutes.Delete("/terminals/:id", admin.DeleteTerminalHandler())

	// Menu management
	adminRoutes.Post("/categories", menu.CreateCategoryHandler())
	adminRoutes.Put("/categories/:id", menu.UpdateCategoryHandler())
	adminRoutes.Delete("/categories/:id", menu.DeleteCategoryHandler())
	adminRoutes.Post("/products", menu.CreateProductHandler())
	adminRoutes.Put("/products/:id", menu.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", menu.DeleteProductHandler())

	// Table management
	adminRoutes.Post("/tables", tables.CreateTableHandler())
	adminRoutes.Put("/tables/:id", tables.UpdateTableHandler())
	adminRoutes.Delete("/tables/:id", tables.DeleteTableHandler())

	// Shared (authenticated) routes

	protected.Get("/products", menu.ListProductsHandler())
	protected.Get("/categories", menu.ListCategoriesHandler())

	protected.Get("/tables", tables.ListTablesHandler())
	protected.Get("/tables/:id", tables.GetTableHandler())
	protected.Put("/tables/:id/status", tables.UpdateTableStatusHandler(hub))

	protected.Post("/orders", orders.CreateOrderHandler(hub))
	protected.Get("/orders", orders.ListOrdersHandler())
	protected.Get("/orders/:id", orders.GetOrderHandler())
	protected.Put("/orders/:id/status", orders.UpdateOrderStatusHandler(hub))

	protected.Post("/payments", payments.CreatePaymentHandler())
	protected.Get("/payments", payments.ListPaymentsHandler())
	protected.Put("/payments/:id/status", payments.UpdatePaymentStatusHandler(hub))
	protected.Get("/payments/summary/monthly", payments.MonthlySummaryHandler())

	protected.Post("/customers", customers.CreateCustomerHandler())
	protected.Get("/customers", customers.ListCustomersHandler())
	protected.Get("/customers/:id", customers.GetCustomerHandler())
	protected.Put("/customers/:id", customers.UpdateCustomerHandler())
	protected.Delete("/customers/:id", customers.DeleteCustomerHandler())

	protected.Get("/dashboard/sales-chart", dashboard.SalesChartHandler())

	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server running on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
