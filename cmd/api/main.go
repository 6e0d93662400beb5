package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-minimarket-pos/internal/handler"
	"go-minimarket-pos/internal/middleware"
	"go-minimarket-pos/internal/model"
	"go-minimarket-pos/internal/repository"
	"go-minimarket-pos/internal/service"
	"go-minimarket-pos/internal/ws"
	"go-minimarket-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Product{},
		&model.Customer{},
		&model.Sale{},
		&model.SaleItem{},
		&model.TillSession{},
		&model.CashOutflow{},
		&model.PDVSession{},
		&model.User{},
	)

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	tillRepo := repository.NewTillRepo(db)
	pdvRepo := repository.NewPDVRepo(db)
	userRepo := repository.NewUserRepo(db)

	catalogService := service.NewCatalogService(productRepo, db, wsHub)
	saleService := service.NewSaleService(saleRepo, productRepo, customerRepo, db, wsHub)
	tillService := service.NewTillService(tillRepo, saleRepo, wsHub)
	reportService := service.NewReportService(saleRepo, productRepo)
	pdvService := service.NewPDVService(pdvRepo, productRepo, saleService, db)
	authService := service.NewAuthService(userRepo, wsHub)

	productHandler := handler.NewProductHandler(catalogService)
	customerHandler := handler.NewCustomerHandler(customerRepo)
	saleHandler := handler.NewSaleHandler(saleService)
	tillHandler := handler.NewTillHandler(tillService)
	reportHandler := handler.NewReportHandler(reportService)
	pdvHandler := handler.NewPDVHandler(pdvService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Minimarket POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Reports
	protected.Get("/reports/dashboard", reportHandler.GetDashboard)
	protected.Get("/reports/sales/:date", reportHandler.GetSalesByDate)

	// Product Catalog
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", middleware.RequireAdmin(), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireAdmin(), productHandler.UpdateProduct)

	// Customers
	protected.Get("/customers", customerHandler.GetCustomers)
	protected.Get("/customers/:id", customerHandler.GetCustomer)
	protected.Post("/customers", customerHandler.CreateCustomer)
	protected.Put("/customers/:id", customerHandler.UpdateCustomer)
	protected.Delete("/customers/:id", middleware.RequireAdmin(), customerHandler.DeleteCustomer)

	// Sales + Line Items
	protected.Get("/sales", saleHandler.GetSales)
	protected.Post("/sales", saleHandler.CreateSale)
	protected.Post("/sales/mark-paid", middleware.RequireAdmin(), saleHandler.MarkPaid)
	protected.Get("/sales/:id", saleHandler.GetSale)
	protected.Put("/sales/:id/settle", saleHandler.SettleSale)
	protected.Delete("/sales/:id", middleware.RequireAdmin(), saleHandler.DeleteSale)
	protected.Post("/sales/:id/items", saleHandler.AddItem)
	protected.Delete("/sales/items/:itemId", saleHandler.RemoveItem)

	// Till Sessions
	protected.Get("/till", tillHandler.List)
	protected.Get("/till/current", tillHandler.Current)
	protected.Post("/till/open", tillHandler.Open)
	protected.Post("/till/:id/close", tillHandler.Close)
	protected.Get("/till/:id/summary", tillHandler.Summary)
	protected.Post("/till/:id/outflows", tillHandler.AddOutflow)

	// PDV (register scanner)
	protected.Post("/pdv/scan", pdvHandler.Scan)
	protected.Get("/pdv/sale", pdvHandler.CurrentSale)
	protected.Post("/pdv/finish", pdvHandler.FinishSession)

	// User Management (admin only)
	protected.Get("/users", middleware.RequireAdmin(), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequireAdmin(), userHandler.GetUser)
	protected.Post("/users", middleware.RequireAdmin(), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequireAdmin(), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequireAdmin(), userHandler.DeleteUser)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin user if it doesn't exist
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@minimarket.local"
	}

	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Printf("Admin user created: %s (ADMIN)", email)
	}
}
