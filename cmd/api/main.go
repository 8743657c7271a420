package main

import (
	"log"

	_ "textile-backend/api/swagger" // swagger docs
	"textile-backend/internal/config"
	"textile-backend/internal/database"
	"textile-backend/internal/handler"
	"textile-backend/internal/repository"
	"textile-backend/internal/service"
	"textile-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Textile Inventory API
// @version         1.0
// @description     Inventory and bookkeeping backend for a textile business: thread purchasing, dyeing, fabric production, sales and khata ledger.
// @host            localhost:8080
// @BasePath        /
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := config.Load()
	logger := config.GetLogger()

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	logger.Info("Connected to PostgreSQL successfully")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	vendorRepo := repository.NewVendorRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	purchaseRepo := repository.NewThreadPurchaseRepository(db)
	threadTypeRepo := repository.NewThreadTypeRepository(db)
	dyeingRepo := repository.NewDyeingProcessRepository(db)
	fabricRepo := repository.NewFabricProductionRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	inventoryTxRepo := repository.NewInventoryTxRepository(db)
	salesRepo := repository.NewSalesOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	khataRepo := repository.NewKhataRepository(db)
	billRepo := repository.NewLedgerBillRepository(db)
	partyRepo := repository.NewLedgerPartyRepository(db)
	ledgerTxRepo := repository.NewLedgerTransactionRepository(db)
	bankRepo := repository.NewBankAccountRepository(db)

	vendorService := service.NewVendorService(vendorRepo)
	customerService := service.NewCustomerService(customerRepo)
	threadService := service.NewThreadService(purchaseRepo, threadTypeRepo, vendorRepo, inventoryRepo, inventoryTxRepo, dyeingRepo, paymentRepo, txManager, wsHub)
	dyeingService := service.NewDyeingService(dyeingRepo, purchaseRepo, threadTypeRepo, inventoryRepo, inventoryTxRepo, txManager, wsHub)
	fabricService := service.NewFabricService(fabricRepo, purchaseRepo, inventoryRepo, inventoryTxRepo, txManager, wsHub)
	inventoryService := service.NewInventoryService(inventoryRepo, inventoryTxRepo, txManager, wsHub)
	salesService := service.NewSalesService(salesRepo, customerRepo, purchaseRepo, fabricRepo, inventoryRepo, inventoryTxRepo, paymentRepo, txManager, wsHub)
	ledgerService := service.NewLedgerService(cfg.Ledger, khataRepo, billRepo, partyRepo, ledgerTxRepo, bankRepo, txManager)

	if cfg.Ledger.Enabled {
		logger.Info("Ledger persistence enabled")
	} else {
		logger.Info("Ledger running in demo mode with in-memory data")
	}

	// Initialize Handlers
	vendorHandler := handler.NewVendorHandler(vendorService)
	customerHandler := handler.NewCustomerHandler(customerService)
	threadHandler := handler.NewThreadHandler(threadService)
	dyeingHandler := handler.NewDyeingHandler(dyeingService)
	fabricHandler := handler.NewFabricHandler(fabricService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	salesHandler := handler.NewSalesHandler(salesService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for live stock updates
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c)
	})

	// Register API Routes
	vendorHandler.RegisterRoutes(router.Group(""))
	customerHandler.RegisterRoutes(router.Group(""))
	threadHandler.RegisterRoutes(router.Group(""))
	dyeingHandler.RegisterRoutes(router.Group(""))
	fabricHandler.RegisterRoutes(router.Group(""))
	inventoryHandler.RegisterRoutes(router.Group(""))
	salesHandler.RegisterRoutes(router.Group(""))
	ledgerHandler.RegisterRoutes(router.Group(""))

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
