package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/paras1506/CSR-Health-Group/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/paras1506/CSR-Health-Group/internal/auth"
	"github.com/paras1506/CSR-Health-Group/internal/cache"
	"github.com/paras1506/CSR-Health-Group/internal/config"
	"github.com/paras1506/CSR-Health-Group/internal/db"
	"github.com/paras1506/CSR-Health-Group/internal/handler"
	"github.com/paras1506/CSR-Health-Group/internal/model"
	"github.com/paras1506/CSR-Health-Group/internal/notify"
	"github.com/paras1506/CSR-Health-Group/internal/repository"
	"github.com/paras1506/CSR-Health-Group/internal/router"
	"github.com/paras1506/CSR-Health-Group/internal/service"
)

// @title Solar Aid Request API
// @version 1.0
// @description Solar equipment aid platform: appealers raise requests, donors pledge interest, department heads track fulfillment.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.DonorPledge{},
			&model.SolarRequest{},
			&model.User{},
			&model.Department{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Department{},
		&model.User{},
		&model.SolarRequest{},
		&model.DonorPledge{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	requestRepo := repository.NewRequestRepository(gormDB)

	// Initialize collaborators
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	emailVerifier := notify.NewDNSEmailVerifier()
	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.SMTPHost != "" {
		notifier = notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, emailVerifier, notifier, cacheClient)
	requestService := service.NewRequestService(requestRepo, userRepo, notifier)
	queryService := service.NewQueryService(requestRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	requestHandler := handler.NewRequestHandler(requestService)
	queryHandler := handler.NewQueryHandler(queryService)

	// Register routes
	router.Register(e, cfg, authHandler, requestHandler, queryHandler)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
