package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentgrid/car-rental-backend/internal/config"
	"github.com/rentgrid/car-rental-backend/internal/database"
	"github.com/rentgrid/car-rental-backend/internal/handlers"
	"github.com/rentgrid/car-rental-backend/internal/middleware"
	"github.com/rentgrid/car-rental-backend/internal/models"
	"github.com/rentgrid/car-rental-backend/internal/services"
	"github.com/rentgrid/car-rental-backend/pkg/jwt"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	vehicleRepo := database.NewVehicleRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	maintenanceRepo := database.NewMaintenanceRepository(db)
	reportRepo := database.NewReportRepository(db)
	userRepo := database.NewUserRepository(db)
	refreshTokenRepo := database.NewRefreshTokenRepository(db)

	// Services
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	bookingService := services.NewBookingService(bookingRepo, logger)
	maintenanceService := services.NewMaintenanceService(maintenanceRepo, logger)
	availabilityService := services.NewAvailabilityService(vehicleRepo, bookingRepo, maintenanceRepo)
	reportService := services.NewReportService(bookingRepo, reportRepo)
	cronService := services.NewCronService(refreshTokenRepo, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, refreshTokenRepo, jwtService, cfg.JWT.RefreshTokenExpiry, logger)
	vehicleHandler := handlers.NewVehicleHandler(vehicleRepo, availabilityService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService, logger)
	dashboardHandler := handlers.NewDashboardHandler(reportService, logger)

	if err := cronService.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start cron service")
	}
	defer cronService.Stop()

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		v1.GET("/vehicles/available", vehicleHandler.GetAvailable)

		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(jwtService))
		{
			bookings := authed.Group("/bookings")
			{
				bookings.POST("", bookingHandler.Create)
				bookings.GET("/my", bookingHandler.MyBookings)
				bookings.PATCH("/:id/cancel", bookingHandler.Cancel)
			}

			admin := authed.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/bookings", bookingHandler.GetAll)
				admin.PATCH("/bookings/:id/complete", bookingHandler.Complete)

				admin.POST("/vehicles", vehicleHandler.Create)
				admin.GET("/vehicles", vehicleHandler.GetAll)
				admin.GET("/vehicles/:id", vehicleHandler.GetByID)

				maintenance := admin.Group("/maintenance")
				{
					maintenance.POST("", maintenanceHandler.Create)
					maintenance.GET("", maintenanceHandler.GetAll)
					maintenance.PATCH("/:id/complete", maintenanceHandler.Complete)
					maintenance.DELETE("/:id", maintenanceHandler.Delete)
				}

				dashboard := admin.Group("/admin/dashboard")
				{
					dashboard.GET("/stats", dashboardHandler.Stats)
					dashboard.GET("/revenue", dashboardHandler.Revenue)
					dashboard.GET("/usage", dashboardHandler.Usage)
				}
			}
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	logger.Info("Server exited")
}
