package main

import (
	"github.com/baharimarine/compro/internal/config"
	"github.com/baharimarine/compro/internal/middleware"
	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/baharimarine/compro/pkg/logger"
	gormlogger "gorm.io/gorm/logger"
)

// appServices holds the shared dependencies the routes are built from.
type appServices struct {
	cfg          *config.Config
	calendar     *services.WorkdayCalendar
	loginLimiter *middleware.RateLimiter
}

// bootstrap connects the database, migrates it and seeds the admin account.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	logLevel := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}
	if err := models.InitDB(&cfg.Database, logLevel); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(models.GetDB()); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitSystemLogger(models.GetDB())

	authService := services.NewAuthService(models.GetDB(), &cfg.JWT)
	created, err := authService.CreateAdminIfNotExists(cfg.Admin)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	} else if created {
		logger.Info().Str("email", cfg.Admin.Email).Msg("Default admin user created")
	}

	calendar := services.NewWorkdayCalendar(cfg.Project.HolidayCountry)
	logger.Info().Str("country", calendar.Country()).Msg("Working-day calendar loaded")

	return &appServices{
		cfg:          cfg,
		calendar:     calendar,
		loginLimiter: middleware.NewRateLimiter(0.2, 5),
	}
}

// shutdown releases background resources and the database pool.
func (s *appServices) shutdown() {
	s.loginLimiter.Stop()
	if sqlDB, err := models.GetDB().DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close database")
		}
	}
	logger.Info().Msg("Shutdown complete")
}
