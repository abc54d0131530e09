package main

import (
	"github.com/collabspace/backend/internal/config"
	"github.com/collabspace/backend/internal/handlers"
	"github.com/collabspace/backend/internal/models"
	"github.com/collabspace/backend/internal/services"
	"github.com/collabspace/backend/internal/utils"
	"github.com/collabspace/backend/pkg/logger"
)

// appServices holds all initialized handlers needed by the router.
type appServices struct {
	cfg                 *config.Config
	authHandler         *handlers.AuthHandler
	profileHandler      *handlers.ProfileHandler
	projectHandler      *handlers.ProjectHandler
	collaboratorHandler *handlers.CollaboratorHandler
	auditLogHandler     *handlers.AuditLogHandler
}

// bootstrap initializes the database, migrations, audit trail and handlers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()
	services.InitAudit(db)
	services.StartAuditCleanup(db, cfg.Audit.RetentionDays)

	return &appServices{
		cfg:                 cfg,
		authHandler:         handlers.NewAuthHandler(db, cfg),
		profileHandler:      handlers.NewProfileHandler(db),
		projectHandler:      handlers.NewProjectHandler(db),
		collaboratorHandler: handlers.NewCollaboratorHandler(db),
		auditLogHandler:     handlers.NewAuditLogHandler(db),
	}
}

// shutdown stops background services.
func (s *appServices) shutdown() {
	services.StopAuditCleanup()
}
