package services

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/collabspace/backend/internal/config"
	"github.com/collabspace/backend/internal/models"
	"github.com/collabspace/backend/internal/utils"
	"github.com/collabspace/backend/pkg/response"
)

func init() {
	utils.SetJWTSecret("services-test-secret")
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.ProjectDetail{},
		&models.ProjectCollaborator{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "services-test-secret", RegisterExpireHour: 1, LoginExpireHour: 24}
}

func createUser(t *testing.T, db *gorm.DB, name, email, address string) *models.User {
	t.Helper()

	user := models.User{Name: name, Email: email, Address: address}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return &user
}

func createProject(t *testing.T, db *gorm.DB, projectID, owner, title string) *models.ProjectDetail {
	t.Helper()

	project := models.ProjectDetail{
		ProjectID:    projectID,
		OwnerAddress: owner,
		Title:        title,
		Status:       models.StatusOpen,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("create project %s: %v", projectID, err)
	}
	return &project
}

// assertAppError fails unless err is an AppError with the given status, key
// and message.
func assertAppError(t *testing.T, err error, status int, key, msg string) *response.AppError {
	t.Helper()

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.HTTPStatus != status {
		t.Errorf("status = %d, expected %d", appErr.HTTPStatus, status)
	}
	if appErr.Key != key {
		t.Errorf("key = %q, expected %q", appErr.Key, key)
	}
	if appErr.Message != msg {
		t.Errorf("message = %q, expected %q", appErr.Message, msg)
	}
	return appErr
}
