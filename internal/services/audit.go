package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/collabspace/backend/internal/models"
	"github.com/collabspace/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var auditDB *gorm.DB

// InitAudit sets the database the audit writer records to.
func InitAudit(db *gorm.DB) {
	auditDB = db
}

// AuditEntry describes one authenticated write operation.
type AuditEntry struct {
	Method    string
	Path      string
	Route     string
	Status    int
	UserID    *uint
	Address   string
	IP        string
	UserAgent string
}

// RecordAudit writes an audit row. Failures are logged, never surfaced: the
// audit trail must not fail the request it describes.
func RecordAudit(e AuditEntry) {
	if auditDB == nil {
		return
	}

	module, action := routeInfo(e.Route, e.Method)

	level := "info"
	if e.Status >= 500 {
		level = "error"
	} else if e.Status >= 400 {
		level = "warning"
	}

	row := models.AuditLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   fmt.Sprintf("%s %s → %d", e.Method, e.Path, e.Status),
		UserID:    e.UserID,
		Address:   e.Address,
		IP:        e.IP,
		UserAgent: e.UserAgent,
	}
	if err := auditDB.Create(&row).Error; err != nil {
		logger.Warn().Err(err).Msg("audit write failed")
	}
}

// routeInfo derives module/action labels from a Gin route pattern, e.g.
// "/api/projects/:id/status" + PUT → ("projects", "Update").
func routeInfo(route, method string) (module, action string) {
	path := strings.TrimPrefix(route, "/api/")
	if i := strings.IndexByte(path, '/'); i > 0 {
		path = path[:i]
	}
	if path == "" {
		path = "unknown"
	}

	switch method {
	case "POST":
		action = "Create"
	case "PUT":
		action = "Update"
	case "DELETE":
		action = "Delete"
	default:
		action = method
	}

	return path, action
}

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

type AuditListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Level    string `form:"level"`
	Module   string `form:"module"`
}

type AuditListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []models.AuditLog `json:"items"`
}

// List returns paginated audit rows, newest first.
func (s *AuditService) List(req *AuditListRequest) (*AuditListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var logs []models.AuditLog
	var total int64

	query := s.db.Model(&models.AuditLog{})
	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	return &AuditListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    logs,
	}, nil
}

// CleanupOldLogs deletes audit rows older than retentionDays. Returns the
// number of deleted records.
func (s *AuditService) CleanupOldLogs(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

var auditCron *cron.Cron

// StartAuditCleanup runs one retention sweep immediately and then daily.
func StartAuditCleanup(db *gorm.DB, retentionDays int) {
	if retentionDays <= 0 {
		logger.Info().Msg("audit cleanup disabled (retention_days <= 0)")
		return
	}

	svc := NewAuditService(db)
	sweep := func() {
		deleted, err := svc.CleanupOldLogs(retentionDays)
		if err != nil {
			logger.Error().Err(err).Msg("audit cleanup failed")
			return
		}
		if deleted > 0 {
			logger.Info().Int64("deleted", deleted).Msg("audit cleanup")
		}
	}

	sweep()

	auditCron = cron.New()
	if _, err := auditCron.AddFunc("@daily", sweep); err != nil {
		logger.Error().Err(err).Msg("failed to schedule audit cleanup")
		return
	}
	auditCron.Start()
}

// StopAuditCleanup stops the retention scheduler.
func StopAuditCleanup() {
	if auditCron != nil {
		auditCron.Stop()
	}
}
