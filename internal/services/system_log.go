package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/baharimarine/compro/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var globalDB *gorm.DB

func InitSystemLogger(db *gorm.DB) {
	globalDB = db
}

// LogMeta is the request context attached to an audit entry.
type LogMeta struct {
	UserID    *uint
	RequestID string
	Status    int
	IP        string
	UserAgent string
	Extra     interface{}
}

func LogInfo(module, action, message string, meta LogMeta) {
	writeLog("info", module, action, message, meta)
}

func LogWarning(module, action, message string, meta LogMeta) {
	writeLog("warning", module, action, message, meta)
}

func LogError(module, action, message string, meta LogMeta) {
	writeLog("error", module, action, message, meta)
}

func writeLog(level, module, action, message string, meta LogMeta) {
	if globalDB == nil {
		return
	}

	var extra datatypes.JSON
	if meta.Extra != nil {
		if b, err := json.Marshal(meta.Extra); err == nil {
			extra = b
		}
	}

	entry := &models.SystemLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   message,
		UserID:    meta.UserID,
		RequestID: meta.RequestID,
		Status:    meta.Status,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Extra:     extra,
		CreatedAt: time.Now(),
	}
	if err := globalDB.Create(entry).Error; err != nil {
		logger.Error().Err(err).Str("module", module).Str("action", action).Msg("write system log")
	}
}

type SystemLogService struct {
	db *gorm.DB
}

func NewSystemLogService(db *gorm.DB) *SystemLogService {
	return &SystemLogService{db: db}
}

type SystemLogListRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Level     string `form:"level"`
	Module    string `form:"module"`
	Action    string `form:"action"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Search    string `form:"search"`
}

type SystemLogListResponse struct {
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Items    []models.SystemLog `json:"items"`
}

func (s *SystemLogService) List(req *SystemLogListRequest) (*SystemLogListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var logs []models.SystemLog
	var total int64

	query := s.db.Model(&models.SystemLog{})

	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}
	if req.Action != "" {
		query = query.Where("action LIKE ?", "%"+req.Action+"%")
	}
	if start, ok := utils.ParseDateOnly(req.StartDate); ok {
		query = query.Where("created_at >= ?", start)
	}
	if end, ok := utils.ParseDateOnly(req.EndDate); ok {
		query = query.Where("created_at < ?", utils.AddDays(end, 1))
	}
	if req.Search != "" {
		query = query.Where("message LIKE ?", "%"+req.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count system logs: %w", err)
	}

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Order("id DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list system logs: %w", err)
	}

	return &SystemLogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    logs,
	}, nil
}

func (s *SystemLogService) GetModules() ([]string, error) {
	var modules []string
	if err := s.db.Model(&models.SystemLog{}).Distinct("module").Order("module").Pluck("module", &modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

// CleanupOldLogs deletes entries older than retentionDays and returns how
// many went. A non-positive retention keeps everything.
func (s *SystemLogService) CleanupOldLogs(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("prune system logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
