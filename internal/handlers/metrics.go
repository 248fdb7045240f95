package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var startTime = time.Now()

type MetricsHandler struct {
	db        *gorm.DB
	dashboard *services.DashboardService
}

func NewMetricsHandler(db *gorm.DB) *MetricsHandler {
	return &MetricsHandler{db: db, dashboard: services.NewDashboardService(db, nil)}
}

// Metrics returns Prometheus-compatible text format metrics.
// GET /metrics
func (h *MetricsHandler) Metrics(c *gin.Context) {
	var b strings.Builder

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeGauge(&b, "compro_uptime_seconds", "Time since server start in seconds", time.Since(startTime).Seconds())
	writeGauge(&b, "compro_goroutines", "Number of active goroutines", float64(runtime.NumGoroutine()))
	writeGauge(&b, "compro_memory_alloc_bytes", "Current heap allocation in bytes", float64(m.Alloc))
	writeGauge(&b, "compro_memory_sys_bytes", "Total memory obtained from OS in bytes", float64(m.Sys))
	writeGauge(&b, "compro_gc_runs_total", "Total number of GC runs", float64(m.NumGC))

	if sqlDB, err := h.db.DB(); err == nil {
		stats := sqlDB.Stats()
		writeGauge(&b, "compro_db_open_connections", "Number of open DB connections", float64(stats.OpenConnections))
		writeGauge(&b, "compro_db_in_use_connections", "Number of in-use DB connections", float64(stats.InUse))
		writeGauge(&b, "compro_db_idle_connections", "Number of idle DB connections", float64(stats.Idle))
	}

	if content, err := h.dashboard.ContentStats(); err == nil {
		writeGauge(&b, "compro_services_total", "Number of services", float64(content.Services))
		writeGauge(&b, "compro_machine_categories_total", "Number of machine categories", float64(content.MachineCategories))
		writeGauge(&b, "compro_machines_total", "Number of machines", float64(content.Machines))
		writeGauge(&b, "compro_facilities_total", "Number of facilities", float64(content.Facilities))
		writeGauge(&b, "compro_certificates_total", "Number of certificates", float64(content.Certificates))
		writeGauge(&b, "compro_gallery_items_total", "Number of gallery items", float64(content.GalleryItems))
	}

	var projectCount, ongoingCount, userCount int64
	h.db.Model(&models.Project{}).Count(&projectCount)
	h.db.Model(&models.Project{}).Where("status = ?", utils.StatusOngoing).Count(&ongoingCount)
	h.db.Model(&models.User{}).Where("is_active = ?", true).Count(&userCount)

	writeGauge(&b, "compro_projects_total", "Total number of projects", float64(projectCount))
	writeGauge(&b, "compro_projects_ongoing", "Number of ongoing projects", float64(ongoingCount))
	writeGauge(&b, "compro_users_active", "Number of active users", float64(userCount))

	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s gauge\n", name)
	fmt.Fprintf(b, "%s %g\n\n", name, value)
}
