package services

import (
	"fmt"
	"time"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/baharimarine/compro/pkg/response"
	"gorm.io/gorm"
)

type DashboardService struct {
	db       *gorm.DB
	projects *ProjectService
}

func NewDashboardService(db *gorm.DB, calendar *WorkdayCalendar) *DashboardService {
	return &DashboardService{db: db, projects: NewProjectService(db, calendar)}
}

type DashboardStatsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// ContentStats counts the records behind each public page.
type ContentStats struct {
	Services          int64 `json:"services"`
	MachineCategories int64 `json:"machine_categories"`
	Machines          int64 `json:"machines"`
	Facilities        int64 `json:"facilities"`
	Certificates      int64 `json:"certificates"`
	GalleryItems      int64 `json:"gallery_items"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type DashboardResponse struct {
	Content        ContentStats  `json:"content"`
	ProjectsTotal  int64         `json:"projects_total"`
	ByStatus       []StatusCount `json:"by_status"`
	StartedInRange int64         `json:"started_in_range"`
	EndingSoon     []ProjectView `json:"ending_soon"`
	RangeStart     string        `json:"range_start"`
	RangeEnd       string        `json:"range_end"`
}

// endingSoonWindow is how far ahead ongoing projects count as ending soon.
const endingSoonWindow = 14 * 24 * time.Hour

// GetStats summarizes content and projects. The range defaults to the last
// 30 days and filters projects by start date.
func (s *DashboardService) GetStats(req *DashboardStatsRequest) (*DashboardResponse, error) {
	today := utils.TruncateDate(time.Now())
	start, end := today.AddDate(0, 0, -30), today

	if req.StartDate != "" {
		d, ok := utils.ParseDateOnly(req.StartDate)
		if !ok {
			return nil, response.NewBadRequest("start_date must be a valid YYYY-MM-DD date")
		}
		start = d
	}
	if req.EndDate != "" {
		d, ok := utils.ParseDateOnly(req.EndDate)
		if !ok {
			return nil, response.NewBadRequest("end_date must be a valid YYYY-MM-DD date")
		}
		end = d
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	content, err := s.ContentStats()
	if err != nil {
		return nil, err
	}
	resp := &DashboardResponse{
		Content:    *content,
		ByStatus:   []StatusCount{},
		RangeStart: utils.ToYMD(start),
		RangeEnd:   utils.ToYMD(end),
	}

	if err := s.db.Model(&models.Project{}).Count(&resp.ProjectsTotal).Error; err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}
	if err := s.db.Model(&models.Project{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&resp.ByStatus).Error; err != nil {
		return nil, fmt.Errorf("count projects by status: %w", err)
	}
	if err := s.db.Model(&models.Project{}).
		Where("start_date BETWEEN ? AND ?", start, end).
		Count(&resp.StartedInRange).Error; err != nil {
		return nil, fmt.Errorf("count started projects: %w", err)
	}

	var ending []models.Project
	if err := s.db.Where("status = ? AND end_date BETWEEN ? AND ?", utils.StatusOngoing, today, today.Add(endingSoonWindow)).
		Order("end_date ASC").Order("id ASC").
		Limit(10).
		Find(&ending).Error; err != nil {
		return nil, fmt.Errorf("list projects ending soon: %w", err)
	}
	resp.EndingSoon = make([]ProjectView, 0, len(ending))
	for i := range ending {
		resp.EndingSoon = append(resp.EndingSoon, s.projects.view(&ending[i]))
	}

	return resp, nil
}

// ContentStats counts the rows of every public content table.
func (s *DashboardService) ContentStats() (*ContentStats, error) {
	var stats ContentStats
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Service{}, &stats.Services},
		{&models.MachineCategory{}, &stats.MachineCategories},
		{&models.Machine{}, &stats.Machines},
		{&models.Facility{}, &stats.Facilities},
		{&models.Certificate{}, &stats.Certificates},
		{&models.GalleryItem{}, &stats.GalleryItems},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count content: %w", err)
		}
	}
	return &stats, nil
}
