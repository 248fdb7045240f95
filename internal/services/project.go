package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/baharimarine/compro/pkg/response"
	"gorm.io/gorm"
)

var errDuplicateProject = response.NewConflict("a project with this job_no and project_name already exists")

type ProjectService struct {
	db       *gorm.DB
	calendar *WorkdayCalendar
}

func NewProjectService(db *gorm.DB, calendar *WorkdayCalendar) *ProjectService {
	if calendar == nil {
		calendar = NewWorkdayCalendar(countryNone)
	}
	return &ProjectService{db: db, calendar: calendar}
}

type ProjectListRequest struct {
	Status string `form:"status"`
	Q      string `form:"q"`
}

type CreateProjectRequest struct {
	JobNo        string      `json:"job_no"`
	CustomerName string      `json:"customer_name"`
	ProjectName  string      `json:"project_name"`
	Description  string      `json:"description"`
	Status       string      `json:"status"`
	StartDate    string      `json:"start_date"`
	EndDate      string      `json:"end_date"`
	AssignedTo   string      `json:"assigned_to"`
	ContractType string      `json:"contract_type"`
	AddDuration  OptionalInt `json:"add_duration"`
}

// UpdateProjectRequest is a partial update; nil fields keep their value.
// start_date is always required so the duration can be recalculated.
type UpdateProjectRequest struct {
	JobNo        *string     `json:"job_no"`
	CustomerName *string     `json:"customer_name"`
	ProjectName  *string     `json:"project_name"`
	Description  *string     `json:"description"`
	Status       *string     `json:"status"`
	StartDate    string      `json:"start_date"`
	EndDate      *string     `json:"end_date"`
	AssignedTo   *string     `json:"assigned_to"`
	ContractType *string     `json:"contract_type"`
	AddDuration  OptionalInt `json:"add_duration"`
}

// ProjectView is the API representation of a project. Dates are YYYY-MM-DD.
type ProjectView struct {
	ID           uint      `json:"id"`
	JobNo        string    `json:"job_no"`
	CustomerName string    `json:"customer_name"`
	ProjectName  string    `json:"project_name"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	StartDate    string    `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	AssignedTo   string    `json:"assigned_to"`
	ContractType *string   `json:"contract_type"`
	AddDuration  int       `json:"add_duration"`
	DurationDays *int      `json:"duration_days"`
	WorkingDays  *int      `json:"working_days"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *ProjectService) view(p *models.Project) ProjectView {
	v := ProjectView{
		ID:           p.ID,
		JobNo:        p.JobNo,
		CustomerName: p.CustomerName,
		ProjectName:  p.ProjectName,
		Description:  p.Description,
		Status:       utils.NormalizeStatus(p.Status),
		StartDate:    utils.ToYMD(p.StartDate),
		AssignedTo:   p.AssignedTo,
		ContractType: p.ContractType,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.AddDuration != nil {
		v.AddDuration = *p.AddDuration
	}
	if p.EndDate != nil {
		end := utils.ToYMD(*p.EndDate)
		v.EndDate = &end

		start, stop := utils.TruncateDate(p.StartDate), utils.TruncateDate(*p.EndDate)
		days := int(stop.Sub(start).Hours()/24) + 1
		working := s.calendar.CountWorkdays(start, stop)
		v.DurationDays = &days
		v.WorkingDays = &working
	}
	return v
}

// List returns every project, newest start date first.
func (s *ProjectService) List(req *ProjectListRequest) ([]ProjectView, error) {
	query := s.db.Model(&models.Project{})

	if req.Status != "" {
		query = query.Where("status = ?", utils.NormalizeStatus(req.Status))
	}
	if q := strings.TrimSpace(req.Q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(job_no) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(project_name) LIKE ?", like, like, like)
	}

	var projects []models.Project
	if err := query.Order("start_date DESC").Order("id DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	views := make([]ProjectView, 0, len(projects))
	for i := range projects {
		views = append(views, s.view(&projects[i]))
	}
	return views, nil
}

func (s *ProjectService) GetByID(id uint) (*ProjectView, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, findError(err, "project")
	}
	v := s.view(&project)
	return &v, nil
}

// Create validates the payload and inserts a project. Nothing is written when
// validation fails.
func (s *ProjectService) Create(req *CreateProjectRequest) (*ProjectView, error) {
	project, err := buildProject(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(project.JobNo, project.ProjectName, 0); err != nil {
		return nil, err
	}
	if err := s.db.Create(project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errDuplicateProject
		}
		return nil, writeError(err, "project")
	}
	v := s.view(project)
	return &v, nil
}

func buildProject(req *CreateProjectRequest) (*models.Project, error) {
	jobNo := strings.TrimSpace(req.JobNo)
	customer := strings.TrimSpace(req.CustomerName)
	name := strings.TrimSpace(req.ProjectName)
	switch {
	case jobNo == "":
		return nil, response.NewBadRequest("job_no is required")
	case customer == "":
		return nil, response.NewBadRequest("customer_name is required")
	case name == "":
		return nil, response.NewBadRequest("project_name is required")
	}

	start, ok := utils.ParseDateOnly(req.StartDate)
	if !ok {
		return nil, response.NewBadRequest("start_date must be a valid YYYY-MM-DD date")
	}

	project := &models.Project{
		JobNo:        jobNo,
		CustomerName: customer,
		ProjectName:  name,
		Description:  strings.TrimSpace(req.Description),
		Status:       utils.NormalizeStatus(req.Status),
		StartDate:    start,
		AssignedTo:   assignee(req.AssignedTo),
	}

	if strings.TrimSpace(req.EndDate) != "" {
		end, ok := utils.ParseDateOnly(req.EndDate)
		if !ok {
			return nil, response.NewBadRequest("end_date must be a valid YYYY-MM-DD date")
		}
		if end.Before(start) {
			return nil, ErrInvalidDateRange
		}
		project.EndDate = &end
	}

	contract, err := contractType(req.ContractType)
	if err != nil {
		return nil, err
	}
	project.ContractType = contract

	if req.AddDuration.Set && !req.AddDuration.Null {
		days, err := req.AddDuration.Days()
		if err != nil {
			return nil, err
		}
		project.AddDuration = &days
	}
	return project, nil
}

// Update applies a partial update. The end date follows the change in
// add_duration; see RecalculateDuration.
func (s *ProjectService) Update(id uint, req *UpdateProjectRequest) (*ProjectView, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, findError(err, "project")
	}

	updates := map[string]interface{}{}

	if req.JobNo != nil {
		v := strings.TrimSpace(*req.JobNo)
		if v == "" {
			return nil, response.NewBadRequest("job_no must not be empty")
		}
		updates["job_no"] = v
		project.JobNo = v
	}
	if req.ProjectName != nil {
		v := strings.TrimSpace(*req.ProjectName)
		if v == "" {
			return nil, response.NewBadRequest("project_name must not be empty")
		}
		updates["project_name"] = v
		project.ProjectName = v
	}
	if req.CustomerName != nil {
		v := strings.TrimSpace(*req.CustomerName)
		if v == "" {
			return nil, response.NewBadRequest("customer_name must not be empty")
		}
		updates["customer_name"] = v
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		updates["status"] = utils.NormalizeStatus(*req.Status)
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = assignee(*req.AssignedTo)
	}
	if req.ContractType != nil {
		contract, err := contractType(*req.ContractType)
		if err != nil {
			return nil, err
		}
		updates["contract_type"] = contract
	}

	result, err := RecalculateDuration(
		DurationState{EndDate: project.EndDate, AddDuration: project.AddDuration},
		DurationInput{StartDate: req.StartDate, EndDate: req.EndDate, AddDuration: req.AddDuration},
	)
	if err != nil {
		return nil, err
	}
	updates["start_date"] = result.StartDate
	updates["end_date"] = result.EndDate
	updates["add_duration"] = result.AddDuration

	if req.JobNo != nil || req.ProjectName != nil {
		if err := s.ensureUnique(project.JobNo, project.ProjectName, project.ID); err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&project).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errDuplicateProject
		}
		return nil, writeError(err, "project")
	}
	return s.GetByID(id)
}

func (s *ProjectService) Delete(id uint) error {
	return deleteByID(s.db, &models.Project{}, id, "project")
}

// BulkDelete removes the given projects and returns how many existed.
func (s *ProjectService) BulkDelete(ids []uint) (int64, error) {
	return bulkDelete(s.db, &models.Project{}, ids, "projects")
}

// ensureUnique rejects a (job_no, project_name) pair held by another project.
func (s *ProjectService) ensureUnique(jobNo, projectName string, exceptID uint) error {
	var count int64
	query := s.db.Model(&models.Project{}).Where("job_no = ? AND project_name = ?", jobNo, projectName)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("check project uniqueness: %w", err)
	}
	if count > 0 {
		return errDuplicateProject
	}
	return nil
}

func assignee(s string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return "-"
}

func contractType(s string) (*string, error) {
	v, ok := utils.NormalizeContractType(s)
	if !ok {
		return nil, response.NewBadRequest("contract_type must be Lumpsum or DailyRate")
	}
	if v == "" {
		return nil, nil
	}
	return &v, nil
}
