package handlers

import (
	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxImportSize bounds an uploaded project workbook.
const maxImportSize = 10 << 20

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB, calendar *services.WorkdayCalendar) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db, calendar),
	}
}

// List returns projects, newest start date first
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	projects, err := h.projectService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, projects)
}

// GetByID returns a project by ID
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := resourceID(c, "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Create creates a new project
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	project, err := h.projectService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, project)
}

// Update updates a project
// PUT /api/projects/:id, PUT /api/projects?id=
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := resourceID(c, "project")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	project, err := h.projectService.Update(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Delete deletes one project, or several when the body carries ids
// DELETE /api/projects/:id, DELETE /api/projects?id=, DELETE /api/projects {"ids":[...]}
func (h *ProjectHandler) Delete(c *gin.Context) {
	if c.Param("id") == "" && !hasQueryID(c) {
		h.BulkDelete(c)
		return
	}

	id, ok := resourceID(c, "project")
	if !ok {
		return
	}
	if err := h.projectService.Delete(id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": 1})
}

// BulkDelete removes the listed projects, ignoring unknown ids
// POST /api/projects/bulk-delete
func (h *ProjectHandler) BulkDelete(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	deleted, err := h.projectService.BulkDelete(ids)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

// Import loads projects from an uploaded xlsx workbook
// POST /api/projects/import
func (h *ProjectHandler) Import(c *gin.Context) {
	limitBody(c, maxImportSize)
	if err := parseForm(c); err != nil {
		response.Error(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "an .xlsx file is required in the \"file\" field")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	rows, err := services.ParseProjectSheet(f)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.projectService.Import(rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
