package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func projectRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	db := newTestDB(t)
	h := NewProjectHandler(db, services.NewWorkdayCalendar("NONE"))

	r := gin.New()
	r.GET("/api/projects", h.List)
	r.GET("/api/projects/:id", h.GetByID)
	r.POST("/api/projects", h.Create)
	r.POST("/api/projects/import", h.Import)
	r.POST("/api/projects/bulk-delete", h.BulkDelete)
	r.PUT("/api/projects", h.Update)
	r.PUT("/api/projects/:id", h.Update)
	r.DELETE("/api/projects", h.Delete)
	r.DELETE("/api/projects/:id", h.Delete)
	return r, db
}

func createProject(t *testing.T, r *gin.Engine, jobNo string) services.ProjectView {
	t.Helper()
	body := fmt.Sprintf(`{"job_no":%q,"customer_name":"Pertamina","project_name":"Jetty repair","start_date":"2025-01-06","end_date":"2025-01-12","status":"in progress"}`, jobNo)
	w := serveJSON(r, "POST", "/api/projects", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view services.ProjectView
	decode(t, w, &view)
	return view
}

func TestProjectHandler_Create(t *testing.T) {
	r, db := projectRouter(t)

	view := createProject(t, r, "J-001")
	assert.Equal(t, "Ongoing", view.Status)
	assert.Equal(t, "-", view.AssignedTo)
	require.NotNil(t, view.DurationDays)
	assert.Equal(t, 7, *view.DurationDays)

	w := serveJSON(r, "POST", "/api/projects", `{"job_no":"J-001","customer_name":"Pertamina","project_name":"Jetty repair","start_date":"2025-01-06"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serveJSON(r, "POST", "/api/projects", `{"job_no":"J-002","customer_name":"X","project_name":"Y","start_date":"2025-01-10","end_date":"2025-01-09"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serveJSON(r, "POST", "/api/projects", `{"job_no":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Project{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProjectHandler_UpdateByQueryID(t *testing.T) {
	r, _ := projectRouter(t)
	view := createProject(t, r, "J-001")

	w := serveJSON(r, "PUT", fmt.Sprintf("/api/projects?id=%d", view.ID), `{"start_date":"2025-01-06","add_duration":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated services.ProjectView
	decode(t, w, &updated)
	require.NotNil(t, updated.EndDate)
	assert.Equal(t, "2025-01-15", *updated.EndDate)
	assert.Equal(t, 3, updated.AddDuration)

	w = serveJSON(r, "PUT", "/api/projects/999", `{"start_date":"2025-01-06"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serveJSON(r, "PUT", "/api/projects", `{"start_date":"2025-01-06"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_Delete(t *testing.T) {
	r, _ := projectRouter(t)
	a := createProject(t, r, "J-001")
	b := createProject(t, r, "J-002")
	c := createProject(t, r, "J-003")

	w := serveJSON(r, "DELETE", fmt.Sprintf("/api/projects?id=%d", c.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serveJSON(r, "DELETE", fmt.Sprintf("/api/projects/%d", c.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serveJSON(r, "DELETE", "/api/projects", fmt.Sprintf(`{"ids":[%d,%d,999]}`, a.ID, b.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		Deleted int64 `json:"deleted"`
	}
	decode(t, w, &result)
	assert.Equal(t, int64(2), result.Deleted)

	w = serveJSON(r, "DELETE", "/api/projects", `{"ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_Import(t *testing.T) {
	r, _ := projectRouter(t)
	createProject(t, r, "J-001")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Job No", "Customer", "Project Name", "Start Date"},
		{"J-001", "Pertamina", "Jetty repair", "2025-01-06"},
		{"J-100", "Chevron", "Mooring survey", "2025-03-01"},
		{"J-101", "Chevron", "Bad date", "2025-13-01"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	workbook, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "projects.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := serve(r, "POST", "/api/projects/import", &body, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result services.ImportResult
	decode(t, w, &result)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 4, result.Errors[0].Row)

	w = serve(r, "POST", "/api/projects/import", bytes.NewBufferString("{}"), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_ListFilters(t *testing.T) {
	r, _ := projectRouter(t)
	createProject(t, r, "J-001")
	w := serveJSON(r, "POST", "/api/projects", `{"job_no":"K-9","customer_name":"Chevron","project_name":"Survey","start_date":"2025-02-01"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, "GET", "/api/projects?status=pending", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []services.ProjectView
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "K-9", list[0].JobNo)

	w = serve(r, "GET", "/api/projects?q=pertamina", nil, "")
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "J-001", list[0].JobNo)
}
