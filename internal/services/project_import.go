package services

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/baharimarine/compro/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const importChunkSize = 300

// ImportRow is one data line of a project spreadsheet. Line is the 1-based
// sheet row so errors can point the operator at the cell.
type ImportRow struct {
	Line    int
	Request CreateProjectRequest
}

type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Inserted int           `json:"inserted"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

var importHeaders = map[string]string{
	"job no":        "job_no",
	"job number":    "job_no",
	"customer":      "customer_name",
	"customer name": "customer_name",
	"project":       "project_name",
	"project name":  "project_name",
	"description":   "description",
	"status":        "status",
	"start date":    "start_date",
	"end date":      "end_date",
	"assigned to":   "assigned_to",
	"contract type": "contract_type",
	"add duration":  "add_duration",
}

func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.NewReplacer("_", " ", ".", "").Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

// ParseProjectSheet reads the first worksheet of an xlsx workbook. The first
// row is the header; columns are matched by name in any order.
func ParseProjectSheet(r io.Reader) ([]ImportRow, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("no worksheet found")
	}
	rows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("worksheet is empty")
	}

	columns := make(map[string]int)
	for i, header := range rows[0] {
		if field, ok := importHeaders[normalizeHeader(header)]; ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}
	for _, required := range []string{"job_no", "customer_name", "project_name", "start_date"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing column %q", strings.ReplaceAll(required, "_", " "))
		}
	}

	cell := func(row []string, field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var out []ImportRow
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		req := CreateProjectRequest{
			JobNo:        cell(row, "job_no"),
			CustomerName: cell(row, "customer_name"),
			ProjectName:  cell(row, "project_name"),
			Description:  cell(row, "description"),
			Status:       cell(row, "status"),
			StartDate:    sheetDate(cell(row, "start_date")),
			EndDate:      sheetDate(cell(row, "end_date")),
			AssignedTo:   cell(row, "assigned_to"),
			ContractType: cell(row, "contract_type"),
		}
		if v := cell(row, "add_duration"); v != "" {
			_ = req.AddDuration.UnmarshalJSON([]byte(strconv.Quote(v)))
		}
		out = append(out, ImportRow{Line: i + 2, Request: req})
	}
	return out, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sheetDate turns an Excel serial date into YYYY-MM-DD. Text is passed
// through untouched for the date parser to accept or reject.
func sheetDate(v string) string {
	if v == "" {
		return ""
	}
	if _, ok := utils.ParseDateOnly(v); ok {
		return v
	}
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial <= 0 {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return utils.ToYMD(t)
}

// Import validates every row and inserts the valid ones in chunks, each chunk
// in its own transaction. Rows duplicating an existing project or an earlier
// row of the same file are skipped.
func (s *ProjectService) Import(rows []ImportRow) (*ImportResult, error) {
	result := &ImportResult{Errors: []ImportError{}}

	var valid []importCandidate
	seen := make(map[string]struct{})

	for _, row := range rows {
		req := row.Request
		project, err := buildProject(&req)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Row: row.Line, Message: err.Error()})
			continue
		}
		key := projectKey(project.JobNo, project.ProjectName)
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}
		valid = append(valid, importCandidate{line: row.Line, project: project})
	}

	for start := 0; start < len(valid); start += importChunkSize {
		end := start + importChunkSize
		if end > len(valid) {
			end = len(valid)
		}
		chunk := valid[start:end]

		existing, err := s.existingKeys(chunk)
		if err != nil {
			return nil, err
		}

		batch := make([]*models.Project, 0, len(chunk))
		lines := make([]int, 0, len(chunk))
		for _, p := range chunk {
			if _, ok := existing[projectKey(p.project.JobNo, p.project.ProjectName)]; ok {
				result.Skipped++
				continue
			}
			batch = append(batch, p.project)
			lines = append(lines, p.line)
		}
		if len(batch) == 0 {
			continue
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&batch).Error
		})
		if err != nil {
			msg := "chunk could not be saved"
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				msg = "chunk rejected: duplicate job_no and project_name"
			} else {
				logger.Error().Err(err).
					Int("first_row", lines[0]).
					Int("last_row", lines[len(lines)-1]).
					Int("rows", len(batch)).
					Msg("project import chunk failed")
			}
			for _, line := range lines {
				result.Errors = append(result.Errors, ImportError{Row: line, Message: msg})
			}
			continue
		}
		result.Inserted += len(batch)
	}

	return result, nil
}

type importCandidate struct {
	line    int
	project *models.Project
}

func projectKey(jobNo, projectName string) string {
	return jobNo + "\x00" + projectName
}

// existingKeys returns the (job_no, project_name) pairs of the chunk that are
// already stored.
func (s *ProjectService) existingKeys(chunk []importCandidate) (map[string]struct{}, error) {
	jobNos := make([]string, 0, len(chunk))
	for _, c := range chunk {
		jobNos = append(jobNos, c.project.JobNo)
	}

	var stored []struct {
		JobNo       string
		ProjectName string
	}
	err := s.db.Model(&models.Project{}).
		Select("job_no", "project_name").
		Where("job_no IN ?", jobNos).
		Find(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("look up existing projects: %w", err)
	}

	keys := make(map[string]struct{}, len(stored))
	for _, p := range stored {
		keys[projectKey(p.JobNo, p.ProjectName)] = struct{}{}
	}
	return keys, nil
}
