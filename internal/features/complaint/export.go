package complaint

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"

	"github.com/xuri/excelize/v2"
)

const exportLimit = 10000

var exportColumns = []string{
	"Complaint ID", "Subject", "Department", "Submission Type", "Priority",
	"Status", "Authorization", "Tags", "Submitter", "Created At",
}

func exportRow(c Complaint) []string {
	submitter := c.SubmitterName
	if c.Anonymous {
		submitter = "Anonymous"
	}
	return []string{
		c.ComplaintID,
		c.Subject,
		c.Department,
		c.SubmissionType,
		string(c.Priority),
		string(c.StatusOfClient),
		string(c.AuthorizationStatus),
		strings.Join(c.Tags, ", "),
		submitter,
		c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Export renders the complaints visible to an admin as csv or xlsx.
func (s *ComplaintServiceImpl) Export(ctx context.Context, actor common_models.Actor, format string, q ListQuery) ([]byte, string, error) {
	if actor.Kind() == common_models.ActorKindUser {
		return nil, "", apperr.Forbidden("export is for admins only")
	}
	if format != "csv" && format != "xlsx" {
		return nil, "", apperr.Validation(fmt.Sprintf("unsupported format: %s", format))
	}

	q.Page, q.Limit = 1, exportLimit
	filter, err := scopeFor(actor, q)
	if err != nil {
		return nil, "", err
	}
	complaints, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	stamp := time.Now().Format("20060102_150405")
	if format == "csv" {
		data, err := exportCSV(complaints)
		return data, fmt.Sprintf("complaints_%s.csv", stamp), err
	}
	data, err := exportExcel(complaints)
	return data, fmt.Sprintf("complaints_%s.xlsx", stamp), err
}

func exportCSV(complaints []Complaint) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportColumns); err != nil {
		return nil, err
	}
	for _, c := range complaints {
		if err := writer.Write(exportRow(c)); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportExcel(complaints []Complaint) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Complaints"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, c := range complaints {
		for colIdx, val := range exportRow(c) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
