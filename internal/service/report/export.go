package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
)

const (
	summarySheet = "Summary"
	staffSheet   = "Staff"
)

// Export renders the month's report as an xlsx workbook with a summary sheet
// and a per-staff sheet.
func (s *Service) Export(ctx context.Context, year, month int) ([]byte, error) {
	r, err := s.Report(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return renderWorkbook(r)
}

func renderWorkbook(r *model.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(staffSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Period", fmt.Sprintf("%d-%02d", r.Year, r.Month)},
		{"Total work days", r.TotalWorkDays},
		{"Total staff", r.TotalStaff},
		{"Vacation requests", r.VacationRequests},
		{"Room utilization (%)", r.RoomUtilization},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	staffRows := make([][]interface{}, 0, len(r.StaffWorkDays)+1)
	staffRows = append(staffRows, []interface{}{"Name", "Work days"})
	for _, sw := range r.StaffWorkDays {
		staffRows = append(staffRows, []interface{}{sw.Name, sw.WorkDays})
	}
	if err := writeRows(f, staffSheet, staffRows); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(staffSheet, "A1", "B1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(staffSheet, "A", "A", 24); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetPanes(staffSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
