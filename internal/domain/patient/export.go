package patient

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Patients"

var exportHeader = []string{
	"ID", "Name", "Age", "Gender", "Phone", "Email", "Condition", "Symptoms",
	"Allergies", "Status", "Priority", "Last Visit", "Created At",
}

var exportWidths = []float64{38, 24, 6, 10, 16, 28, 24, 36, 24, 12, 9, 20, 20}

// exportBatch bounds how many patients are read per repository call.
const exportBatch = 500

// Export writes every patient of the hospital in ctx as an XLSX workbook.
func (s *Service) Export(ctx context.Context, w io.Writer) (int, error) {
	var all []*Patient
	for offset := 0; ; offset += exportBatch {
		page, total, err := s.patients.List(ctx, exportBatch, offset)
		if err != nil {
			return 0, fmt.Errorf("list patients: %w", err)
		}
		all = append(all, page...)
		if len(page) == 0 || offset+len(page) >= total {
			break
		}
	}

	f, err := buildWorkbook(all)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return len(all), nil
}

func buildWorkbook(patients []*Patient) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(exportSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("style header: %w", err)
	}
	for i, width := range exportWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(exportSheet, col, col, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for i, p := range patients {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := exportRow(p)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

func exportRow(p *Patient) []interface{} {
	var age interface{}
	if p.Age != nil {
		age = *p.Age
	}
	lastVisit := ""
	if p.LastVisit != nil {
		lastVisit = p.LastVisit.UTC().Format(time.RFC3339)
	}
	return []interface{}{
		p.ID, p.Name, age, p.Gender, p.Phone, p.Email, p.Condition,
		strings.Join(p.Symptoms, ", "), strings.Join(p.Allergies, ", "),
		p.Status, p.Priority, lastVisit, p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
