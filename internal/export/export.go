// Package export renders report rows for admin download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/pkg/errors"
)

var reportColumns = []string{
	"id", "created_at", "reporter_id", "reported_id",
	"category", "details", "status", "reviewed_by", "reviewed_at", "resolution_notes",
}

func reportRow(r *models.Report) []string {
	return []string{
		fmt.Sprintf("%d", r.ID),
		r.CreatedAt.UTC().Format(time.RFC3339),
		fmt.Sprintf("%d", r.ReporterID),
		fmt.Sprintf("%d", r.ReportedID),
		r.Category,
		r.Details,
		r.Status,
		formatOptionalID(r.ReviewedBy),
		formatOptionalTime(r.ReviewedAt),
		r.ResolutionNotes,
	}
}

// WriteReportsCSV writes reports as RFC4180 CSV. An empty set yields the
// minimal "id" header only, matching what admin tooling expects.
func WriteReportsCSV(w io.Writer, reports []models.Report) error {
	if len(reports) == 0 {
		_, err := io.WriteString(w, "id\n")
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to write csv")
		}
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(reportColumns); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to write csv header")
	}
	for i := range reports {
		if err := cw.Write(reportRow(&reports[i])); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to flush csv")
	}
	return nil
}

// WriteReportsXLSX renders the same rows as a spreadsheet.
func WriteReportsXLSX(w io.Writer, reports []models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reports"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create sheet")
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to prune default sheet")
	}

	for col, name := range reportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to write header cell")
		}
	}
	for i := range reports {
		for col, val := range reportRow(&reports[i]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to write cell")
			}
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to write xlsx")
	}
	return nil
}

// ExportFilename builds a timestamped attachment name like
// reports-2026-01-02-15-04-05.csv.
func ExportFilename(ext string, now time.Time) string {
	return fmt.Sprintf("reports-%s.%s", now.UTC().Format("2006-01-02-15-04-05"), ext)
}

func formatOptionalID(id *uint) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
