package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/trymedating/trymed/internal/models"
)

func sampleReports() []models.Report {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	reviewed := created.Add(2 * time.Hour)
	reviewer := uint(7)

	return []models.Report{
		{
			ID:         1,
			ReporterID: 10,
			ReportedID: 20,
			Category:   "harassment",
			Details:    "repeated unwanted messages",
			Status:     models.ReportStatusOpen,
			CreatedAt:  created,
		},
		{
			ID:              2,
			ReporterID:      11,
			ReportedID:      21,
			Category:        "spam",
			Details:         "says \"click here\", with commas,\nand newlines",
			Status:          models.ReportStatusResolved,
			ReviewedBy:      &reviewer,
			ReviewedAt:      &reviewed,
			ResolutionNotes: "account warned",
			CreatedAt:       created,
		},
	}
}

func TestWriteReportsCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReportsCSV(&buf, nil); err != nil {
		t.Fatalf("WriteReportsCSV() error = %v", err)
	}
	if got := buf.String(); got != "id\n" {
		t.Errorf("empty export = %q, want %q", got, "id\n")
	}
}

func TestWriteReportsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReportsCSV(&buf, sampleReports()); err != nil {
		t.Fatalf("WriteReportsCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3 (header + 2 reports)", len(rows))
	}
	if rows[0][0] != "id" || rows[0][4] != "category" {
		t.Errorf("unexpected header row: %v", rows[0])
	}

	first := rows[1]
	if first[0] != "1" {
		t.Errorf("id = %q, want 1", first[0])
	}
	if first[1] != "2026-03-14T09:26:53Z" {
		t.Errorf("created_at = %q, want RFC3339 UTC", first[1])
	}
	if first[7] != "" || first[8] != "" {
		t.Errorf("unreviewed report should have empty reviewed columns, got %q / %q", first[7], first[8])
	}

	second := rows[2]
	if second[5] != "says \"click here\", with commas,\nand newlines" {
		t.Errorf("details round-trip failed: %q", second[5])
	}
	if second[7] != "7" {
		t.Errorf("reviewed_by = %q, want 7", second[7])
	}
	if second[8] != "2026-03-14T11:26:53Z" {
		t.Errorf("reviewed_at = %q, want RFC3339 UTC", second[8])
	}
}

func TestWriteReportsCSV_QuotesSpecialChars(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReportsCSV(&buf, sampleReports()); err != nil {
		t.Fatalf("WriteReportsCSV() error = %v", err)
	}

	// The details field with commas and quotes must appear quoted on the wire.
	if !strings.Contains(buf.String(), `"says ""click here"", with commas,`) {
		t.Errorf("details field not RFC4180-quoted:\n%s", buf.String())
	}
}

func TestWriteReportsXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReportsXLSX(&buf, sampleReports()); err != nil {
		t.Fatalf("WriteReportsXLSX() error = %v", err)
	}

	// XLSX files are zip archives; check the magic bytes.
	b := buf.Bytes()
	if len(b) < 4 || b[0] != 'P' || b[1] != 'K' {
		t.Errorf("output does not look like an xlsx archive")
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	if got := ExportFilename("csv", now); got != "reports-2026-01-02-15-04-05.csv" {
		t.Errorf("ExportFilename(csv) = %q", got)
	}
	if got := ExportFilename("xlsx", now); got != "reports-2026-01-02-15-04-05.xlsx" {
		t.Errorf("ExportFilename(xlsx) = %q", got)
	}
}
