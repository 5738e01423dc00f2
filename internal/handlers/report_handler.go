package handlers

import (
	"net/http"
	"time"

	"github.com/trymedating/trymed/internal/export"
	"github.com/trymedating/trymed/internal/middleware"
	"github.com/trymedating/trymed/internal/services"
	"github.com/trymedating/trymed/pkg/errors"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Create files a report against another user.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req struct {
		ReportedID uint   `json:"reported_id"`
		Category   string `json:"category"`
		Details    string `json:"details"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.ReportedID == 0 {
		respondError(w, errors.New(errors.ErrCodeValidation, "missing reported_id"))
		return
	}

	report, err := h.reports.Create(userID, req.ReportedID, req.Category, req.Details)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// List returns reports for admin triage.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	since, until, err := timeRange(r)
	if err != nil {
		respondError(w, err)
		return
	}

	reports, err := h.reports.List(userID, since, until, r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// SetStatus performs a triage transition.
func (h *ReportHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	reportID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	report, err := h.reports.SetStatus(userID, reportID, req.Status, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ExportCSV downloads reports as a CSV attachment.
func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	since, until, err := timeRange(r)
	if err != nil {
		respondError(w, err)
		return
	}

	reports, err := h.reports.List(userID, since, until, "")
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+export.ExportFilename("csv", time.Now())+`"`)
	if err := export.WriteReportsCSV(w, reports); err != nil {
		// headers already sent
		return
	}
}

// ExportXLSX downloads the same rows as a spreadsheet.
func (h *ReportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	since, until, err := timeRange(r)
	if err != nil {
		respondError(w, err)
		return
	}

	reports, err := h.reports.List(userID, since, until, "")
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+export.ExportFilename("xlsx", time.Now())+`"`)
	if err := export.WriteReportsXLSX(w, reports); err != nil {
		return
	}
}

func timeRange(r *http.Request) (*time.Time, *time.Time, error) {
	parse := func(name string) (*time.Time, error) {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return nil, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return &t, nil
			}
		}
		return nil, errors.New(errors.ErrCodeValidation, "invalid "+name+" timestamp")
	}

	since, err := parse("since")
	if err != nil {
		return nil, nil, err
	}
	until, err := parse("until")
	if err != nil {
		return nil, nil, err
	}
	return since, until, nil
}
