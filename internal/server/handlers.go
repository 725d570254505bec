package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/safeguards"
	"github.com/jonathan/resume-screener/internal/types"
)

// ScanResponse represents the response for /scan: the scan report, plus the
// stored record ID when persistence is enabled.
type ScanResponse struct {
	types.ScanReport
	ReportID string `json:"report_id,omitempty"`
}

// SanitizeResponse represents the response for /sanitize
type SanitizeResponse struct {
	SanitizedText      string               `json:"sanitized_text"`
	SecurityFlags      []types.SecurityFlag `json:"security_flags"`
	HomoglyphsDetected bool                 `json:"homoglyphs_detected"`
}

// WrapResponse represents the response for /wrap
type WrapResponse struct {
	Wrapped string `json:"wrapped"`
}

// handleScan accepts a multipart document upload and returns its scan report.
// Every upload that parses as a document yields HTTP 200 with a report; an
// unsafe document is still a successful scan.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing or invalid 'file' upload: "+err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		s.serviceError(w, &ErrUnsupportedFile{Filename: header.Filename})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.scanTimeout)
	defer cancel()

	report := s.scanner.ScanBytes(ctx, data)

	resp := ScanResponse{ScanReport: *report}
	if s.db != nil {
		id, err := s.db.SaveReport(r.Context(), header.Filename, report)
		if err != nil {
			// The scan itself succeeded; losing the stored copy is not a
			// reason to withhold the report.
			log.Printf("Failed to persist report for %s: %v", header.Filename, err)
		} else {
			resp.ReportID = id.String()
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSanitize sanitizes raw text without document parsing
func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	var req types.SanitizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.serviceError(w, &ErrValidation{Field: "text", Message: err.Error()})
		return
	}

	result := s.sanitizer.Sanitize(req.Text)
	flags := result.Flags
	if flags == nil {
		flags = []types.SecurityFlag{}
	}

	s.jsonResponse(w, http.StatusOK, SanitizeResponse{
		SanitizedText:      result.Text,
		SecurityFlags:      flags,
		HomoglyphsDetected: result.HomoglyphsDetected,
	})
}

// handleWrap wraps text in prompt-injection sentinels
func (s *Server) handleWrap(w http.ResponseWriter, r *http.Request) {
	var req types.WrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.serviceError(w, &ErrValidation{Field: "text", Message: err.Error()})
		return
	}

	s.jsonResponse(w, http.StatusOK, WrapResponse{Wrapped: safeguards.WrapForModel(req.Text)})
}

// handleListReports lists stored scan records
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.serviceError(w, &ErrPersistenceDisabled{})
		return
	}

	filters := db.ReportFilters{
		Filename:   r.URL.Query().Get("filename"),
		UnsafeOnly: r.URL.Query().Get("unsafe") == "true",
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		filters.Limit = limit
	}

	records, err := s.db.ListReports(r.Context(), filters)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if records == nil {
		records = []db.ScanRecord{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"reports": records})
}

// handleGetReport retrieves a stored scan record by ID
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.serviceError(w, &ErrPersistenceDisabled{})
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	record, err := s.db.GetReport(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if record == nil {
		s.serviceError(w, &ErrReportNotFound{ID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleDeleteReport deletes a stored scan record by ID
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.serviceError(w, &ErrPersistenceDisabled{})
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	if err := s.db.DeleteReport(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.serviceError(w, &ErrReportNotFound{ID: id})
			return
		}
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// serviceError maps a service-level error to its HTTP response.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
