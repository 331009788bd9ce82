package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"reportwidgets/internal/storage"
	"reportwidgets/internal/widgets"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
	filesPrefix      = "/files/"
)

// HandleRoot redirects to the latest report, or shows a placeholder page
// when nothing has been published yet.
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	latestReportURL, err := s.findLatestReportURL(r.Context())
	if err != nil {
		s.log.Debug("No reports available", map[string]interface{}{"reason": err.Error()})
		s.serveInitialPage(w, r)
		return
	}

	s.log.Debug("Redirecting to latest report", map[string]interface{}{"url": latestReportURL})
	http.Redirect(w, r, latestReportURL, http.StatusFound)
}

// serveInitialPage shows a placeholder page if no reports are available
func (s *Server) serveInitialPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	page, err := s.placeholderPage(r.Context())
	if err != nil {
		s.log.Error("Failed to render placeholder page", err)
		fmt.Fprint(w, "<html><body><h1>No reports yet</h1></body></html>")
		return
	}
	fmt.Fprint(w, page)
}

func (s *Server) placeholderPage(ctx context.Context) (string, error) {
	if s.Builder == nil {
		return "", errors.New("no widget builder configured")
	}
	css, err := s.Builder.ReportStylesheet(ctx)
	if err != nil {
		return "", err
	}
	body := widgets.H(1, "No reports yet") + "\n" +
		widgets.P("Publish a report with <code>reportwidgets publish MANIFEST</code> and reload this page.")
	return s.Builder.ReportPage(ctx, "Reports", css, body)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"version":   s.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, health)
}

// HandleFileProxy serves stored files from the configured backend
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, filesPrefix)
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}

	fileData, err := s.Storage.GetFile(r.Context(), filePath)
	switch {
	case errors.Is(err, fs.ErrInvalid):
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "File not found", http.StatusNotFound)
		return
	case err != nil:
		s.log.Error("Failed to get file from storage", err, map[string]interface{}{"path": filePath})
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(fileData)
}

// HandleListReports lists recent reports, newest first
func (s *Server) HandleListReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = min(parsed, maxListLimit)
		}
	}

	reports, err := s.Storage.ListReports(r.Context(), limit)
	if err != nil {
		s.log.Error("Failed to list reports", err)
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}

	urls := make([]string, 0, len(reports))
	for _, p := range reports {
		urls = append(urls, filesPrefix+p)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports":   reports,
		"urls":      urls,
		"count":     len(reports),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// findLatestReportURL finds the URL of the latest report
func (s *Server) findLatestReportURL(ctx context.Context) (string, error) {
	reports, err := s.Storage.ListReports(ctx, 1)
	if err != nil {
		return "", err
	}
	if len(reports) == 0 {
		return "", errors.New("no reports available")
	}
	return filesPrefix + reports[0], nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
