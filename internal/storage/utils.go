package storage

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const (
	// ReportIndex is the file name of a published report page
	ReportIndex = "index.html"

	folderTimeLayout = "2006-01-02-15-04-05"
)

// GenerateReportFolderPath generates a consistent folder path for reports
// Format: YYYY/MM/DD/<name>-YYYY-MM-DD-HH-MM-SS
func GenerateReportFolderPath(timestamp time.Time, name string) string {
	return fmt.Sprintf("%04d/%02d/%02d/%s-%s",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		name, timestamp.Format(folderTimeLayout))
}

// reportTimestamp extracts the timestamp suffix of a report folder.
func reportTimestamp(reportPath string) (time.Time, bool) {
	folder := path.Base(path.Dir(reportPath))
	if len(folder) < len(folderTimeLayout) {
		return time.Time{}, false
	}
	ts, err := time.Parse(folderTimeLayout, folder[len(folder)-len(folderTimeLayout):])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// sortReports orders report paths newest first and applies limit.
func sortReports(reportPaths []string, limit int) []string {
	sort.SliceStable(reportPaths, func(i, j int) bool {
		ti, okI := reportTimestamp(reportPaths[i])
		tj, okJ := reportTimestamp(reportPaths[j])
		if okI && okJ && !ti.Equal(tj) {
			return ti.After(tj)
		}
		if okI != okJ {
			return okI
		}
		return reportPaths[i] > reportPaths[j]
	})

	if limit > 0 && limit < len(reportPaths) {
		reportPaths = reportPaths[:limit]
	}
	return reportPaths
}

// cleanPath normalizes a storage path and rejects paths escaping the root.
func cleanPath(filePath string) (string, error) {
	for _, segment := range strings.Split(filePath, "/") {
		if segment == ".." {
			return "", fmt.Errorf("invalid storage path %q: %w", filePath, fs.ErrInvalid)
		}
	}
	p := strings.TrimPrefix(path.Clean("/"+filePath), "/")
	if p == "" || !fs.ValidPath(p) {
		return "", fmt.Errorf("invalid storage path %q: %w", filePath, fs.ErrInvalid)
	}
	return p, nil
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css"
	case ".md":
		return "text/markdown"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
