package server

import (
	"net/http"

	"reportwidgets/internal/config"
	"reportwidgets/internal/logger"
	"reportwidgets/internal/storage"
	"reportwidgets/internal/widgets"
)

// Server serves published reports for preview
type Server struct {
	Config  *config.Config
	Storage storage.StorageClient
	Builder *widgets.Builder
	Version string

	log *logger.Logger
}

// NewServer creates a new server instance. builder renders the placeholder
// page shown before any report is published.
func NewServer(cfg *config.Config, store storage.StorageClient, builder *widgets.Builder) *Server {
	return &Server{
		Config:  cfg,
		Storage: store,
		Builder: builder,
		Version: config.GetVersion(),
		log:     logger.GetGlobalLogger().WithComponent("server"),
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/reports", s.HandleListReports)
	mux.HandleFunc("/files/", s.HandleFileProxy)

	// catch-all
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
