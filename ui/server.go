package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"salespulse/adapters/tabular"
	"salespulse/adapters/timegpt"
	"salespulse/app"
	"salespulse/domain/series"
	"salespulse/internal"
	"salespulse/internal/config"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Server serves the sales dashboard: the page itself plus the JSON API
// the page calls to list entities and run analyses.
type Server struct {
	router    *gin.Engine
	svc       *app.AnalysisService
	client    *timegpt.Client
	rows      []series.RawRow
	set       series.Set
	source    SourceInfo
	cfg       *config.Config
	templates *template.Template
	logger    *internal.Logger
}

// SourceInfo describes where the loaded data came from, for the
// column-mapping panel.
type SourceInfo struct {
	Name    string                `json:"name"`
	Columns []string              `json:"columns"`
	Mapping tabular.ColumnMapping `json:"mapping"`
}

// NewServer creates a dashboard server instance.
func NewServer() *Server {
	return &Server{
		router: gin.Default(),
		logger: internal.DefaultLogger,
	}
}

// Initialize wires the server with its dependencies and parses the
// embedded templates. rows are kept so an analyze request can ask for a
// different regularization window than the startup default.
func (s *Server) Initialize(cfg *config.Config, client *timegpt.Client, svc *app.AnalysisService, rows []series.RawRow, set series.Set, source SourceInfo) error {
	s.cfg = cfg
	s.client = client
	s.svc = svc
	s.rows = rows
	s.set = set
	s.source = source

	templatesFS, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	s.templates, err = template.ParseFS(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	s.setupRoutes()
	return nil
}

// setupRoutes registers the dashboard page and the JSON API.
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/columns", s.handleColumns)
	api.GET("/entities", s.handleEntities)
	api.POST("/analyze", s.handleAnalyze)
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server on the configured port.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Server.Port)
	s.logger.Info("[Server] dashboard listening on %s", addr)
	return s.router.Run(addr)
}
