package ui

import (
	"html/template"
	"net/http"

	"salespulse/app"
	"salespulse/domain/core"
	"salespulse/domain/insight"
	"salespulse/domain/series"
	"salespulse/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
)

// handleIndex renders the dashboard page.
func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, "dashboard.html", gin.H{
		"Source":   s.source,
		"Level":    s.cfg.Analysis.Level,
		"Horizon":  s.cfg.Analysis.Horizon,
		"NeedsKey": s.cfg.Service.APIKey == "",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleColumns reports the input columns and the detected mapping so
// the page can show what was loaded.
func (s *Server) handleColumns(c *gin.Context) {
	c.JSON(http.StatusOK, s.source)
}

// handleEntities lists the entities of the regularized set with summary
// statistics for the entity picker.
func (s *Server) handleEntities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entities": app.Profiles(s.set)})
}

// analyzeParams is the POST /api/analyze request body. Zero values fall
// back to the configured analysis defaults.
type analyzeParams struct {
	Entities     []string `json:"entities"`
	Level        float64  `json:"level"`
	Horizon      int      `json:"horizon"`
	WithForecast bool     `json:"with_forecast"`
	WindowMode   string   `json:"window_mode"`
	APIKey       string   `json:"api_key"`
}

// insightView is an insight with its recommendation rendered to HTML.
type insightView struct {
	EntityID       string        `json:"entity_id"`
	Day            string        `json:"day"`
	Actual         float64       `json:"actual"`
	Direction      string        `json:"direction"`
	Magnitude      float64       `json:"magnitude"`
	Recommendation template.HTML `json:"recommendation"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	reqID := core.RequestID(core.NewID())

	var params analyzeParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": errors.CodeInput})
		return
	}
	if params.Level == 0 {
		params.Level = s.cfg.Analysis.Level
	}
	if params.Horizon == 0 {
		params.Horizon = s.cfg.Analysis.Horizon
	}

	set := s.set
	if params.WindowMode == "full_span" {
		// Re-derive the set over each entity's own span; the preprocess
		// memo makes repeat requests free.
		var err error
		set, err = s.svc.Preprocess(s.rows, series.Config{Mode: series.ModeFullSpan})
		if err != nil {
			s.respondError(c, err)
			return
		}
	}

	svc := s.svc
	if params.APIKey != "" {
		// An interactively supplied key replaces the configured one for
		// this request only.
		override := s.client.WithAPIKey(params.APIKey)
		svc = app.NewAnalysisService(override, override)
	}

	result, err := svc.Analyze(c.Request.Context(), app.AnalyzeRequest{
		Set:          set,
		Entities:     params.Entities,
		Level:        params.Level,
		Horizon:      params.Horizon,
		WithForecast: params.WithForecast,
	})
	if err != nil {
		s.logger.Warn("[Server] analyze %s failed: %v", reqID, err)
		s.respondError(c, err)
		return
	}
	s.logger.Info("[Server] analyze %s: %d entities, %d anomalies", reqID, len(params.Entities), result.KPIs.AnomalyCount)

	c.JSON(http.StatusOK, gin.H{
		"request_id": reqID,
		"kpis":       result.KPIs,
		"insights":   renderInsights(result.Insights),
		"charts":     BuildCharts(result.Points, result.Forecasts),
	})
}

// renderInsights converts the digest's markdown recommendations into
// HTML fragments for the insight cards.
func renderInsights(digest insight.Digest) gin.H {
	views := make([]insightView, 0, len(digest.Insights))
	for _, ins := range digest.Insights {
		views = append(views, insightView{
			EntityID:       ins.EntityID,
			Day:            ins.Day.String(),
			Actual:         ins.Actual,
			Direction:      string(ins.Direction),
			Magnitude:      ins.Magnitude,
			Recommendation: template.HTML(markdown.ToHTML([]byte(ins.Recommendation), nil, nil)),
		})
	}
	return gin.H{"insights": views, "truncated": digest.Truncated}
}

// respondError maps the error taxonomy onto HTTP statuses. An empty
// selection is a user nudge, not a failure, so it stays a 200 with a
// warning body.
func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	switch code {
	case errors.CodeEmptySelection:
		c.JSON(http.StatusOK, gin.H{"warning": err.Error(), "code": code})
	case errors.CodeInput, errors.CodeConfig:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": code})
	case errors.CodeAuth:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": code})
	case errors.CodeService:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "code": code})
	default:
		s.logger.Error("[Server] analyze failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": code})
	}
}
