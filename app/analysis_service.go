package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"salespulse/domain/core"
	"salespulse/domain/insight"
	"salespulse/domain/series"
	"salespulse/internal"
	"salespulse/internal/errors"
	"salespulse/internal/memo"
	"salespulse/ports"
)

// AnalysisService runs the full analysis for one interaction: filter the
// regularized set to the selected entities, call the external anomaly
// and forecast services, join the results back and derive insights and
// KPIs. Each request works on its own derived data; the preprocess memo
// cache is the only shared state.
type AnalysisService struct {
	detector   ports.AnomalyDetector
	forecaster ports.Forecaster
	prep       *memo.Cache[series.Set]
	logger     *internal.Logger
}

// NewAnalysisService creates an analysis service over the two service ports.
func NewAnalysisService(detector ports.AnomalyDetector, forecaster ports.Forecaster) *AnalysisService {
	return &AnalysisService{
		detector:   detector,
		forecaster: forecaster,
		prep:       memo.New[series.Set](),
		logger:     internal.DefaultLogger,
	}
}

// AnalyzeRequest describes one analysis interaction.
type AnalyzeRequest struct {
	Set          series.Set
	Entities     []string
	Level        float64
	Horizon      int
	WithForecast bool
	JoinPolicy   series.JoinPolicy
}

// AnalyzeResult is everything the presentation layer renders.
type AnalyzeResult struct {
	Points    []series.AnnotatedPoint `json:"points"`
	Forecasts []series.ForecastRecord `json:"forecasts"`
	Insights  insight.Digest          `json:"insights"`
	KPIs      KPISet                  `json:"kpis"`
}

// Preprocess aggregates and regularizes raw rows, memoized on a
// fingerprint of the rows plus the regularization parameters. Running it
// twice on the same input returns the identical cached set.
func (s *AnalysisService) Preprocess(rows []series.RawRow, cfg series.Config) (series.Set, error) {
	key := core.InputFingerprint(rows, cfg.Mode, cfg.WindowDays)
	return s.prep.GetOrCompute(key, func() (series.Set, error) {
		agg, err := series.Aggregate(rows)
		if err != nil {
			return nil, err
		}
		regular := series.Regularize(agg, cfg)
		s.logger.Info("[Analysis] preprocessed %d raw rows into %d regular observations (%d entities)",
			len(rows), len(regular), len(regular.Entities()))
		return regular, nil
	})
}

// Analyze runs anomaly detection and, optionally, forecasting for the
// selected entities. The two external calls are independent and issued
// concurrently; either failure cancels the sibling and propagates.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if len(req.Entities) == 0 {
		return nil, errors.EmptySelection("select at least one entity to analyze")
	}
	subset := req.Set.Filter(req.Entities)

	policy := req.JoinPolicy
	if policy == "" {
		policy = series.PolicyOuter
	}

	var anomalies []series.AnomalyRecord
	var forecasts []series.ForecastRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		anomalies, err = s.detector.DetectAnomalies(gctx, subset, ports.AnomalyOptions{Level: req.Level})
		return err
	})
	if req.WithForecast {
		g.Go(func() error {
			var err error
			forecasts, err = s.forecaster.Forecast(gctx, subset, ports.ForecastOptions{Horizon: req.Horizon})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	points := series.Join(subset, anomalies, policy)
	digest := insight.Build(points)
	kpis := ComputeKPIs(points, forecasts)

	s.logger.Info("[Analysis] %d entities analyzed: %d anomalies, %d forecast rows",
		len(req.Entities), kpis.AnomalyCount, len(forecasts))

	return &AnalyzeResult{
		Points:    points,
		Forecasts: forecasts,
		Insights:  digest,
		KPIs:      kpis,
	}, nil
}
