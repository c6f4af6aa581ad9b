package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"sort"

	"salespulse/adapters/tabular"
	"salespulse/adapters/timegpt"
	"salespulse/domain/series"
	"salespulse/internal/config"
	"salespulse/internal/errors"
	"salespulse/ports"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// render reads a sales file, runs anomaly detection and forecasting for
// one entity and writes a PNG chart of the result.
func main() {
	input := flag.String("input", "", "input CSV or Excel file (required)")
	entity := flag.String("entity", "", "entity to chart (default: first entity in the file)")
	out := flag.String("out", "chart.png", "output PNG path")
	level := flag.Float64("level", 99, "anomaly confidence level")
	horizon := flag.Int("horizon", 7, "forecast horizon in days")
	dateColumn := flag.String("date-column", "", "date column override")
	valueColumn := flag.String("value-column", "", "value column override")
	entityColumn := flag.String("entity-column", "", "entity column override")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "render: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	table, mapping, err := readTable(*input, *dateColumn, *valueColumn, *entityColumn)
	if err != nil {
		fail(err)
	}
	rows, err := table.Rows(mapping)
	if err != nil {
		fail(err)
	}

	agg, err := series.Aggregate(rows)
	if err != nil {
		fail(err)
	}
	set := series.Regularize(agg, series.Config{Mode: series.ModeFullSpan})

	target := *entity
	if target == "" {
		entities := set.Entities()
		if len(entities) == 0 {
			fail(errors.InputError("input file contains no data rows"))
		}
		target = entities[0]
	}
	subset := set.Filter([]string{target})
	if len(subset) == 0 {
		fail(errors.InputErrorf("entity %q not present in input", target))
	}

	client := timegpt.NewClient(timegpt.Config{
		BaseURL: cfg.Service.URL,
		APIKey:  cfg.Service.APIKey,
		Timeout: cfg.Service.Timeout,
	})

	var anomalies []series.AnomalyRecord
	var forecasts []series.ForecastRecord
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		var err error
		anomalies, err = client.DetectAnomalies(ctx, subset, ports.AnomalyOptions{Level: *level})
		return err
	})
	g.Go(func() error {
		var err error
		forecasts, err = client.Forecast(ctx, subset, ports.ForecastOptions{Horizon: *horizon})
		return err
	})
	if err := g.Wait(); err != nil {
		fail(err)
	}

	points := series.Join(subset, anomalies, series.PolicyOuter)
	if err := renderChart(target, points, forecasts, *out); err != nil {
		fail(err)
	}

	printSummary(target, points, *out)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "render: %v\n", err)
	os.Exit(1)
}

func readTable(path, dateColumn, valueColumn, entityColumn string) (*tabular.Table, tabular.ColumnMapping, error) {
	table, err := tabular.NewReader(path).Read()
	if err != nil {
		return nil, tabular.ColumnMapping{}, err
	}
	mapping := tabular.DetectMapping(table.Columns)
	if dateColumn != "" {
		mapping.DateColumn = dateColumn
	}
	if valueColumn != "" {
		mapping.ValueColumn = valueColumn
	}
	if entityColumn != "" {
		mapping.EntityColumn = entityColumn
	}
	return table, mapping, nil
}

// renderChart draws the history line, anomaly markers, forecast line and
// the shaded 90% band into a PNG.
func renderChart(entity string, points []series.AnnotatedPoint, forecasts []series.ForecastRecord, out string) error {
	p := plot.New()
	p.Title.Text = entity
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Sales"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	history := make(plotter.XYs, 0, len(points))
	anomalies := make(plotter.XYs, 0)
	for _, pt := range points {
		xy := plotter.XY{X: float64(pt.Day.Time().Unix()), Y: pt.Value}
		history = append(history, xy)
		if pt.IsAnomaly {
			anomalies = append(anomalies, xy)
		}
	}

	line, err := plotter.NewLine(history)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	p.Add(line)
	p.Legend.Add("sales", line)

	if len(anomalies) > 0 {
		scatter, err := plotter.NewScatter(anomalies)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = color.RGBA{R: 220, G: 38, B: 38, A: 255}
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add("anomaly", scatter)
	}

	if len(forecasts) > 0 {
		// Close the 90% band as a polygon: upper bounds forward, lower
		// bounds back.
		band := make(plotter.XYs, 0, 2*len(forecasts))
		predicted := make(plotter.XYs, 0, len(forecasts)+1)
		if len(history) > 0 {
			predicted = append(predicted, history[len(history)-1])
		}
		for _, f := range forecasts {
			x := float64(f.Day.Time().Unix())
			predicted = append(predicted, plotter.XY{X: x, Y: f.Predicted})
			band = append(band, plotter.XY{X: x, Y: f.Upper90})
		}
		for i := len(forecasts) - 1; i >= 0; i-- {
			band = append(band, plotter.XY{X: float64(forecasts[i].Day.Time().Unix()), Y: forecasts[i].Lower90})
		}

		polygon, err := plotter.NewPolygon(band)
		if err != nil {
			return err
		}
		polygon.Color = color.RGBA{R: 5, G: 150, B: 105, A: 40}
		polygon.LineStyle.Width = 0
		p.Add(polygon)

		forecastLine, err := plotter.NewLine(predicted)
		if err != nil {
			return err
		}
		forecastLine.Color = color.RGBA{R: 5, G: 150, B: 105, A: 255}
		forecastLine.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(forecastLine)
		p.Legend.Add("forecast", forecastLine)
	}

	p.Legend.Top = true
	return p.Save(12*vg.Inch, 4*vg.Inch, out)
}

// printSummary reports the anomaly count and the three largest anomalies
// by value to stdout.
func printSummary(entity string, points []series.AnnotatedPoint, out string) {
	flagged := series.Anomalies(points)
	fmt.Printf("%s: %d observations, %d anomalies, chart written to %s\n",
		entity, len(points), len(flagged), out)

	sort.Slice(flagged, func(i, j int) bool { return flagged[i].Value > flagged[j].Value })
	if len(flagged) > 3 {
		flagged = flagged[:3]
	}
	for _, a := range flagged {
		fmt.Printf("  %s  value=%.2f  band=[%.2f, %.2f]\n", a.Day, a.Value, a.LowerBound, a.UpperBound)
	}
}
