package main

import (
	"log"

	"salespulse/adapters/tabular"
	"salespulse/adapters/timegpt"
	"salespulse/app"
	"salespulse/domain/series"
	"salespulse/internal/config"
	"salespulse/ui"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client := timegpt.NewClient(timegpt.Config{
		BaseURL: cfg.Service.URL,
		APIKey:  cfg.Service.APIKey,
		Timeout: cfg.Service.Timeout,
	})
	svc := app.NewAnalysisService(client, client)

	rows, source, err := loadRows(cfg)
	if err != nil {
		log.Fatalf("Failed to load input data: %v", err)
	}

	set, err := svc.Preprocess(rows, series.Config{
		Mode:       series.ModeFixedWindow,
		WindowDays: cfg.Analysis.WindowDays,
	})
	if err != nil {
		log.Fatalf("Failed to preprocess input data: %v", err)
	}
	log.Printf("[Startup] %d entities over %d observations ready", len(set.Entities()), len(set))

	server := ui.NewServer()
	if err := server.Initialize(cfg, client, svc, rows, set, source); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}
	if err := server.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadRows reads the configured input file, or falls back to the
// built-in demo dataset when no file is configured.
func loadRows(cfg *config.Config) ([]series.RawRow, ui.SourceInfo, error) {
	if cfg.Data.FilePath == "" {
		log.Println("[Startup] DATA_FILE not set, using generated demo data")
		rows := app.GenerateDemoRows(app.DefaultDemoConfig())
		return rows, ui.SourceInfo{
			Name:    "demo dataset",
			Columns: []string{"date", "sales", "category"},
			Mapping: tabular.ColumnMapping{DateColumn: "date", ValueColumn: "sales", EntityColumn: "category"},
		}, nil
	}

	reader := tabular.NewReader(cfg.Data.FilePath)
	table, err := reader.Read()
	if err != nil {
		return nil, ui.SourceInfo{}, err
	}

	mapping := tabular.DetectMapping(table.Columns)
	if cfg.Data.DateColumn != "" {
		mapping.DateColumn = cfg.Data.DateColumn
	}
	if cfg.Data.ValueColumn != "" {
		mapping.ValueColumn = cfg.Data.ValueColumn
	}
	if cfg.Data.EntityColumn != "" {
		mapping.EntityColumn = cfg.Data.EntityColumn
	}

	rows, err := table.Rows(mapping)
	if err != nil {
		return nil, ui.SourceInfo{}, err
	}
	return rows, ui.SourceInfo{
		Name:    cfg.Data.FilePath,
		Columns: table.Columns,
		Mapping: mapping,
	}, nil
}
