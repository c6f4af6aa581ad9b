package timegpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"salespulse/domain/core"
	"salespulse/domain/series"
	"salespulse/internal/errors"
	"salespulse/ports"
)

func testSet(t *testing.T) series.Set {
	t.Helper()
	d, err := core.ParseDay("2023-06-01")
	if err != nil {
		t.Fatal(err)
	}
	return series.Set{
		{EntityID: "Kanyon", Day: d, Value: 25},
		{EntityID: "Kanyon", Day: d.AddDays(1), Value: 0},
	}
}

func TestDetectAnomalies_NormalizesVariantBoundNames(t *testing.T) {
	var gotReq anomalyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		// The bound columns carry the service's own naming; the client
		// must still find them by hi/lo substring.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"unique_id":"Kanyon","ds":"2023-06-01","y":25,"anomaly":true,"TimeGPT-hi-99":20.5,"TimeGPT-lo-99":2.5},
			{"unique_id":"Kanyon","ds":"2023-06-02","y":0,"anomaly":0,"TimeGPT-hi-99":9,"TimeGPT-lo-99":1}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	records, err := client.DetectAnomalies(context.Background(), testSet(t), ports.AnomalyOptions{Level: 99})
	if err != nil {
		t.Fatalf("DetectAnomalies failed: %v", err)
	}

	if gotReq.Freq != "D" || gotReq.Level != 99 || len(gotReq.Series) != 2 {
		t.Errorf("unexpected request payload: %+v", gotReq)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	first := records[0]
	if !first.IsAnomaly || first.UpperBound != 20.5 || first.LowerBound != 2.5 {
		t.Errorf("normalization failed: %+v", first)
	}
	if records[1].IsAnomaly {
		t.Errorf("numeric zero anomaly flag should read false: %+v", records[1])
	}
}

func TestForecast_NormalizesBands(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"unique_id":"Kanyon","ds":"2023-06-03","TimeGPT":12.5,"TimeGPT-lo-80":10,"TimeGPT-hi-80":15,"TimeGPT-lo-90":8,"TimeGPT-hi-90":17}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	records, err := client.Forecast(context.Background(), testSet(t), ports.ForecastOptions{Horizon: 1})
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Predicted != 12.5 || rec.Lower80 != 10 || rec.Upper80 != 15 || rec.Lower90 != 8 || rec.Upper90 != 17 {
		t.Errorf("band normalization failed: %+v", rec)
	}
}

func TestClient_AuthErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	t.Run("rejected key", func(t *testing.T) {
		client := NewClient(Config{BaseURL: srv.URL, APIKey: "wrong"})
		_, err := client.DetectAnomalies(context.Background(), testSet(t), ports.AnomalyOptions{})
		if !errors.IsCode(err, errors.CodeAuth) {
			t.Errorf("expected %s, got %v", errors.CodeAuth, err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		client := NewClient(Config{BaseURL: srv.URL})
		_, err := client.Forecast(context.Background(), testSet(t), ports.ForecastOptions{})
		if !errors.IsCode(err, errors.CodeAuth) {
			t.Errorf("expected %s, got %v", errors.CodeAuth, err)
		}
	})
}

func TestClient_ServiceErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	_, err := client.DetectAnomalies(context.Background(), testSet(t), ports.AnomalyOptions{})
	if !errors.IsCode(err, errors.CodeService) {
		t.Errorf("expected %s, got %v", errors.CodeService, err)
	}
	if calls.Load() != 1 {
		t.Errorf("service failures must not be retried, saw %d calls", calls.Load())
	}
}

func TestClient_EmptySelectionSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})

	records, err := client.DetectAnomalies(context.Background(), series.Set{}, ports.AnomalyOptions{})
	if err != nil || len(records) != 0 {
		t.Errorf("empty set should give empty result, got %v / %v", records, err)
	}
	forecasts, err := client.Forecast(context.Background(), nil, ports.ForecastOptions{})
	if err != nil || len(forecasts) != 0 {
		t.Errorf("empty set should give empty result, got %v / %v", forecasts, err)
	}
	if calls.Load() != 0 {
		t.Errorf("no network call expected for empty selection, saw %d", calls.Load())
	}
}

func TestWithAPIKey_Override(t *testing.T) {
	base := NewClient(Config{BaseURL: "http://svc", APIKey: "configured"})
	if base.WithAPIKey("").apiKey != "configured" {
		t.Error("blank override must keep the configured key")
	}
	if base.WithAPIKey("interactive").apiKey != "interactive" {
		t.Error("override not applied")
	}
	if base.apiKey != "configured" {
		t.Error("override must not mutate the base client")
	}
}
