package progress

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coreprogress "github.com/yardworks/shunter/core/progress"
)

func TestInfluxSink_RecordStage(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	ev := coreprogress.StageEvent{
		RunID:   "run-1",
		Stage:   "timing",
		Vars:    12,
		Constrs: 30,
		Ands:    4,
		Elapsed: 250 * time.Millisecond,
	}
	if err := sink.RecordStage(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}

	p := write.NewPointWithMeasurement("compile_stage").
		AddTag("run_id", "run-1").
		AddTag("stage", "timing").
		AddField("variables", 12).
		AddField("constraints", 30).
		AddField("links", 4).
		AddField("elapsed_ms", 250)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if !strings.HasPrefix(strings.TrimSpace(body), expected) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestInfluxSink_RecordSolve(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	ev := coreprogress.SolveEvent{
		RunID:     "run-1",
		Engine:    "simplex",
		Status:    "optimal",
		Objective: 3.14159,
		Elapsed:   2 * time.Second,
	}
	if err := sink.RecordSolve(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}

	p := write.NewPointWithMeasurement("solve").
		AddTag("run_id", "run-1").
		AddTag("engine", "simplex").
		AddTag("status", "optimal").
		AddField("objective", 3.142).
		AddField("elapsed_ms", 2000)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if !strings.HasPrefix(strings.TrimSpace(body), expected) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected Nop on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
