package progress

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coreprogress "github.com/yardworks/shunter/core/progress"
	"github.com/yardworks/shunter/infra/logger"
)

// InfluxSink writes progress events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-progress"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a Nop observer if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coreprogress.Observer {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coreprogress.Nop{}
	}
	return sink
}

// RecordStage writes the stage event as a line protocol point.
func (s *InfluxSink) RecordStage(ev coreprogress.StageEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("compile_stage").
		AddTag("run_id", ev.RunID).
		AddTag("stage", ev.Stage).
		AddField("variables", ev.Vars).
		AddField("constraints", ev.Constrs).
		AddField("links", ev.Ands).
		AddField("elapsed_ms", ev.Elapsed.Milliseconds()).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSolve writes the solve outcome.
func (s *InfluxSink) RecordSolve(ev coreprogress.SolveEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("solve").
		AddTag("run_id", ev.RunID).
		AddTag("engine", ev.Engine).
		AddTag("status", ev.Status).
		AddField("objective", round3(ev.Objective)).
		AddField("elapsed_ms", ev.Elapsed.Milliseconds()).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
