package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/yardworks/shunter/core/compile"
	"github.com/yardworks/shunter/core/model"
)

func sampleSchedule() *compile.Schedule {
	return &compile.Schedule{
		RunID:     "run-1",
		Status:    "optimal",
		Objective: 2,
		Tasks: []compile.TaskTime{
			{Side: model.SideArrival, Index: 1, Train: "A1", Start: 480, End: 495},
			{Side: model.SideDeparture, Index: 4, Train: "D1", Start: 735, End: 755},
		},
		PeakBusy: -1,
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleSchedule()); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["run_id"] != "run-1" || out["status"] != "optimal" {
		t.Fatalf("unexpected header fields: %v", out)
	}
	tasks, ok := out["tasks"].([]any)
	if !ok || len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %v", out["tasks"])
	}
	first := tasks[0].(map[string]any)
	if first["side"] != "arrival" || first["train"] != "A1" {
		t.Fatalf("unexpected first task: %v", first)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleSchedule()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "side,task,train,start,end" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != "arrival,1,A1,d1 08:00,d1 08:15" {
		t.Fatalf("unexpected row: %s", lines[1])
	}
	if lines[2] != "departure,4,D1,d1 12:15,d1 12:35" {
		t.Fatalf("unexpected row: %s", lines[2])
	}
}
