package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/jrazmi/taskdeck/sdk/logger"
	"github.com/jrazmi/taskdeck/sdk/telemetry"
)

func TestTraceIDOnEveryRecord(t *testing.T) {
	tel := telemetry.NewTelemetry()

	var buf bytes.Buffer
	log := logger.NewDefault(
		logger.WithOutput(&buf),
		logger.WithTraceIDFn(tel.GetTraceID),
	)

	ctx := tel.SetTraceID(context.Background())
	log.InfoContext(ctx, "request started", "method", "GET")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log record: %v (raw: %s)", err, buf.String())
	}

	id, ok := record["trace_id"].(string)
	if !ok || id == "" {
		t.Fatalf("record %s carries no trace_id", buf.String())
	}
	if want := tel.GetTraceID(ctx); id != want {
		t.Errorf("trace_id = %q, want %q from the context", id, want)
	}
}

func TestTraceIDsDifferPerContext(t *testing.T) {
	tel := telemetry.NewTelemetry()

	var buf bytes.Buffer
	log := logger.NewDefault(
		logger.WithOutput(&buf),
		logger.WithTraceIDFn(tel.GetTraceID),
	)

	ids := make(map[string]bool)
	for range 3 {
		buf.Reset()
		log.InfoContext(tel.SetTraceID(context.Background()), "request started")

		var record map[string]any
		if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
			t.Fatalf("unmarshal log record: %v", err)
		}
		id, _ := record["trace_id"].(string)
		if ids[id] {
			t.Fatalf("trace id %q repeated across requests", id)
		}
		ids[id] = true
	}
}

func TestNoTraceFnLeavesRecordsAlone(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf))

	log.InfoContext(context.Background(), "startup")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log record: %v", err)
	}
	if _, ok := record["trace_id"]; ok {
		t.Errorf("record %s carries a trace_id without a trace fn", buf.String())
	}
}
