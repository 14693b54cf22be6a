package infra

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"data-migration-kit/config"
)

func TestInitTracer_Disabled(t *testing.T) {
	tp, err := InitTracer(context.Background(), &config.Config{OtelEnabled: false}, "1.0.0")
	if err != nil {
		t.Fatalf("InitTracer failed: %v", err)
	}
	if tp != nil {
		t.Error("expected nil tracer provider when tracing is disabled")
	}
}

func TestNewResource(t *testing.T) {
	cfg := &config.Config{
		OtelServiceName: "datamigrate",
		Migration:       config.DefaultMigration(),
	}
	cfg.Migration.Transactional = true

	res, err := newResource(context.Background(), cfg, "1.2.3")
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}

	want := map[attribute.Key]attribute.Value{
		"service.name":                  attribute.StringValue("datamigrate"),
		"service.version":               attribute.StringValue("1.2.3"),
		"datamigrate.default_direction": attribute.StringValue("up"),
		"datamigrate.transactional":     attribute.BoolValue(true),
	}
	got := make(map[attribute.Key]attribute.Value)
	for _, kv := range res.Attributes() {
		got[kv.Key] = kv.Value
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k].Emit(), v.Emit())
		}
	}
}

func TestNewResource_WithoutVersion(t *testing.T) {
	cfg := &config.Config{OtelServiceName: "datamigrate", Migration: config.DefaultMigration()}

	res, err := newResource(context.Background(), cfg, "")
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	for _, kv := range res.Attributes() {
		if kv.Key == "service.version" {
			t.Errorf("unexpected service.version %s", kv.Value.Emit())
		}
	}
}
