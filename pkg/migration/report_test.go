package migration

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	mock := clock.NewMock()
	r := NewReporter(&buf, "Migrating data...").WithClock(mock)

	err := r.Report("users", func() error {
		mock.Add(1500 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	want := "~> Migrating data... users\n~> Completed. Time elapsed: 1.5000s\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestReporter_ReportWithoutSay(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, "Backfilling").WithClock(clock.NewMock())

	if err := r.Report("", func() error { return nil }); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	want := "~> Backfilling\n~> Completed. Time elapsed: 0.0000s\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestReporter_ReportPropagatesError(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, "Migrating data...")
	routineErr := errors.New("routine failed")

	err := r.Report("", func() error { return routineErr })
	if err != routineErr {
		t.Errorf("error = %v, want %v", err, routineErr)
	}
	if buf.String() != "~> Migrating data...\n" {
		t.Errorf("output = %q, want only the start line", buf.String())
	}
}
