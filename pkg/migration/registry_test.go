package migration

import (
	"errors"
	"testing"

	"data-migration-kit/config"
)

func TestRegistry_DefineAndAll(t *testing.T) {
	settings := config.DefaultMigration()
	settings.DefaultMethodName = "record"
	r := NewRegistry(nil, settings)

	for _, v := range []string{"20240301000000", "20240101000000", "20240201000000"} {
		if _, err := r.Define(v, "m"+v); err != nil {
			t.Fatalf("Define(%s) failed: %v", v, err)
		}
	}

	all := r.All()
	want := []string{"20240101000000", "20240201000000", "20240301000000"}
	for i, def := range all {
		if def.Version() != want[i] {
			t.Errorf("All()[%d] = %s, want %s", i, def.Version(), want[i])
		}
		if def.Settings().DefaultMethodName != "record" {
			t.Errorf("definition did not inherit registry settings")
		}
	}

	if _, ok := r.Lookup("20240201000000"); !ok {
		t.Error("Lookup did not find registered version")
	}
}

func TestRegistry_DuplicateVersion(t *testing.T) {
	r := NewRegistry(nil, config.DefaultMigration())

	if _, err := r.Define("1", "first"); err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if _, err := r.Define("1", "second"); !errors.Is(err, ErrDuplicateVersion) {
		t.Errorf("error = %v, want ErrDuplicateVersion", err)
	}
}
