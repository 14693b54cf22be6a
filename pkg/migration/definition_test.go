package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// spyLookup は探索回数を記録するテスト用の ModelLookup。
type spyLookup struct {
	models map[string]any
	calls  map[string]int
}

func newSpyLookup(models map[string]any) *spyLookup {
	return &spyLookup{models: models, calls: make(map[string]int)}
}

func (s *spyLookup) LookupModel(name string) (any, bool) {
	s.calls[name]++
	m, ok := s.models[name]
	return m, ok
}

func TestDefinition_ModelRefIsMemoized(t *testing.T) {
	lookup := newSpyLookup(map[string]any{"User": &testUser{}})
	def := NewDefinition("20240101000000", "backfill", WithLookup(lookup))

	first, err := def.ModelRef("User")
	if err != nil {
		t.Fatalf("ModelRef failed: %v", err)
	}
	second, err := def.ModelRef("User")
	if err != nil {
		t.Fatalf("ModelRef failed: %v", err)
	}

	if first != second {
		t.Error("ModelRef returned different references for the same name")
	}
	if lookup.calls["User"] != 1 {
		t.Errorf("lookup calls = %d, want 1", lookup.calls["User"])
	}
}

func TestDefinition_ModelRefFailureIsMemoized(t *testing.T) {
	lookup := newSpyLookup(nil)
	def := NewDefinition("20240101000000", "backfill", WithLookup(lookup))

	_, err := def.ModelRef("Ghost")
	var refErr *ModelReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("error = %v, want *ModelReferenceError", err)
	}
	if refErr.Model != "Ghost" {
		t.Errorf("Model = %q, want Ghost", refErr.Model)
	}
	if err.Error() != "Ghost is not available" {
		t.Errorf("message = %q", err.Error())
	}

	if _, err := def.ModelRef("Ghost"); !errors.Is(err, ErrModelReference) {
		t.Errorf("second error = %v, want ErrModelReference", err)
	}
	if lookup.calls["Ghost"] != 1 {
		t.Errorf("lookup calls = %d, want 1", lookup.calls["Ghost"])
	}
}

func TestDefinition_ModelRefUsesFallback(t *testing.T) {
	custom := errors.New("model registry is not loaded")
	def := NewDefinition("1", "x", WithFallback(func(string) error { return custom }))

	if _, err := def.ModelRef("User"); !errors.Is(err, custom) {
		t.Errorf("error = %v, want fallback error", err)
	}
}

func TestDefinition_ModelRegistersAccessor(t *testing.T) {
	catalog := NewCatalog()
	catalog.RegisterModel(&testUser{})
	def := NewDefinition("1", "x", WithLookup(catalog))

	if err := def.Model("testUser"); err != nil {
		t.Fatalf("Model failed: %v", err)
	}
	if err := def.Model("testUser", Options{"as": "users"}); err != nil {
		t.Fatalf("Model failed: %v", err)
	}

	want := map[string]string{"model": "testUser", "users": "testUser"}
	if diff := cmp.Diff(want, def.Accessors()); diff != "" {
		t.Errorf("accessors mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinition_ModelUnknownDoesNotRegisterAccessor(t *testing.T) {
	def := NewDefinition("1", "x")

	if err := def.Model("Ghost"); !errors.Is(err, ErrModelReference) {
		t.Fatalf("error = %v, want ErrModelReference", err)
	}
	if len(def.Accessors()) != 0 {
		t.Errorf("accessors = %v, want none", def.Accessors())
	}
}

func TestDefinition_Schema(t *testing.T) {
	def := NewDefinition("1", "x")
	fn := func(ctx context.Context, m *Instance) error { return nil }

	if err := def.Schema("sideways", fn); !errors.Is(err, ErrUnknownSchemaMethod) {
		t.Errorf("Schema(sideways) error = %v, want ErrUnknownSchemaMethod", err)
	}
	if err := def.Schema(SchemaUp, nil); !errors.Is(err, ErrMissingRoutine) {
		t.Errorf("Schema(up, nil) error = %v, want ErrMissingRoutine", err)
	}
	if err := def.Change(fn); err != nil {
		t.Fatalf("Change failed: %v", err)
	}
	if !def.RespondsTo(SchemaChange) || def.RespondsTo(SchemaUp) {
		t.Error("RespondsTo does not reflect defined schema methods")
	}
}

func TestDefinition_ResetClearsDataMigrationsOnly(t *testing.T) {
	catalog := NewCatalog()
	catalog.RegisterModel(&testUser{})
	def := NewDefinition("1", "x", WithLookup(catalog))

	if err := def.Model("testUser"); err != nil {
		t.Fatalf("Model failed: %v", err)
	}
	if err := def.Data(noop); err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if err := def.Data(noop, WithDirection(Down)); err != nil {
		t.Fatalf("Data failed: %v", err)
	}

	def.Reset()

	if def.Collection().Len(Up) != 0 || def.Collection().Len(Down) != 0 {
		t.Error("Reset did not clear data migrations")
	}
	if len(def.Accessors()) != 1 {
		t.Error("Reset cleared model accessors")
	}

	def.ResetReferences()
	if len(def.Accessors()) != 0 {
		t.Error("ResetReferences did not clear model accessors")
	}
}

func TestDefinition_DefinitionsAreIndependent(t *testing.T) {
	a := NewDefinition("1", "a")
	b := NewDefinition("2", "b")

	if err := a.Data(noop); err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if b.Collection().Len(Up) != 0 {
		t.Error("data migration leaked into another definition")
	}
}
