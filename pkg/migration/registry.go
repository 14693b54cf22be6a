package migration

import (
	"fmt"
	"sort"

	"data-migration-kit/config"
)

// Registry は実行対象のマイグレーションを保持する。
type Registry struct {
	lookup      ModelLookup
	settings    config.Migration
	opts        []DefinitionOption
	definitions map[string]*Definition
}

// NewRegistry は新しい Registry を生成する。Define で作る Definition は
// lookup、settings と opts を引き継ぐ。
func NewRegistry(lookup ModelLookup, settings config.Migration, opts ...DefinitionOption) *Registry {
	if lookup == nil {
		lookup = NewCatalog()
	}
	return &Registry{
		lookup:      lookup,
		settings:    settings,
		opts:        opts,
		definitions: make(map[string]*Definition),
	}
}

// Settings はデータマイグレーション設定を返す。
func (r *Registry) Settings() config.Migration {
	return r.settings
}

// Define は Definition を生成して登録する。
func (r *Registry) Define(version, name string, opts ...DefinitionOption) (*Definition, error) {
	all := append([]DefinitionOption{WithLookup(r.lookup), WithSettings(r.settings)}, r.opts...)
	all = append(all, opts...)

	def := NewDefinition(version, name, all...)
	if err := r.Register(def); err != nil {
		return nil, err
	}
	return def, nil
}

// Register は生成済みの Definition を登録する。
func (r *Registry) Register(def *Definition) error {
	if _, exists := r.definitions[def.Version()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateVersion, def.Version())
	}
	r.definitions[def.Version()] = def
	return nil
}

// Lookup はバージョンに対応する Definition を返す。
func (r *Registry) Lookup(version string) (*Definition, bool) {
	def, ok := r.definitions[version]
	return def, ok
}

// All は登録済みの Definition をバージョン順に返す。
func (r *Registry) All() []*Definition {
	defs := make([]*Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Version() < defs[j].Version()
	})
	return defs
}
