package migration

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"data-migration-kit/config"
)

// SchemaMethod はスキーマ変更を定義するメソッド名。
type SchemaMethod string

const (
	SchemaUp     SchemaMethod = "up"
	SchemaDown   SchemaMethod = "down"
	SchemaChange SchemaMethod = "change"
)

// SchemaFunc はスキーマ変更の処理。
type SchemaFunc func(ctx context.Context, m *Instance) error

// Definition は一つのマイグレーションの宣言を保持する。
// データマイグレーション、モデル参照とアクセサ、スキーマ変更はマイグレーションごとに独立する。
// 宣言はマイグレーション実行前に一つのゴルーチンから行うこと。
type Definition struct {
	version  string
	name     string
	settings config.Migration
	lookup   ModelLookup
	fallback func(model string) error
	reporter *Reporter

	collection *Collection
	references map[string]*ModelRef
	failures   map[string]error
	accessors  map[string]string
	schema     map[SchemaMethod]SchemaFunc
}

// DefinitionOption は Definition の生成オプション。
type DefinitionOption func(*Definition)

// WithSettings はデータマイグレーション設定を指定する。
func WithSettings(settings config.Migration) DefinitionOption {
	return func(d *Definition) {
		d.settings = settings
	}
}

// WithLookup はモデルの探索先を指定する。
func WithLookup(lookup ModelLookup) DefinitionOption {
	return func(d *Definition) {
		d.lookup = lookup
	}
}

// WithFallback はモデル参照を解決できない場合に返すエラーの生成方法を指定する。
func WithFallback(fallback func(model string) error) DefinitionOption {
	return func(d *Definition) {
		d.fallback = fallback
	}
}

// WithReporter はデータマイグレーションの出力先を指定する。
func WithReporter(reporter *Reporter) DefinitionOption {
	return func(d *Definition) {
		d.reporter = reporter
	}
}

// NewDefinition は新しい Definition を生成する。
func NewDefinition(version, name string, opts ...DefinitionOption) *Definition {
	d := &Definition{
		version:    version,
		name:       name,
		settings:   config.DefaultMigration(),
		lookup:     NewCatalog(),
		fallback:   NewModelReferenceError,
		collection: NewCollection(),
		references: make(map[string]*ModelRef),
		failures:   make(map[string]error),
		accessors:  make(map[string]string),
		schema:     make(map[SchemaMethod]SchemaFunc),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.reporter == nil {
		d.reporter = NewReporter(os.Stdout, d.settings.DefaultMessage)
	}
	return d
}

// Version はマイグレーションのバージョンを返す。
func (d *Definition) Version() string {
	return d.version
}

// Name はマイグレーション名を返す。
func (d *Definition) Name() string {
	return d.name
}

// Settings はデータマイグレーション設定を返す。
func (d *Definition) Settings() config.Migration {
	return d.settings
}

// Collection は宣言済みのデータマイグレーションを返す。
func (d *Definition) Collection() *Collection {
	return d.collection
}

// Data はデータマイグレーションを宣言する。
//
//	def.Data(backfill)
//	def.Data(restore, migration.WithDirection(migration.Down))
//	def.Data(nil, migration.Use(newBackfiller), migration.Say("users"))
func (d *Definition) Data(block RoutineFunc, opts ...DataOption) error {
	m, err := NewDataMigration(d.settings, block, opts...)
	if err != nil {
		return err
	}
	return d.collection.Append(m)
}

// Model はモデル参照を宣言し、インスタンスから Instance.Model で取り出せるようにする。
// モデルは宣言時に解決され、見つからない場合はエラーを返す。
//
//	def.Model("User")
//	def.Model("User", migration.Options{"as": "users"})
func (d *Definition) Model(args ...any) error {
	ma, err := ParseModelArguments(d.settings.DefaultMethodName, args...)
	if err != nil {
		return err
	}
	if _, err := d.ModelRef(ma.ModelRef); err != nil {
		return err
	}
	d.accessors[ma.MethodName] = ma.ModelRef
	return nil
}

// ModelRef は名前からモデル参照を解決する。
// 結果は成功・失敗ともにキャッシュし、同じ名前の探索は一度しか行わない。
func (d *Definition) ModelRef(name string) (*ModelRef, error) {
	if ref, ok := d.references[name]; ok {
		return ref, nil
	}
	if err, ok := d.failures[name]; ok {
		return nil, err
	}

	model, ok := d.lookup.LookupModel(name)
	if !ok {
		err := d.fallback(name)
		if err == nil {
			err = NewModelReferenceError(name)
		}
		d.failures[name] = err
		return nil, err
	}

	ref := newModelRef(name, model)
	d.references[name] = ref
	return ref, nil
}

// Accessors はアクセサ名とモデル名の対応を返す。
func (d *Definition) Accessors() map[string]string {
	out := make(map[string]string, len(d.accessors))
	for k, v := range d.accessors {
		out[k] = v
	}
	return out
}

// Schema はスキーマ変更を定義する。method は up、down、change のいずれか。
func (d *Definition) Schema(method SchemaMethod, fn SchemaFunc) error {
	switch method {
	case SchemaUp, SchemaDown, SchemaChange:
	default:
		return &UnknownSchemaMethodError{Method: string(method)}
	}
	if fn == nil {
		return fmt.Errorf("schema %s: %w", method, ErrMissingRoutine)
	}
	d.schema[method] = fn
	return nil
}

// Change は change のスキーマ変更を定義する。
func (d *Definition) Change(fn SchemaFunc) error {
	return d.Schema(SchemaChange, fn)
}

// RespondsTo はスキーマメソッドが定義済みかどうかを返す。
func (d *Definition) RespondsTo(method SchemaMethod) bool {
	_, ok := d.schema[method]
	return ok
}

// Reset は宣言済みのデータマイグレーションをすべて破棄する。
func (d *Definition) Reset() {
	d.collection = NewCollection()
}

// ResetReferences はモデル参照とアクセサのキャッシュを破棄する。
func (d *Definition) ResetReferences() {
	d.references = make(map[string]*ModelRef)
	d.failures = make(map[string]error)
	d.accessors = make(map[string]string)
}

// NewInstance は db を使って実行するインスタンスを生成する。
func (d *Definition) NewInstance(db *gorm.DB) *Instance {
	return &Instance{
		def:    d,
		db:     db,
		models: make(map[string]*BoundModel),
	}
}
