package migration

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
)

// ModelLookup は名前からモデルを探す。
type ModelLookup interface {
	LookupModel(name string) (any, bool)
}

// Catalog は名前とモデルの対応表。ModelLookup のデフォルト実装。
type Catalog struct {
	models map[string]any
}

// NewCatalog は空の Catalog を生成する。
func NewCatalog() *Catalog {
	return &Catalog{models: make(map[string]any)}
}

// Register はモデルを名前付きで登録する。model は gorm のモデル（通常は構造体のポインタ）。
func (c *Catalog) Register(name string, model any) {
	c.models[name] = model
}

// RegisterModel はモデルを型名で登録し、その名前を返す。
func (c *Catalog) RegisterModel(model any) string {
	name := modelName(model)
	c.Register(name, model)
	return name
}

// LookupModel は名前に対応するモデルを返す。
func (c *Catalog) LookupModel(name string) (any, bool) {
	m, ok := c.models[name]
	return m, ok
}

func modelName(model any) string {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// ModelRef は解決済みのモデル参照。テーブルのカラム情報をキャッシュする。
type ModelRef struct {
	name    string
	model   any
	columns []string
	loaded  bool
}

func newModelRef(name string, model any) *ModelRef {
	return &ModelRef{name: name, model: model}
}

// Name はモデル名を返す。
func (r *ModelRef) Name() string {
	return r.name
}

// Model は登録されたモデルの値を返す。
func (r *ModelRef) Model() any {
	return r.model
}

// ResetColumnInformation はキャッシュしたカラム情報を破棄する。
// 次回の参照時にデータベースから読み直す。
func (r *ModelRef) ResetColumnInformation() {
	r.columns = nil
	r.loaded = false
}

func (r *ModelRef) columnNames(ctx context.Context, db *gorm.DB) ([]string, error) {
	if r.loaded {
		return r.columns, nil
	}

	types, err := db.WithContext(ctx).Migrator().ColumnTypes(r.model)
	if err != nil {
		return nil, fmt.Errorf("loading columns of %s: %w", r.name, err)
	}

	names := make([]string, len(types))
	for i, ct := range types {
		names[i] = ct.Name()
	}
	r.columns, r.loaded = names, true
	return names, nil
}

func (r *ModelRef) tableName(db *gorm.DB) (string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(r.model); err != nil {
		return "", fmt.Errorf("parsing model %s: %w", r.name, err)
	}
	return stmt.Schema.Table, nil
}

// BoundModel はマイグレーションのインスタンスが使うデータベースに結び付けたモデル参照。
type BoundModel struct {
	ref *ModelRef
	db  *gorm.DB
}

// Ref はモデル参照を返す。
func (b *BoundModel) Ref() *ModelRef {
	return b.ref
}

// Name はモデル名を返す。
func (b *BoundModel) Name() string {
	return b.ref.name
}

// DB はモデルを対象にした *gorm.DB を返す。
func (b *BoundModel) DB() *gorm.DB {
	return b.db.Model(b.ref.model)
}

// TableName はモデルのテーブル名を返す。
func (b *BoundModel) TableName() (string, error) {
	return b.ref.tableName(b.db)
}

// Columns はテーブルのカラム名を返す。一度読み込んだ結果はキャッシュされる。
func (b *BoundModel) Columns(ctx context.Context) ([]string, error) {
	return b.ref.columnNames(ctx, b.db)
}

// HasColumn はテーブルにカラムがあるかどうかを返す。
func (b *BoundModel) HasColumn(ctx context.Context, column string) (bool, error) {
	columns, err := b.Columns(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range columns {
		if c == column {
			return true, nil
		}
	}
	return false, nil
}
