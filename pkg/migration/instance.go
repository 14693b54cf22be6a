package migration

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// Instance は Definition を実行する単位。スキーマ変更とデータマイグレーションは
// インスタンスを受け取って実行される。
type Instance struct {
	def    *Definition
	db     *gorm.DB
	models map[string]*BoundModel
}

// Definition は元になった Definition を返す。
func (i *Instance) Definition() *Definition {
	return i.def
}

// DB は実行に使う *gorm.DB を返す。トランザクション内ではそのトランザクション。
func (i *Instance) DB() *gorm.DB {
	return i.db
}

// RespondsTo はスキーマメソッドが定義済みかどうかを返す。
func (i *Instance) RespondsTo(method SchemaMethod) bool {
	return i.def.RespondsTo(method)
}

// Model は Definition.Model で登録したアクセサ名からモデルを取り出す。
// 結果はインスタンスごとにキャッシュする。ResetColumnInformation が有効な場合、
// 初回の取り出し時にカラム情報を破棄する。
// Definition.ResetReferences の後はキャッシュを使わず、現在のアクセサ表から解決し直す。
func (i *Instance) Model(accessor string) (*BoundModel, error) {
	name, ok := i.def.accessors[accessor]
	if !ok {
		delete(i.models, accessor)
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccessor, accessor)
	}

	if b, ok := i.models[accessor]; ok && i.def.references[name] == b.ref {
		return b, nil
	}

	ref, err := i.def.ModelRef(name)
	if err != nil {
		return nil, err
	}
	if i.def.settings.ResetColumnInformation {
		ref.ResetColumnInformation()
	}

	b := &BoundModel{ref: ref, db: i.db}
	i.models[accessor] = b
	return b, nil
}

// Call は定義済みのスキーマメソッドを実行する。
func (i *Instance) Call(ctx context.Context, method SchemaMethod) error {
	fn, ok := i.def.schema[method]
	if !ok {
		return fmt.Errorf("%w: %s is not defined", ErrUnknownSchemaMethod, method)
	}
	return fn(ctx, i)
}

// Exec は direction のスキーマ変更を実行し、続けてその方向のデータマイグレーションを宣言順に実行する。
// ルーチンのエラーはそのまま返す。
func (i *Instance) Exec(ctx context.Context, direction Direction) error {
	migrations, err := i.def.collection.Fetch(direction)
	if err != nil {
		return err
	}

	if err := i.migrateSchema(ctx, direction); err != nil {
		return err
	}

	for idx, m := range migrations {
		slog.DebugContext(ctx, "executing data migration",
			"operation", "exec",
			"version", i.def.version,
			"direction", direction,
			"step", idx+1,
		)
		if err := m.Report(i.def.reporter, func() error {
			return m.Routine().Run(ctx, i)
		}); err != nil {
			return err
		}
	}

	return nil
}

func (i *Instance) migrateSchema(ctx context.Context, direction Direction) error {
	switch direction {
	case Up:
		if i.RespondsTo(SchemaUp) {
			return i.Call(ctx, SchemaUp)
		}
		if i.RespondsTo(SchemaChange) {
			return i.Call(ctx, SchemaChange)
		}
	case Down:
		if i.RespondsTo(SchemaDown) {
			return i.Call(ctx, SchemaDown)
		}
		if i.RespondsTo(SchemaChange) {
			return fmt.Errorf("%w: %s defines change without down", ErrIrreversibleMigration, i.def.version)
		}
	}
	return nil
}
