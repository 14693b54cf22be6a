package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMigrationFailed はマイグレーション実行時のエラー。
	ErrMigrationFailed = errors.New("migration failed")

	// ErrRollbackFailed はマイグレーション取り消し時のエラー。
	ErrRollbackFailed = errors.New("rollback failed")

	// ErrInvalidDirection は up/down 以外の方向が指定された場合のエラー。
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrModelReference はモデル参照を解決できない場合のエラー。
	ErrModelReference = errors.New("model reference error")

	// ErrUnknownSchemaMethod は up/down/change 以外のスキーマメソッドが指定された場合のエラー。
	ErrUnknownSchemaMethod = errors.New("unknown schema method")

	// ErrMissingModelReference はモデル引数からモデル名を取り出せない場合のエラー。
	ErrMissingModelReference = errors.New("missing model reference")

	// ErrAmbiguousModelReference はモデル名の候補となるオプションが複数ある場合のエラー。
	ErrAmbiguousModelReference = errors.New("ambiguous model reference")

	// ErrUnknownAccessor は登録されていないモデルアクセサが呼ばれた場合のエラー。
	ErrUnknownAccessor = errors.New("unknown model accessor")

	// ErrMissingRoutine はデータマイグレーションに実行するルーチンがない場合のエラー。
	ErrMissingRoutine = errors.New("missing data migration routine")

	// ErrIrreversibleMigration は change のみ定義されたマイグレーションを down しようとした場合のエラー。
	ErrIrreversibleMigration = errors.New("irreversible migration")

	// ErrDuplicateVersion は同じバージョンのマイグレーションが登録済みの場合のエラー。
	ErrDuplicateVersion = errors.New("duplicate migration version")

	// ErrInvalidArgument はモデル引数の型が不正な場合のエラー。
	ErrInvalidArgument = errors.New("invalid argument")
)

// ModelReferenceError は名前からモデルを解決できなかったことを表す。
type ModelReferenceError struct {
	Model string
}

// NewModelReferenceError は ModelReferenceError を生成する。
func NewModelReferenceError(model string) error {
	return &ModelReferenceError{Model: model}
}

func (e *ModelReferenceError) Error() string {
	return fmt.Sprintf("%s is not available", e.Model)
}

// Is は ErrModelReference と比較できるようにする。
func (e *ModelReferenceError) Is(target error) bool {
	return target == ErrModelReference
}

// UnknownSchemaMethodError は未知のスキーマメソッド名を表す。
type UnknownSchemaMethodError struct {
	Method string
}

func (e *UnknownSchemaMethodError) Error() string {
	return fmt.Sprintf("unknown schema migration method: %s. Use up, down or change", e.Method)
}

// Is は ErrUnknownSchemaMethod と比較できるようにする。
func (e *UnknownSchemaMethodError) Is(target error) bool {
	return target == ErrUnknownSchemaMethod
}
