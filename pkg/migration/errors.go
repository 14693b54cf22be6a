// Package migration はスキーマ変更と同じマイグレーションにデータマイグレーションと
// モデル参照を宣言するための仕組みを提供する。
package migration

import "data-migration-kit/internal/domain"

// Direction はマイグレーションの方向。
type Direction = domain.Direction

const (
	Up   = domain.DirectionUp
	Down = domain.DirectionDown
)

type (
	// ModelReferenceError はモデル参照を解決できなかったことを表す。
	ModelReferenceError = domain.ModelReferenceError
	// UnknownSchemaMethodError は up/down/change 以外のスキーマメソッドを表す。
	UnknownSchemaMethodError = domain.UnknownSchemaMethodError
)

// NewModelReferenceError はモデル参照の解決失敗時に使うデフォルトのエラーを生成する。
var NewModelReferenceError = domain.NewModelReferenceError

var (
	ErrInvalidDirection        = domain.ErrInvalidDirection
	ErrModelReference          = domain.ErrModelReference
	ErrUnknownSchemaMethod     = domain.ErrUnknownSchemaMethod
	ErrMissingModelReference   = domain.ErrMissingModelReference
	ErrAmbiguousModelReference = domain.ErrAmbiguousModelReference
	ErrUnknownAccessor         = domain.ErrUnknownAccessor
	ErrMissingRoutine          = domain.ErrMissingRoutine
	ErrIrreversibleMigration   = domain.ErrIrreversibleMigration
	ErrDuplicateVersion        = domain.ErrDuplicateVersion
	ErrInvalidArgument         = domain.ErrInvalidArgument
)
