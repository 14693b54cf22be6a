// Package domain はドメインモデルとエラーを定義する。
package domain

import "time"

// MigrationStatus はマイグレーションの適用状態を表す
type MigrationStatus string

const (
	MigrationStatusPending MigrationStatus = "pending"
	MigrationStatusApplied MigrationStatus = "applied"
)

// Direction はマイグレーションの方向を表す。up は適用、down は取り消し。
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Valid は up または down のときに true を返す。
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// Migration は登録済みマイグレーションの適用履歴を表すドメインモデル
type Migration struct {
	Version   string          // マイグレーションバージョン（例: "20240101000000"）
	Name      string          // マイグレーション名
	RunID     string          // 適用した実行のID
	AppliedAt *time.Time      // 適用日時（未適用の場合はnil）
	Status    MigrationStatus // 適用状態
}
