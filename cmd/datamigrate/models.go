package main

import (
	"time"

	"data-migration-kit/pkg/migration"
)

// User はusersテーブルのモデル。
type User struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	FullName  string `gorm:"size:201"`
	CreatedAt time.Time
}

// registerModels はマイグレーションから参照するモデルを登録する。
func registerModels(catalog *migration.Catalog) {
	catalog.RegisterModel(&User{})
}
