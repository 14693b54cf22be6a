package main

import (
	"context"
	"time"

	"gorm.io/gorm"

	"data-migration-kit/pkg/migration"
)

// usersV1 は full_name 追加前のusersテーブル。
type usersV1 struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	CreatedAt time.Time
}

func (usersV1) TableName() string {
	return "users"
}

// registerMigrations はサンプルのマイグレーションを登録する。
func registerMigrations(registry *migration.Registry) error {
	createUsers, err := registry.Define("20240101000000", "create_users")
	if err != nil {
		return err
	}
	if err := createUsers.Schema(migration.SchemaUp, func(ctx context.Context, m *migration.Instance) error {
		return m.DB().WithContext(ctx).Migrator().CreateTable(&usersV1{})
	}); err != nil {
		return err
	}
	if err := createUsers.Schema(migration.SchemaDown, func(ctx context.Context, m *migration.Instance) error {
		return m.DB().WithContext(ctx).Migrator().DropTable("users")
	}); err != nil {
		return err
	}

	addFullName, err := registry.Define("20240102000000", "add_full_name_to_users")
	if err != nil {
		return err
	}
	if err := addFullName.Model("User", migration.Options{"as": "users"}); err != nil {
		return err
	}
	if err := addFullName.Schema(migration.SchemaUp, func(ctx context.Context, m *migration.Instance) error {
		return m.DB().WithContext(ctx).Migrator().AddColumn(&User{}, "FullName")
	}); err != nil {
		return err
	}
	if err := addFullName.Schema(migration.SchemaDown, func(ctx context.Context, m *migration.Instance) error {
		return m.DB().WithContext(ctx).Migrator().DropColumn(&User{}, "FullName")
	}); err != nil {
		return err
	}
	return addFullName.Data(nil,
		migration.Use(func() (migration.Routine, error) { return &fullNameBackfill{batchSize: 500}, nil }),
		migration.Say("users.full_name"),
	)
}

// fullNameBackfill は full_name を first_name と last_name から埋める。
type fullNameBackfill struct {
	batchSize int
}

func (b *fullNameBackfill) Run(ctx context.Context, m *migration.Instance) error {
	users, err := m.Model("users")
	if err != nil {
		return err
	}

	var batch []User
	return users.DB().WithContext(ctx).
		Where("full_name IS NULL OR full_name = ''").
		FindInBatches(&batch, b.batchSize, func(tx *gorm.DB, _ int) error {
			for _, u := range batch {
				if err := m.DB().WithContext(ctx).Model(&User{}).
					Where("id = ?", u.ID).
					Update("full_name", u.FirstName+" "+u.LastName).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
}
