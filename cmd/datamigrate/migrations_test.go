package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"data-migration-kit/config"
	"data-migration-kit/internal/domain"
	"data-migration-kit/internal/repository"
	"data-migration-kit/internal/usecase"
	"data-migration-kit/pkg/migration"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを作成する。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func TestSampleMigrations_BackfillFullName(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	catalog := migration.NewCatalog()
	registerModels(catalog)
	registry := migration.NewRegistry(catalog, config.DefaultMigration(),
		migration.WithReporter(migration.NewReporter(io.Discard, "")),
	)
	if err := registerMigrations(registry); err != nil {
		t.Fatalf("registerMigrations failed: %v", err)
	}

	repo := repository.NewMigrationRepository(db)
	service := usecase.NewMigrationService(repo, db, registry)

	// 1件目だけ適用してからデータを投入する
	first, _ := registry.Lookup("20240101000000")
	if err := first.NewInstance(db).Exec(ctx, migration.Up); err != nil {
		t.Fatalf("create_users failed: %v", err)
	}
	if err := repo.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable failed: %v", err)
	}
	if err := repo.RecordMigration(ctx, nil, &domain.Migration{Version: "20240101000000", Name: "create_users"}); err != nil {
		t.Fatalf("RecordMigration failed: %v", err)
	}
	if err := db.Exec("INSERT INTO users (first_name, last_name, created_at) VALUES (?, ?, CURRENT_TIMESTAMP), (?, ?, CURRENT_TIMESTAMP)",
		"Grace", "Hopper", "Edsger", "Dijkstra").Error; err != nil {
		t.Fatalf("failed to insert users: %v", err)
	}

	count, err := service.ApplyMigrations(ctx)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied, got %d", count)
	}

	var users []User
	if err := db.Order("id").Find(&users).Error; err != nil {
		t.Fatalf("failed to load users: %v", err)
	}
	want := []string{"Grace Hopper", "Edsger Dijkstra"}
	for i, u := range users {
		if u.FullName != want[i] {
			t.Errorf("users[%d].FullName = %q, want %q", i, u.FullName, want[i])
		}
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out.String() != "datamigrate version "+version+"\n" {
		t.Errorf("output = %q", out.String())
	}
}
