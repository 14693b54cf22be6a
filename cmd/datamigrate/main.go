// Package main はデータマイグレーションのサンプルCLIのエントリポイント。
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"data-migration-kit/config"
	"data-migration-kit/internal/infra"
	"data-migration-kit/pkg/migratecmd"
	"data-migration-kit/pkg/migration"
)

const version = "1.0.0"

func main() {
	ctx := context.Background()

	// .envファイルを読み込む（存在しない場合は無視）
	// 既存の環境変数は上書きしない
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// トレーサー初期化（ロガー設定の前に実行）
	tp, err := infra.InitTracer(ctx, cfg, version)
	if err != nil {
		slog.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(ctx); err != nil {
				slog.Error("failed to shutdown tracer", "error", err)
			}
		}()
	}

	infra.SetupLogger(cfg, nil)

	catalog := migration.NewCatalog()
	registerModels(catalog)

	registry := migration.NewRegistry(catalog, cfg.Migration)
	if err := registerMigrations(registry); err != nil {
		slog.Error("failed to register migrations", "error", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:          "datamigrate",
		Short:        "Schema and data migration runner",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(migratecmd.New(registry, migratecmd.WithConnector(func(ctx context.Context) (*gorm.DB, error) {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required")
		}
		return infra.NewDB(cfg.DatabaseURL, infra.WithTracing(cfg.OtelEnabled))
	})))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// versionCmd はバージョン情報を表示する。
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "datamigrate version %s\n", version)
		},
	}
}
