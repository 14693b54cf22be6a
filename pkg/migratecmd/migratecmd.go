// Package migratecmd はマイグレーションを実行するcobraコマンドを提供する。
package migratecmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"data-migration-kit/config"
	"data-migration-kit/internal/domain"
	"data-migration-kit/internal/infra"
	"data-migration-kit/internal/repository"
	"data-migration-kit/internal/usecase"
	"data-migration-kit/pkg/migration"
)

// Connector はコマンド実行時にデータベース接続を返す。
type Connector func(ctx context.Context) (*gorm.DB, error)

type options struct {
	connect Connector
	service []usecase.ServiceOption
}

// Option は New のオプション。
type Option func(*options)

// WithConnector はデータベース接続の取得方法を指定する。
// 省略時は環境変数 DATABASE_URL から接続する。
func WithConnector(fn Connector) Option {
	return func(o *options) {
		o.connect = fn
	}
}

// WithServiceOptions は MigrationService に渡すオプションを指定する。
func WithServiceOptions(opts ...usecase.ServiceOption) Option {
	return func(o *options) {
		o.service = append(o.service, opts...)
	}
}

// ConnectFromEnv は環境変数の設定でデータベースに接続する。
func ConnectFromEnv(ctx context.Context) (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := infra.NewDB(cfg.DatabaseURL, infra.WithTracing(cfg.OtelEnabled))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// New は registry のマイグレーションを実行する migrate コマンドを生成する。
func New(registry *migration.Registry, opts ...Option) *cobra.Command {
	o := options{connect: ConnectFromEnv}
	for _, opt := range opts {
		opt(&o)
	}

	newService := func(ctx context.Context) (*usecase.MigrationService, error) {
		db, err := o.connect(ctx)
		if err != nil {
			return nil, err
		}
		repo := repository.NewMigrationRepository(db)
		return usecase.NewMigrationService(repo, db, registry, o.service...), nil
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  "Apply, roll back and inspect schema and data migrations",
	}
	cmd.AddCommand(upCmd(newService))
	cmd.AddCommand(downCmd(newService))
	cmd.AddCommand(statusCmd(newService))
	return cmd
}

type serviceFactory func(ctx context.Context) (*usecase.MigrationService, error)

func upCmd(newService serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Long:  "Apply all pending migrations to the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			service, err := newService(ctx)
			if err != nil {
				return err
			}

			appliedCount, err := service.ApplyMigrations(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			if appliedCount == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending migrations.")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", appliedCount)
			}
			return nil
		},
	}
}

func downCmd(newService serviceFactory) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Long:  "Roll back applied migrations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			service, err := newService(ctx)
			if err != nil {
				return err
			}

			count, err := service.RollbackMigrations(ctx, steps)
			if err != nil {
				return fmt.Errorf("rollback failed: %w", err)
			}

			if count == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No applied migrations.")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s) successfully.\n", count)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back (0 rolls back all)")
	return cmd
}

func statusCmd(newService serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  "Show the status of all migrations (applied/pending)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			service, err := newService(ctx)
			if err != nil {
				return err
			}

			migrations, err := service.GetMigrationStatus(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			// テーブル形式で出力
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
			fmt.Fprintln(w, "-------\t----\t------\t----------")

			for _, m := range migrations {
				appliedAt := "-"
				if m.AppliedAt != nil {
					appliedAt = m.AppliedAt.Format("2006-01-02 15:04:05")
				}

				status := "pending"
				if m.Status == domain.MigrationStatusApplied {
					status = "applied"
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Version, m.Name, status, appliedAt)
			}

			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to flush output: %w", err)
			}
			return nil
		},
	}
}
