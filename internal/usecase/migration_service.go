// Package usecase はマイグレーション実行のビジネスロジックを提供する。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"data-migration-kit/internal/audit"
	"data-migration-kit/internal/domain"
	"data-migration-kit/pkg/migration"
)

const tracerName = "data-migration-kit/usecase"

// MigrationRepository はマイグレーション履歴を管理するリポジトリのインターフェース。
// tx が nil でない場合、書き込みはそのトランザクションで行う。
type MigrationRepository interface {
	EnsureTable(ctx context.Context) error
	FindAllApplied(ctx context.Context) ([]*domain.Migration, error)
	RecordMigration(ctx context.Context, tx *gorm.DB, migration *domain.Migration) error
	RemoveMigration(ctx context.Context, tx *gorm.DB, version string) error
	IsMigrationApplied(ctx context.Context, version string) (bool, error)
}

// MigrationService はマイグレーション実行のビジネスロジックを提供する。
type MigrationService struct {
	repo     MigrationRepository
	db       *gorm.DB
	registry *migration.Registry
	tracer   trace.Tracer
	newRunID func() string
}

// ServiceOption は MigrationService の生成オプション。
type ServiceOption func(*MigrationService)

// WithTracerProvider はスパンを作るトレーサープロバイダーを指定する。
func WithTracerProvider(tp trace.TracerProvider) ServiceOption {
	return func(s *MigrationService) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// WithRunIDGenerator は実行IDの生成方法を指定する。
func WithRunIDGenerator(fn func() string) ServiceOption {
	return func(s *MigrationService) {
		s.newRunID = fn
	}
}

// NewMigrationService は新しいMigrationServiceを生成する。
func NewMigrationService(repo MigrationRepository, db *gorm.DB, registry *migration.Registry, opts ...ServiceOption) *MigrationService {
	s := &MigrationService{
		repo:     repo,
		db:       db,
		registry: registry,
		tracer:   otel.Tracer(tracerName),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplyMigrations は未適用マイグレーションをバージョン順に実行する。
// 途中で失敗した場合はそれまでに適用した件数とエラーを返す。
func (s *MigrationService) ApplyMigrations(ctx context.Context) (int, error) {
	if err := s.repo.EnsureTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to prepare migration history: %w", err)
	}

	runID := s.newRunID()
	slog.InfoContext(ctx, "applying migrations",
		"operation", "apply_migrations",
		"run_id", runID,
	)

	appliedCount := 0
	for _, def := range s.registry.All() {
		applied, err := s.repo.IsMigrationApplied(ctx, def.Version())
		if err != nil {
			slog.ErrorContext(ctx, "failed to check migration status",
				"operation", "apply_migrations",
				"version", def.Version(),
				"error", err,
			)
			return appliedCount, fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			continue
		}

		if err := s.run(ctx, def, migration.Up, runID); err != nil {
			slog.ErrorContext(ctx, "failed to apply migration",
				"operation", "apply_migrations",
				"version", def.Version(),
				"run_id", runID,
				"error", err,
			)
			return appliedCount, fmt.Errorf("%w: version %s: %w", domain.ErrMigrationFailed, def.Version(), err)
		}
		appliedCount++
	}

	return appliedCount, nil
}

// RollbackMigrations は適用済みマイグレーションを新しい順に取り消す。
// steps が0以下の場合はすべて取り消す。
func (s *MigrationService) RollbackMigrations(ctx context.Context, steps int) (int, error) {
	if err := s.repo.EnsureTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to prepare migration history: %w", err)
	}

	applied, err := s.repo.FindAllApplied(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch applied migrations",
			"operation", "rollback_migrations",
			"error", err,
		)
		return 0, fmt.Errorf("failed to fetch applied migrations: %w", err)
	}

	runID := s.newRunID()
	rolledBack := 0
	for i := len(applied) - 1; i >= 0; i-- {
		if steps > 0 && rolledBack >= steps {
			break
		}

		version := applied[i].Version
		def, ok := s.registry.Lookup(version)
		if !ok {
			return rolledBack, fmt.Errorf("%w: version %s is not registered", domain.ErrRollbackFailed, version)
		}

		if err := s.run(ctx, def, migration.Down, runID); err != nil {
			slog.ErrorContext(ctx, "failed to roll back migration",
				"operation", "rollback_migrations",
				"version", version,
				"run_id", runID,
				"error", err,
			)
			return rolledBack, fmt.Errorf("%w: version %s: %w", domain.ErrRollbackFailed, version, err)
		}
		rolledBack++
	}

	return rolledBack, nil
}

// run は一つのマイグレーションを実行し、履歴を更新する。
// Transactional が有効な場合、実行と履歴の更新を一つのトランザクションで行う。
func (s *MigrationService) run(ctx context.Context, def *migration.Definition, direction migration.Direction, runID string) (err error) {
	ctx, span := s.tracer.Start(ctx, "migration."+string(direction), trace.WithAttributes(
		attribute.String("migration.version", def.Version()),
		attribute.String("migration.name", def.Name()),
		attribute.String("migration.run_id", runID),
	))
	defer span.End()

	operation := "apply"
	if direction == migration.Down {
		operation = "rollback"
	}
	defer func() {
		result := audit.ResultSuccess
		if err != nil {
			result = audit.ResultFailure
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		audit.WriteAuditLog(ctx, audit.AuditLog{
			Operation: operation,
			Version:   def.Version(),
			Direction: direction,
			RunID:     runID,
			Result:    result,
		})
	}()

	exec := func(db, tx *gorm.DB) error {
		if err := def.NewInstance(db).Exec(ctx, direction); err != nil {
			return err
		}
		if direction == migration.Down {
			return s.repo.RemoveMigration(ctx, tx, def.Version())
		}
		return s.repo.RecordMigration(ctx, tx, &domain.Migration{
			Version: def.Version(),
			Name:    def.Name(),
			RunID:   runID,
		})
	}

	if def.Settings().Transactional {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return exec(tx, tx)
		})
	}
	return exec(s.db.WithContext(ctx), nil)
}

// GetMigrationStatus は登録済みマイグレーションの適用状況を取得する。
func (s *MigrationService) GetMigrationStatus(ctx context.Context) ([]*domain.Migration, error) {
	if err := s.repo.EnsureTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare migration history: %w", err)
	}

	// 適用済みマイグレーション履歴を取得
	appliedMigrations, err := s.repo.FindAllApplied(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch applied migrations",
			"operation", "get_migration_status",
			"error", err,
		)
		return nil, fmt.Errorf("failed to fetch applied migrations: %w", err)
	}

	appliedMap := make(map[string]*domain.Migration)
	for _, m := range appliedMigrations {
		appliedMap[m.Version] = m
	}

	defs := s.registry.All()
	migrations := make([]*domain.Migration, len(defs))
	for i, def := range defs {
		m := &domain.Migration{
			Version: def.Version(),
			Name:    def.Name(),
			Status:  domain.MigrationStatusPending,
		}
		if applied, exists := appliedMap[def.Version()]; exists {
			m.Status = domain.MigrationStatusApplied
			m.AppliedAt = applied.AppliedAt
			m.RunID = applied.RunID
		}
		migrations[i] = m
	}

	return migrations, nil
}
