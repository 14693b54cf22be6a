// Package infra は外部サービスとの接続を提供する。
package infra

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// DBOption はデータベース接続のオプション。
type DBOption func(*dbOptions)

type dbOptions struct {
	tracing bool
}

// WithTracing はOpenTelemetryのgormプラグインを有効にする。
func WithTracing(enabled bool) DBOption {
	return func(o *dbOptions) {
		o.tracing = enabled
	}
}

// Dialector はDSNから接続先のドライバを選ぶ。
// sqlite://、file:、:memory: はSQLite、それ以外はMySQL。
func Dialector(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return sqlite.Open(dsn)
	default:
		return mysql.Open(dsn)
	}
}

// NewDB はgormによるデータベース接続を初期化する。
func NewDB(dsn string, opts ...DBOption) (*gorm.DB, error) {
	var o dbOptions
	for _, opt := range opts {
		opt(&o)
	}

	dialector := Dialector(dsn)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if o.tracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, fmt.Errorf("failed to register tracing plugin: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 接続プール設定
	if dialector.Name() == "sqlite" {
		// SQLiteは単一接続で扱う
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}
