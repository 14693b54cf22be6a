// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
)

// Config はアプリケーション設定を表す。
type Config struct {
	DatabaseURL        string
	LogLevel           string
	SettingsFile       string
	GoogleCloudProject string
	OtelEnabled        bool
	OtelEndpoint       string
	OtelServiceName    string
	OtelSamplingRate   float64

	// Settings は名前空間付きの設定ストア。Migration はその migration 名前空間を型付けしたもの。
	Settings  *Configuration
	Migration Migration
}

// migrationEnv は migration 名前空間を上書きする環境変数。
var migrationEnv = map[string]string{
	"DATA_MIGRATION_METHOD":        KeyDefaultMethodName,
	"DATA_MIGRATION_DIRECTION":     KeyDefaultDirection,
	"DATA_MIGRATION_MESSAGE":       KeyDefaultMessage,
	"DATA_MIGRATION_RESET_COLUMNS": KeyResetColumnInformation,
	"DATA_MIGRATION_TRANSACTIONAL": KeyTransactional,
}

// Load は環境変数から設定を読み込む。
// 優先順位はデフォルト値 < DATAMIGRATE_CONFIG の設定ファイル < 環境変数。
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		SettingsFile:       os.Getenv("DATAMIGRATE_CONFIG"),
		GoogleCloudProject: os.Getenv("GOOGLE_CLOUD_PROJECT"),
		OtelEnabled:        cast.ToBool(getEnv("OTEL_ENABLED", "false")),
		OtelEndpoint:       getEnv("OTEL_ENDPOINT", "localhost:4317"),
		OtelServiceName:    getEnv("OTEL_SERVICE_NAME", "datamigrate"),
		OtelSamplingRate:   cast.ToFloat64(getEnv("OTEL_SAMPLING_RATE", "1.0")),
		Settings:           NewConfiguration(nil),
	}

	if cfg.SettingsFile != "" {
		if err := cfg.Settings.LoadFile(cfg.SettingsFile); err != nil {
			return nil, err
		}
	}

	cfg.Settings.Configure(MigrationNamespace, func(c *Configuration) {
		for env, key := range migrationEnv {
			if val := os.Getenv(env); val != "" {
				c.Set(key, val)
			}
		}
	})

	m, err := MigrationFrom(cfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("invalid migration settings: %w", err)
	}
	cfg.Migration = m

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
