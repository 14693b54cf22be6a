// Package audit はマイグレーション操作の監査ログを提供する。
package audit

import (
	"context"
	"log/slog"
	"time"

	"data-migration-kit/internal/domain"
)

// 監査ログの結果。
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// AuditLog は監査ログの構造体。
type AuditLog struct {
	Operation string           `json:"operation"`
	Version   string           `json:"version"`
	Direction domain.Direction `json:"direction"`
	RunID     string           `json:"run_id,omitempty"`
	Result    string           `json:"result"`
	Timestamp string           `json:"timestamp"`
}

// WriteAuditLog は監査ログを出力する。
func WriteAuditLog(ctx context.Context, entry AuditLog) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	slog.InfoContext(ctx, "migration operation completed",
		"operation", entry.Operation,
		"version", entry.Version,
		"direction", entry.Direction,
		"run_id", entry.RunID,
		"result", entry.Result,
		"timestamp", entry.Timestamp,
	)
}
