package config

import (
	"fmt"

	"github.com/spf13/cast"
)

// MigrationNamespace はデータマイグレーション設定の名前空間。
const MigrationNamespace = "migration"

// データマイグレーション設定のキー。
const (
	KeyDefaultMethodName      = "default_method_name"
	KeyDefaultDirection       = "default_direction"
	KeyDefaultMessage         = "default_message"
	KeyResetColumnInformation = "reset_column_information"
	KeyTransactional          = "transactional"
)

// Migration はデータマイグレーションの設定を表す。
type Migration struct {
	// DefaultMethodName は as 指定がない場合のモデルアクセサ名。
	DefaultMethodName string
	// DefaultDirection は方向の指定がない場合の方向（up または down）。
	DefaultDirection string
	// DefaultMessage は実行開始時に出力するメッセージ。
	DefaultMessage string
	// ResetColumnInformation が true の場合、モデル参照の解決時にカラム情報を破棄する。
	ResetColumnInformation bool
	// Transactional が true の場合、マイグレーションごとにトランザクションを張る。
	Transactional bool
}

// DefaultMigration はデフォルトのデータマイグレーション設定を返す。
func DefaultMigration() Migration {
	return Migration{
		DefaultMethodName:      "model",
		DefaultDirection:       "up",
		DefaultMessage:         "Migrating data...",
		ResetColumnInformation: true,
		Transactional:          false,
	}
}

// MigrationFrom は migration 名前空間から設定を読み込む。
// 未設定のキーはデフォルト値を使う。
func MigrationFrom(c *Configuration) (Migration, error) {
	m := DefaultMigration()
	ns := c.Namespace(MigrationNamespace)

	var err error
	if v := ns.Get(KeyDefaultMethodName); v != nil {
		if m.DefaultMethodName, err = cast.ToStringE(v); err != nil {
			return m, fmt.Errorf("%s.%s: %w", MigrationNamespace, KeyDefaultMethodName, err)
		}
	}
	if v := ns.Get(KeyDefaultDirection); v != nil {
		if m.DefaultDirection, err = cast.ToStringE(v); err != nil {
			return m, fmt.Errorf("%s.%s: %w", MigrationNamespace, KeyDefaultDirection, err)
		}
	}
	if v := ns.Get(KeyDefaultMessage); v != nil {
		if m.DefaultMessage, err = cast.ToStringE(v); err != nil {
			return m, fmt.Errorf("%s.%s: %w", MigrationNamespace, KeyDefaultMessage, err)
		}
	}
	if v := ns.Get(KeyResetColumnInformation); v != nil {
		if m.ResetColumnInformation, err = cast.ToBoolE(v); err != nil {
			return m, fmt.Errorf("%s.%s: %w", MigrationNamespace, KeyResetColumnInformation, err)
		}
	}
	if v := ns.Get(KeyTransactional); v != nil {
		if m.Transactional, err = cast.ToBoolE(v); err != nil {
			return m, fmt.Errorf("%s.%s: %w", MigrationNamespace, KeyTransactional, err)
		}
	}

	if m.DefaultDirection != "up" && m.DefaultDirection != "down" {
		return m, fmt.Errorf("%s.%s: must be up or down, got %q", MigrationNamespace, KeyDefaultDirection, m.DefaultDirection)
	}
	if m.DefaultMethodName == "" {
		return m, fmt.Errorf("%s.%s: must not be empty", MigrationNamespace, KeyDefaultMethodName)
	}

	return m, nil
}
