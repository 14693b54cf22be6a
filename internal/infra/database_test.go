package infra

import (
	"testing"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{dsn: "sqlite://data.db", want: "sqlite"},
		{dsn: "file:data.db?cache=shared", want: "sqlite"},
		{dsn: ":memory:", want: "sqlite"},
		{dsn: "user:pass@tcp(localhost:3306)/app?parseTime=true", want: "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			if got := Dialector(tt.dsn).Name(); got != tt.want {
				t.Errorf("Dialector(%q).Name() = %s, want %s", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestNewDB_SQLite(t *testing.T) {
	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	defer sqlDB.Close()

	if err := db.Exec("CREATE TABLE t (id INTEGER)").Error; err != nil {
		t.Fatalf("failed to use database: %v", err)
	}
	if sqlDB.Stats().MaxOpenConnections != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1", sqlDB.Stats().MaxOpenConnections)
	}
}

func TestNewDB_WithTracing(t *testing.T) {
	db, err := NewDB(":memory:", WithTracing(true))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if len(db.Config.Plugins) != 1 {
		t.Errorf("registered plugins = %d, want 1", len(db.Config.Plugins))
	}
}
