package service

import (
	"context"
	"database/sql"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/persistence"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	store, err := persistence.NewSQLite(context.Background(), config.SQLiteConfig{
		Path:          ":memory:",
		RunMigrations: true,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store.DB()
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
