package db

import (
	"testing"

	"biostack/internal/config"
)

func TestInitializeRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	if _, err := Initialize(config.DatabaseConfig{URL: "   "}); err == nil {
		t.Fatal("expected error for empty database URL")
	}
}

func TestAutoMigrateRejectsNilHandle(t *testing.T) {
	t.Parallel()

	if err := AutoMigrate(nil); err == nil {
		t.Fatal("expected error for nil database handle")
	}
}
