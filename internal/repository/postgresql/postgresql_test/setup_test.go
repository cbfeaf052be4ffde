package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/busops/transit-backend-go/internal/pkg/database"
)

// TestDatabaseSetup wraps a connection to a scratch database carrying db/schema.sql.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// The test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.applySchema(ctx); err != nil {
		t.Fatal(err)
	}
	if err := setup.TruncateAllTables(ctx); err != nil {
		t.Fatal(err)
	}
	return setup
}

func (t *TestDatabaseSetup) applySchema(ctx context.Context) error {
	_, file, _, _ := runtime.Caller(0)
	schema, err := os.ReadFile(filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "db", "schema.sql"))
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	if _, err := t.DB.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// TruncateAllTables empties every table the repositories write to.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"bookings",
		"routes",
		"users",
		"staff_attendance",
		"salaries",
		"advances",
		"staff",
		"budgets",
		"expenses",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}
