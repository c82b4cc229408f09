// Package storetest opens the optional live backends for repository
// contract tests. Each helper skips the test when its backend is not
// configured, so the in-memory run is the only one that always happens.
package storetest

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/docstore"
)

// Context returns a context scoped to a hospital no other test uses.
func Context(t *testing.T) context.Context {
	t.Helper()
	hid := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return db.WithHospital(context.Background(), hid)
}

// Postgres connects to TEST_DATABASE_URL, or to a docker container when
// TEST_POSTGRES_DOCKER is set, and applies the migrations.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url, err := postgresURL()
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, url, 4, 1)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if _, err := db.NewMigrator(pool).Up(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

// Firestore connects to the emulator named by FIRESTORE_EMULATOR_HOST.
func Firestore(t *testing.T) *docstore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	c, err := docstore.Open(context.Background(), "dermai-test", "")
	if err != nil {
		t.Fatalf("firestore: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}
