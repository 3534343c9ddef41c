//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"mariprog/internal/storage"
	"mariprog/pkg/records"
)

// TestExportIntegration writes a PFSA set into a real Postgres named by
// POSTGRES_TEST_DSN.
func TestExportIntegration(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set; skipping Postgres integration tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, closeFn, err := NewRepository(ctx, dsn)
	require.NoError(t, err)
	defer closeFn()

	day := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	prefix := "it_" + time.Now().Format("150405") + "_"
	exp := storage.Exporter{Kind: "postgres", TablePrefix: prefix}
	n, err := exp.Export(ctx, &wrappedRepo{Repository: repo}, storage.Snapshot{
		RunID: uuid.New(),
		Sets:  []storage.Set{storage.PFSASet([]records.PFSAExpiry{{SiteName: "Dock A", Approval: day, Expiry: day}}, 1)},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, repo.Exec(ctx, "DROP TABLE "+pgIdent(prefix+storage.SetPFSA)))
}
