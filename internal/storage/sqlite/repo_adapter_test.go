package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mariprog/internal/storage"
)

// TestRegistrationUsesNewRepositoryHook verifies that the "sqlite" backend
// registered in init goes through the newRepository hook and that Close
// reaches the cleanup function.
func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var (
		gotDSN string
		closed bool
		fake   = &Repository{}
	)
	newRepository = func(ctx context.Context, dsn string) (*Repository, func(), error) {
		gotDSN = dsn
		return fake, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: "file:snap.db"})
	require.NoError(t, err)
	assert.Equal(t, "file:snap.db", gotDSN)

	w, ok := repo.(*wrappedRepo)
	require.True(t, ok, "storage.New() type = %T", repo)
	assert.Same(t, fake, w.Repository)

	repo.Close()
	assert.True(t, closed)
	assert.Contains(t, storage.ListKinds(), "sqlite")
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	_, _, err := NewRepository(context.Background(), " ")
	assert.ErrorContains(t, err, "DSN must not be empty")
}
