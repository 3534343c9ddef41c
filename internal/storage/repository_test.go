package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo records what it is asked to do.
type fakeRepo struct {
	closed bool
	execs  []string
	copies map[string][][]any
	cols   map[string][]string
	failOn string
}

func (f *fakeRepo) Exec(_ context.Context, sql string) error {
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeRepo) CopyFrom(_ context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if table == f.failOn {
		return 0, errors.New("copy refused")
	}
	if f.copies == nil {
		f.copies = map[string][][]any{}
		f.cols = map[string][]string{}
	}
	f.copies[table] = append(f.copies[table], rows...)
	f.cols[table] = columns
	return int64(len(rows)), nil
}

func (f *fakeRepo) Close() { f.closed = true }

func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	kind := "fake"
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		return &fakeRepo{}, nil
	})

	repo, err := New(context.Background(), Config{Kind: kind})
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.Contains(t, ListKinds(), kind)
}

func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	Register("listed", func(ctx context.Context, cfg Config) (Repository, error) { return &fakeRepo{}, nil })

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "unsupported storage.kind=does-not-exist (known: "), err.Error())
	assert.Contains(t, err.Error(), "listed", "the error names the registered kinds")
}

// Re-registering a kind replaces the previous factory.
func TestRegister_Override(t *testing.T) {
	t.Parallel()

	kind := "override"
	calls := 0
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		calls++
		return &fakeRepo{}, nil
	})
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		calls += 10
		return &fakeRepo{}, nil
	})

	_, err := New(context.Background(), Config{Kind: kind})
	require.NoError(t, err)
	assert.Equal(t, 10, calls)
}

// ListKinds returns a copy the caller may mutate.
func TestListKinds_Snapshot(t *testing.T) {
	t.Parallel()

	Register("snap", func(ctx context.Context, cfg Config) (Repository, error) { return &fakeRepo{}, nil })

	a := ListKinds()
	require.NotEmpty(t, a)
	a[0] = "mutated"
	assert.NotContains(t, ListKinds(), "mutated")
}

func TestRegister_AllowsErrors(t *testing.T) {
	t.Parallel()

	want := errors.New("boom")
	Register("errkind", func(ctx context.Context, cfg Config) (Repository, error) {
		return nil, want
	})

	_, err := New(context.Background(), Config{Kind: "errkind"})
	assert.ErrorIs(t, err, want)
}

func TestEnsureTable(t *testing.T) {
	RegisterDDL("fake-ddl", func(t Table) (string, error) {
		return "CREATE " + t.Name, nil
	})
	repo := &fakeRepo{}

	require.NoError(t, EnsureTable(context.Background(), "fake-ddl", repo, Table{Name: "x"}))
	assert.Equal(t, []string{"CREATE x"}, repo.execs)

	err := EnsureTable(context.Background(), "no-such-kind", repo, Table{Name: "x"})
	assert.ErrorContains(t, err, `storage.kind="no-such-kind"`)
}

func TestTableColumnNames(t *testing.T) {
	tab := Table{Columns: []Column{{Name: "a"}, {Name: "b", Nullable: true}}}
	assert.Equal(t, []string{"a", "b"}, tab.ColumnNames())
}
