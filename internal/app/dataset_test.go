package app

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"

	"mariprog/internal/config"
	"mariprog/internal/datasource"
	"mariprog/internal/ingest"
	"mariprog/internal/storage"
)

type stringSource string

func (s stringSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s))), nil
}

func TestDataset_LoadsOnce(t *testing.T) {
	opened := map[string]int{}
	loader := &ingest.Loader{Open: func(path string) datasource.Source {
		opened[path]++
		return stringSource(pfsaCSV)
	}}
	ds := NewDataset(loader, config.Inputs{Dir: "in", PFSA: "pfsa.csv"})

	a, err := ds.PFSA(context.Background())
	require.NoError(t, err)
	b, err := ds.PFSA(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, map[string]int{"in/pfsa.csv": 1}, opened)
}

func TestDataset_MemoisesErrors(t *testing.T) {
	calls := 0
	loader := &ingest.Loader{Open: func(string) datasource.Source {
		calls++
		return stringSource("not,a,programme\n")
	}}
	ds := NewDataset(loader, config.Inputs{Programme: "programme.csv"})

	_, err1 := ds.Inspections(context.Background())
	_, err2 := ds.Inspections(context.Background())
	require.Error(t, err1)
	assert.Equal(t, err1, err2)
	assert.Equal(t, 1, calls)
}

func TestDataset_Snapshot(t *testing.T) {
	files := map[string]string{"programme.csv": programmeCSV, "pfsa.csv": pfsaCSV, "dump.csv": "broken"}
	loader := &ingest.Loader{Open: func(path string) datasource.Source { return stringSource(files[path]) }}
	ds := NewDataset(loader, config.Inputs{Programme: "programme.csv", PFSA: "pfsa.csv", Dump: "dump.csv"})

	ctx := context.Background()
	_, err := ds.PFSA(ctx)
	require.NoError(t, err)
	_, err = ds.Inspections(ctx)
	require.NoError(t, err)
	_, err = ds.Ports(ctx)
	require.Error(t, err)

	run := uuid.New()
	snap := ds.Snapshot(run)
	assert.Equal(t, run, snap.RunID)
	require.Len(t, snap.Sets, 2, "unread and failed sets are left out")
	assert.Equal(t, storage.SetInspections, snap.Sets[0].Name)
	assert.Equal(t, storage.SetPFSA, snap.Sets[1].Name)
	assert.Equal(t, xxh3.HashString(pfsaCSV), snap.Sets[1].Digest)
	assert.Len(t, snap.Sets[1].Rows, 2)
}
