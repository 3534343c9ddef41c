package ingest

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mariprog/internal/charset"
	"mariprog/internal/datasource"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestLoader_RecordsInputs(t *testing.T) {
	dir := t.TempDir()
	pfsa := []byte("SiteName,PFSA Approval,PFSA Expiry\nDock A,01-06-2020,01-06-2025\n")
	path := writeFile(t, dir, "pfsa.csv", pfsa)

	l := &Loader{Job: "test"}
	got, err := l.PFSA(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, got, 1)

	inputs := l.Inputs()
	require.Len(t, inputs, 1)
	assert.Equal(t, "pfsa", inputs[0].Kind)
	assert.Equal(t, path, inputs[0].Path)
	assert.Equal(t, 1, inputs[0].Records)
	assert.Equal(t, charset.EncodingUTF8, inputs[0].Encoding)
	assert.Equal(t, xxh3.Hash(pfsa), inputs[0].Digest)
}

func TestLoader_WarnsOnLatin1(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pfsa.csv", []byte("SiteName,PFSA Approval,PFSA Expiry\nQuai \xE9,,\n"))

	core, logs := observer.New(zapcore.DebugLevel)
	l := &Loader{Log: zap.New(core)}
	_, err := l.PFSA(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("input is not valid utf-8; read as latin-1").Len())
	assert.Equal(t, charset.EncodingLatin1, l.Inputs()[0].Encoding)
}

func TestLoader_MissingFile(t *testing.T) {
	l := &Loader{}
	_, err := l.Ports(context.Background(), filepath.Join(t.TempDir(), "dump.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "dump.csv", pe.File)
	assert.Empty(t, l.Inputs(), "failed inputs are not recorded")
}

func TestLoader_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "psa_aid.csv", []byte("x\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Loader{}).Assessments(ctx, path)
	assert.True(t, errors.Is(err, context.Canceled))
}

type memSource string

func (m memSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(m))), nil
}

func TestLoader_CustomOpener(t *testing.T) {
	var opened []string
	l := &Loader{Open: func(path string) datasource.Source {
		opened = append(opened, path)
		return memSource("SiteName,PFSA Approval,PFSA Expiry\nDock A,,01-06-2025\n")
	}}

	got, err := l.PFSA(context.Background(), "in/pfsa.csv")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"in/pfsa.csv"}, opened)
}
