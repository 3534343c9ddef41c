package datadog

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mariprog/internal/metrics"
)

func TestNewBackend_RequiresAddr(t *testing.T) {
	b, err := NewBackend(Config{})
	assert.Nil(t, b)
	assert.ErrorContains(t, err, "Addr is required")
}

func TestLabelsToTags(t *testing.T) {
	assert.Nil(t, labelsToTags(nil))
	assert.Equal(t,
		[]string{"job:weekly", "status:success", "step:parse_pfsa"},
		labelsToTags(metrics.Labels{"step": "parse_pfsa", "job": "weekly", "status": "success"}))
}

func TestZeroBackendIsNoop(t *testing.T) {
	b := &Backend{}
	b.IncCounter(metrics.RecordsTotal, 1, nil)
	b.ObserveHistogram(metrics.StepDuration, 1, nil)
	assert.NoError(t, b.Flush())
}

func TestBackend_SendsToAgent(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	b, err := NewBackend(Config{
		Addr:       conn.LocalAddr().String(),
		Namespace:  "mariprog.",
		GlobalTags: []string{"env:test"},
	})
	require.NoError(t, err)

	b.IncCounter(metrics.RecordsTotal, 5, metrics.Labels{"kind": "ports"})
	require.NoError(t, b.Flush())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	buf := make([]byte, 4096)
	n, _, err := conn.ReadFrom(buf)
	require.NoError(t, err)

	payload := string(buf[:n])
	assert.True(t, strings.Contains(payload, "mariprog."+metrics.RecordsTotal+":5|c"), payload)
	assert.Contains(t, payload, "kind:ports")
	assert.Contains(t, payload, "env:test")
}
