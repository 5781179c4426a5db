package cli

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/httpapi"
)

func TestServeCmd_Flags(t *testing.T) {
	addr := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, addr)
	assert.Equal(t, httpapi.DefaultAddr, addr.DefValue)
	assert.NotNil(t, serveCmd.Flags().Lookup("allow-origin"))
}

func TestServeCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	searchService = nil

	_, _, err := execute(t, "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestResolveAddr_Explicit(t *testing.T) {
	addr, err := resolveAddr(":9000")

	require.NoError(t, err)
	assert.Equal(t, ":9000", addr)
}

func TestResolveAddr_Auto(t *testing.T) {
	addr, err := resolveAddr("auto")
	if err != nil {
		t.Skipf("no free port in range: %v", err)
	}

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)

	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, autoPortStart)
	assert.LessOrEqual(t, port, autoPortEnd)
}
