package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zwanski-tech/sitesearch/internal/core/services"
)

func TestServeCmd_Use(t *testing.T) {
	assert.Equal(t, "serve", serveCmd.Use)
}

func TestServeCmd_AddrFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Equal(t, services.DefaultServerAddr, flag.DefValue)
}

func TestListenAddr(t *testing.T) {
	defer func() { configuredServerAddr = "" }()

	// Nothing configured: the flag default stands.
	configuredServerAddr = ""
	assert.Equal(t, services.DefaultServerAddr, listenAddr(false))

	// Configured address applies when the flag is untouched.
	configuredServerAddr = ":9999"
	assert.Equal(t, ":9999", listenAddr(false))

	// An explicit --addr always wins.
	assert.Equal(t, serveAddr, listenAddr(true))
}

func TestServeCmd_Unconfigured(t *testing.T) {
	Configure(Ports{})

	_, err := execute("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.NotNil(t, mcpCmd.Flags().Lookup("http"))
}

func TestMCPCmd_Unconfigured(t *testing.T) {
	Configure(Ports{})

	_, err := execute("mcp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestTUICmd_Use(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
}

func TestTUICmd_Unconfigured(t *testing.T) {
	Configure(Ports{})

	_, err := execute("tui")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
