package transport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHostPortStripsSchemeAndPath(t *testing.T) {
	cases := map[string]string{
		"opc.tcp://10.0.0.1:4840":           "10.0.0.1:4840",
		"opc.tcp://10.0.0.1:4840/some/path": "10.0.0.1:4840",
		"opc.tcp://[::1]:4840":              "[::1]:4840",
		"10.0.0.1:4840":                     "10.0.0.1:4840",
	}
	for in, want := range cases {
		got, err := hostPort(in)
		require.NoErrorf(t, err, "hostPort(%q)", in)
		require.Equalf(t, want, got, "hostPort(%q)", in)
	}
}

func TestHostPortRejectsMissingPort(t *testing.T) {
	_, err := hostPort("opc.tcp://10.0.0.1")
	require.Error(t, err, "expected an error for an endpoint URL with no port")
}

func TestHostPortRejectsEmpty(t *testing.T) {
	_, err := hostPort("opc.tcp://")
	require.Error(t, err, "expected an error for an empty host")
}

func TestDefaultConfigMatchesUAConnectionConfigDefault(t *testing.T) {
	cfg := DefaultConfig()
	require.NotZero(t, cfg.RecvBufferSize)
	require.NotZero(t, cfg.SendBufferSize)
	require.Positive(t, cfg.ConnectTimeout)
}
