package pool

import (
	"testing"

	"github.com/smnsjas/go-psrp/client"
	"github.com/smnsjas/go-psrpcore/serialization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFromResult(t *testing.T) {
	out := outputFromResult(&client.Result{
		Output: []interface{}{`{"Name":"Pool1","State":"Started"}`},
	})
	assert.Equal(t, `{"Name":"Pool1","State":"Started"}`, out.Stdout)
	assert.Empty(t, out.Stderr)
	assert.Zero(t, out.ExitCode)
}

func TestOutputFromResultPipelineErrors(t *testing.T) {
	// A runspace has no process exit code; error records stand in for it.
	out := outputFromResult(&client.Result{
		Errors:    []interface{}{"Restart-WebAppPool : Cannot find pool"},
		HadErrors: true,
	})
	assert.Equal(t, 1, out.ExitCode)
	assert.Equal(t, "Restart-WebAppPool : Cannot find pool", out.Stderr)
}

func TestRenderObject(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"plain string", "Started", "Started"},
		{"clixml crlf", "line1_x000D__x000A_line2", "line1\nline2"},
		{"psobject tostring", &serialization.PSObject{ToString: "Pool1"}, "Pool1"},
		{"psobject wrapped value", &serialization.PSObject{Value: "Stopped"}, "Stopped"},
		{"number", int64(42), "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderObject(tt.in))
		})
	}
}

func TestRenderObjectsJoinsLines(t *testing.T) {
	got := renderObjects([]interface{}{"a", "b"})
	assert.Equal(t, "a\nb", got)
}

func TestNewRemoteRunnerRequiresCredentials(t *testing.T) {
	_, err := NewRemoteRunner("SRV1", DefaultRemoteConfig())
	require.Error(t, err)
}

func TestNewRemoteRunnerAuthConfig(t *testing.T) {
	cfg := DefaultRemoteConfig()
	cfg.Username = "admin"
	cfg.Password = "pw"

	// NTLM default and explicit Basic must both construct; neither path
	// leans on the client library's own auth default.
	r, err := NewRemoteRunner("SRV1", cfg)
	require.NoError(t, err)
	assert.NotNil(t, r)

	cfg.UseNTLM = false
	r, err = NewRemoteRunner("SRV1", cfg)
	require.NoError(t, err)
	assert.NotNil(t, r)
}
