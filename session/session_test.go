package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialIsZero(t *testing.T) {
	assert.True(t, Credential{}.IsZero())
	assert.True(t, Credential{Domain: "CORP"}.IsZero())
	assert.False(t, Credential{Username: "admin"}.IsZero())
	assert.False(t, Credential{Password: "x"}.IsZero())
}

func TestCredentialValidate(t *testing.T) {
	assert.Error(t, Credential{}.Validate())
	assert.Error(t, Credential{Username: "admin"}.Validate())
	assert.Error(t, Credential{Password: "x"}.Validate())
	assert.NoError(t, Credential{Username: "admin", Password: "x"}.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvUser, "envuser")
	t.Setenv(EnvPassword, "envpass")
	t.Setenv(EnvDomain, "ENVCORP")

	s := Default()
	s.ApplyEnv()
	assert.Equal(t, Credential{Username: "envuser", Password: "envpass", Domain: "ENVCORP"}, s.Credential)
}

func TestApplyEnvDoesNotOverrideFlags(t *testing.T) {
	t.Setenv(EnvUser, "envuser")
	t.Setenv(EnvPassword, "envpass")

	s := Default()
	s.Credential.Username = "flaguser"
	s.ApplyEnv()
	assert.Equal(t, "flaguser", s.Credential.Username)
	assert.Equal(t, "envpass", s.Credential.Password)
}

func TestApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"user: fileuser\ndomain: CORP\nport: 5986\ntls: true\ntimeout: 30s\nntlm: false\n"), 0o600))

	s := Default()
	require.NoError(t, s.ApplyFile(path))
	assert.Equal(t, "fileuser", s.Credential.Username)
	assert.Equal(t, "CORP", s.Credential.Domain)
	assert.Equal(t, 5986, s.Port)
	assert.True(t, s.UseTLS)
	assert.False(t, s.UseNTLM)
	assert.Equal(t, 30*time.Second, s.Timeout)
}

func TestApplyFileDoesNotOverrideExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user: fileuser\nport: 5986\n"), 0o600))

	s := Default()
	s.Credential.Username = "flaguser"
	s.Port = 9999
	require.NoError(t, s.ApplyFile(path))
	assert.Equal(t, "flaguser", s.Credential.Username)
	assert.Equal(t, 9999, s.Port)
}

func TestApplyFileMissingIsFine(t *testing.T) {
	s := Default()
	assert.NoError(t, s.ApplyFile(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestApplyFileBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user: [unclosed"), 0o600))

	s := Default()
	assert.Error(t, s.ApplyFile(path))
}
