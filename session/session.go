// Package session carries the explicit execution context for pool
// commands: the credential for remote calls and the WinRM endpoint
// options. There is no hidden module state; the caller builds a Session
// once and threads it through every invocation.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted when flags leave fields empty.
const (
	EnvUser     = "IISPOOL_USER"
	EnvPassword = "IISPOOL_PASSWORD"
	EnvDomain   = "IISPOOL_DOMAIN"
)

// Credential is a username/password pair for the remote channel.
type Credential struct {
	Username string
	Password string
	Domain   string
}

// IsZero reports whether no credential was supplied.
func (c Credential) IsZero() bool {
	return c.Username == "" && c.Password == ""
}

// Validate checks that the credential is usable for a remote call.
func (c Credential) Validate() error {
	if c.Username == "" {
		return errors.New("username is required")
	}
	if c.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// Session holds connection settings shared by every record a command
// processes. It is read-only for the duration of a call.
type Session struct {
	// Credential is attached to remote calls. May be zero when every
	// target is local.
	Credential Credential

	// Port is the WinRM port (0 means the transport default).
	Port int

	// UseTLS enables HTTPS transport to remote hosts.
	UseTLS bool

	// InsecureSkipVerify skips TLS certificate verification.
	InsecureSkipVerify bool

	// Timeout bounds each remote operation.
	Timeout time.Duration

	// UseNTLM selects NTLM authentication instead of Basic.
	UseNTLM bool
}

// Default returns a Session with sensible defaults. Timeout stays zero so
// flag, file and transport defaults layer cleanly; the remote channel
// applies its own 60s fallback.
func Default() Session {
	return Session{
		UseNTLM: true,
	}
}

// ApplyEnv fills empty credential fields from the IISPOOL_* environment
// variables. Flag values win over the environment.
func (s *Session) ApplyEnv() {
	if s.Credential.Username == "" {
		s.Credential.Username = os.Getenv(EnvUser)
	}
	if s.Credential.Password == "" {
		s.Credential.Password = os.Getenv(EnvPassword)
	}
	if s.Credential.Domain == "" {
		s.Credential.Domain = os.Getenv(EnvDomain)
	}
}

// fileConfig is the on-disk shape of the optional config file. Timeout is
// a string because yaml.v3 has no native duration decoding.
type fileConfig struct {
	User     string `yaml:"user"`
	Domain   string `yaml:"domain"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	Insecure bool   `yaml:"insecure"`
	Timeout  string `yaml:"timeout"`
	NTLM     *bool  `yaml:"ntlm"`
}

// DefaultConfigPath returns the conventional config file location, or ""
// when the user config directory cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "iispool", "config.yaml")
}

// ApplyFile overlays defaults from a YAML config file onto the session.
// A missing file is not an error; explicit flag and env values win, so
// only empty fields are filled. Passwords never live in the config file.
func (s *Session) ApplyFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if s.Credential.Username == "" {
		s.Credential.Username = fc.User
	}
	if s.Credential.Domain == "" {
		s.Credential.Domain = fc.Domain
	}
	if s.Port == 0 {
		s.Port = fc.Port
	}
	if fc.TLS {
		s.UseTLS = true
	}
	if fc.Insecure {
		s.InsecureSkipVerify = true
	}
	if s.Timeout == 0 && fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parse config %s: timeout: %w", path, err)
		}
		s.Timeout = d
	}
	if fc.NTLM != nil {
		s.UseNTLM = *fc.NTLM
	}
	return nil
}
