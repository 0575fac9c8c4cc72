package pool

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/smnsjas/go-psrp/client"
	"github.com/smnsjas/go-psrpcore/serialization"
)

// RemoteConfig holds connection settings for the WinRM channel to one
// host. Credentials are attached to every call made over the channel.
type RemoteConfig struct {
	// Port is the WinRM port (default: 5985 for HTTP, 5986 for HTTPS).
	Port int

	// UseTLS enables HTTPS transport.
	UseTLS bool

	// InsecureSkipVerify skips TLS certificate verification.
	InsecureSkipVerify bool

	// Timeout is the per-operation transport timeout.
	Timeout time.Duration

	// Username for authentication.
	Username string

	// Password for authentication.
	Password string

	// Domain for NTLM authentication.
	Domain string

	// UseNTLM selects NTLM authentication instead of Basic.
	UseNTLM bool
}

// DefaultRemoteConfig returns a RemoteConfig with sensible defaults.
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		Port:    5985,
		Timeout: 60 * time.Second,
		UseNTLM: true,
	}
}

// RemoteRunner ships scripts to another host over WinRM, executing them
// in the go-psrp client's runspace pool on the target. Pipeline error
// records surface as a non-zero exit in Output, matching how LocalRunner
// reports a failed powershell.exe process.
type RemoteRunner struct {
	mu        sync.Mutex
	host      string
	psrp      *client.Client
	connected bool
}

// NewRemoteRunner builds a runner for host. The connection is established
// lazily on the first Run.
func NewRemoteRunner(host string, cfg RemoteConfig) (*RemoteRunner, error) {
	ccfg := client.DefaultConfig()
	ccfg.Username = cfg.Username
	ccfg.Password = cfg.Password
	ccfg.Domain = cfg.Domain
	ccfg.UseTLS = cfg.UseTLS
	ccfg.InsecureSkipVerify = cfg.InsecureSkipVerify
	if cfg.Port != 0 {
		ccfg.Port = cfg.Port
	} else if cfg.UseTLS {
		ccfg.Port = 5986
	}
	if cfg.Timeout != 0 {
		ccfg.Timeout = cfg.Timeout
	}
	// Never rely on the library default here. The caller's choice is
	// binary, so pin the auth type for both branches.
	if cfg.UseNTLM {
		ccfg.AuthType = client.AuthNTLM
	} else {
		ccfg.AuthType = client.AuthBasic
	}

	psrp, err := client.New(host, ccfg)
	if err != nil {
		return nil, fmt.Errorf("winrm client for %s: %w", host, err)
	}
	return &RemoteRunner{host: host, psrp: psrp}, nil
}

// Run implements Runner. The script runs directly in the remote runspace,
// so no host-side encoding is needed.
func (r *RemoteRunner) Run(ctx context.Context, script string) (Output, error) {
	if err := r.connect(ctx); err != nil {
		return Output{}, err
	}

	res, err := r.psrp.Execute(ctx, script)
	if err != nil {
		return Output{}, fmt.Errorf("remote execute on %s: %w", r.host, err)
	}
	return outputFromResult(res), nil
}

// Close implements Runner.
func (r *RemoteRunner) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.connected {
		return nil
	}
	r.connected = false
	return r.psrp.Close(ctx)
}

func (r *RemoteRunner) connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.connected {
		return nil
	}
	if err := r.psrp.Connect(ctx); err != nil {
		return fmt.Errorf("connect to %s: %w", r.host, err)
	}
	r.connected = true
	return nil
}

// outputFromResult flattens a pipeline result into the Runner contract.
// The output and error streams carry deserialized objects; each is
// rendered to text, and pipeline errors map to exit code 1 because the
// runspace has no process exit code to report.
func outputFromResult(res *client.Result) Output {
	out := Output{
		Stdout: renderObjects(res.Output),
		Stderr: renderObjects(res.Errors),
	}
	if res.HadErrors {
		out.ExitCode = 1
	}
	return out
}

func renderObjects(objs []interface{}) string {
	lines := make([]string, 0, len(objs))
	for _, obj := range objs {
		lines = append(lines, renderObject(obj))
	}
	return strings.Join(lines, "\n")
}

// renderObject converts one deserialized pipeline object to text. Strings
// arrive with CLIXML-encoded line breaks, which are decoded here.
func renderObject(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.ReplaceAll(val, "_x000D__x000A_", "\n")
		s = strings.ReplaceAll(s, "_x000D_", "\r")
		s = strings.ReplaceAll(s, "_x000A_", "\n")
		return s
	case *serialization.PSObject:
		if val.ToString != "" {
			return val.ToString
		}
		if val.Value != nil {
			return renderObject(val.Value)
		}
		parts := make([]string, 0, len(val.Properties))
		for k, prop := range val.Properties {
			parts = append(parts, fmt.Sprintf("%s=%s", k, renderObject(prop)))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
