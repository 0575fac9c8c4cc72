package pool

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// manager implements Manager over any Runner. The same implementation
// serves local and remote execution; only the Runner differs.
type manager struct {
	host string
	run  Runner
	log  *slog.Logger
}

// NewManager builds a Manager that executes against host through r. The
// host is used for labeling state records and errors; picking a Runner that
// actually reaches that host is the dispatcher's job. A nil logger
// disables logging.
func NewManager(host string, r Runner, logger *slog.Logger) Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &manager{host: host, run: r, log: logger}
}

// Recycle implements Manager.
func (m *manager) Recycle(ctx context.Context, name string) error {
	m.log.Debug("recycling pool", "host", m.host, "pool", name)
	_, err := m.exec(ctx, "recycle", name, recycleScript(name))
	return err
}

// Start implements Manager.
func (m *manager) Start(ctx context.Context, name string) error {
	m.log.Debug("starting pool", "host", m.host, "pool", name)
	_, err := m.exec(ctx, "start", name, startScript(name))
	return err
}

// Stop implements Manager. Action-level failures are suppressed here; only
// channel errors propagate.
func (m *manager) Stop(ctx context.Context, name string, passThru bool) (*State, error) {
	m.log.Debug("stopping pool", "host", m.host, "pool", name, "passthru", passThru)
	out, err := m.run.Run(ctx, stopScript(name, passThru))
	if err != nil {
		return nil, fmt.Errorf("stop pool %q on %s: %w", name, m.host, err)
	}
	if out.ExitCode != 0 {
		m.log.Debug("stop reported failure, suppressed",
			"host", m.host, "pool", name, "exit_code", out.ExitCode)
		return nil, nil
	}
	if !passThru {
		return nil, nil
	}
	return decodeState(m.host, out.Stdout)
}

// Query implements Manager.
func (m *manager) Query(ctx context.Context, name, stateFilter string) (*State, error) {
	out, err := m.exec(ctx, "query", name, queryScript(name, stateFilter))
	if err != nil {
		return nil, err
	}
	return decodeState(m.host, out.Stdout)
}

// Lookup implements Manager.
func (m *manager) Lookup(ctx context.Context, name string) ([]string, error) {
	out, err := m.exec(ctx, "lookup", name, lookupScript(name))
	if err != nil {
		return nil, err
	}
	return decodeSites(out.Stdout)
}

// Close implements Manager.
func (m *manager) Close(ctx context.Context) error {
	return m.run.Close(ctx)
}

func (m *manager) exec(ctx context.Context, op, name, script string) (Output, error) {
	out, err := m.run.Run(ctx, script)
	if err != nil {
		return out, fmt.Errorf("%s pool %q on %s: %w", op, name, m.host, err)
	}
	if out.ExitCode != 0 {
		return out, &ActionError{
			Op:       op,
			Pool:     name,
			Host:     m.host,
			ExitCode: out.ExitCode,
			Stderr:   strings.TrimSpace(out.Stderr),
		}
	}
	return out, nil
}
