// Package command implements the recycle, stop and start commands. Each
// processes a stream of pool targets one at a time: normalize the input,
// confirm, pick the execution path for the resolved host, act. Failures
// stay local to one record; the stream keeps going.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/smnsjas/iispool/pool"
	"github.com/smnsjas/iispool/target"
)

// Action selects the lifecycle operation a Command performs.
type Action int

const (
	// ActionRecycle restarts the pool's worker process.
	ActionRecycle Action = iota
	// ActionStop stops the pool.
	ActionStop
	// ActionStart starts the pool.
	ActionStart
)

// String returns the action's lower-case name.
func (a Action) String() string {
	switch a {
	case ActionRecycle:
		return "recycle"
	case ActionStop:
		return "stop"
	case ActionStart:
		return "start"
	default:
		return "unknown"
	}
}

func (a Action) verb() string {
	switch a {
	case ActionRecycle:
		return "Recycle"
	case ActionStop:
		return "Stop"
	case ActionStart:
		return "Start"
	default:
		return "Run"
	}
}

// ManagerFactory builds the lifecycle Manager for one host. The locality
// decision (in-process vs remote channel, credential attachment) lives
// behind the factory; the command only ever sees the uniform contract.
type ManagerFactory func(host string) (pool.Manager, error)

// Confirmer gates destructive actions.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// Options are the explicit parameters for one invocation.
type Options struct {
	// ComputerNames lists target hosts, processed in order. Empty means
	// the local machine.
	ComputerNames []string

	// Name is the application pool to act on.
	Name string

	// Sites overrides the informational site list. When empty it is
	// backfilled from the pool's current bindings.
	Sites []string

	// PassThru requests refreshed pool state on stdout.
	PassThru bool
}

// Result is the per-record output record. Recycle and start failures
// arrive here as data rather than aborting the stream.
type Result struct {
	OperationID  string   `json:"OperationId"`
	Operation    string   `json:"Operation"`
	ComputerName string   `json:"ComputerName"`
	Name         string   `json:"Name"`
	State        string   `json:"State,omitempty"`
	Sites        []string `json:"Sites,omitempty"`
	Error        string   `json:"Error,omitempty"`
}

// Command executes one lifecycle action over a stream of pool targets.
type Command struct {
	// Action is the lifecycle operation.
	Action Action

	// Managers builds the per-host lifecycle Manager.
	Managers ManagerFactory

	// LocalHost is the identifier substituted when input names no host.
	LocalHost string

	// Confirm gates every action. Required.
	Confirm Confirmer

	// Out receives pass-through and error records as JSON lines. Required.
	Out io.Writer

	// Log receives progress and suppressed-failure diagnostics. Nil
	// disables logging.
	Log *slog.Logger

	// newID is overridable for tests.
	newID func() string
}

func (c *Command) logger() *slog.Logger {
	if c.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Log
}

func (c *Command) operationID() string {
	if c.newID != nil {
		return c.newID()
	}
	return uuid.NewString()
}

// managers caches one Manager per host for the duration of a run, so a
// stream with repeated hosts reuses its channel.
type managers struct {
	factory ManagerFactory
	open    map[string]pool.Manager
}

func newManagers(factory ManagerFactory) *managers {
	return &managers{factory: factory, open: make(map[string]pool.Manager)}
}

func (ms *managers) get(host string) (pool.Manager, error) {
	key := strings.ToLower(host)
	if m, ok := ms.open[key]; ok {
		return m, nil
	}
	m, err := ms.factory(host)
	if err != nil {
		return nil, err
	}
	ms.open[key] = m
	return m, nil
}

func (ms *managers) closeAll(ctx context.Context, log *slog.Logger) {
	for host, m := range ms.open {
		if err := m.Close(ctx); err != nil {
			log.Warn("closing channel failed", "host", host, "error", err)
		}
	}
}

// RunParams executes the action for each host named in opts.
func (c *Command) RunParams(ctx context.Context, opts Options) error {
	hosts := opts.ComputerNames
	if len(hosts) == 0 {
		hosts = []string{c.LocalHost}
	}

	ms := newManagers(c.Managers)
	defer ms.closeAll(ctx, c.logger())

	for _, host := range hosts {
		// The manager is selected by the resolved host identity, the same
		// one the normalizer will produce.
		resolved := host
		if resolved == "" {
			resolved = c.LocalHost
		}
		resolved = strings.ToUpper(resolved)

		m, err := ms.get(resolved)
		if err != nil {
			c.logger().Error("record skipped", "host", resolved, "error", err)
			continue
		}

		t, err := target.FromParams(ctx, target.Params{
			ComputerName: host,
			Name:         opts.Name,
			Sites:        opts.Sites,
		}, managerLookup{m}, c.LocalHost)
		if err != nil {
			// Backfill is informational only; the action proceeds.
			c.logger().Warn("site backfill failed", "host", host, "error", err)
		}

		if err := c.process(ctx, m, t, opts.PassThru); err != nil {
			c.logger().Error("record failed", "host", t.ComputerName, "pool", t.Name, "error", err)
		}
	}
	return nil
}

// RunRecords executes the action for each pipeline record read from in,
// one JSON object per line. Record fields pass through the normalizer
// unmodified; a record without a host targets the local machine.
func (c *Command) RunRecords(ctx context.Context, in io.Reader, passThru bool) error {
	ms := newManagers(c.Managers)
	defer ms.closeAll(ctx, c.logger())

	dec := json.NewDecoder(in)
	for {
		var rec target.Record
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decode pipeline record: %w", err)
		}

		t := target.FromRecord(rec, c.LocalHost)
		m, err := ms.get(t.ComputerName)
		if err != nil {
			c.logger().Error("record skipped", "host", t.ComputerName, "pool", t.Name, "error", err)
			continue
		}
		if err := c.process(ctx, m, t, passThru); err != nil {
			c.logger().Error("record failed", "host", t.ComputerName, "pool", t.Name, "error", err)
		}
	}
}

// process confirms and executes one resolved target. A declined
// confirmation means no lifecycle call and no output for that record.
func (c *Command) process(ctx context.Context, m pool.Manager, t target.PoolTarget, passThru bool) error {
	ok, err := c.Confirm.Confirm(confirmPrompt(c.Action, t))
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		c.logger().Info("declined", "host", t.ComputerName, "pool", t.Name)
		return nil
	}

	opID := c.operationID()
	log := c.logger().With("operation_id", opID, "host", t.ComputerName, "pool", t.Name)

	switch c.Action {
	case ActionStop:
		st, err := m.Stop(ctx, t.Name, passThru)
		if err != nil {
			return err
		}
		if passThru && st != nil {
			c.emit(Result{
				OperationID:  opID,
				Operation:    c.Action.String(),
				ComputerName: st.ComputerName,
				Name:         st.Name,
				State:        st.State,
				Sites:        t.Sites,
			})
		}
		log.Info("pool stopped")
		return nil

	case ActionRecycle, ActionStart:
		var actErr error
		if c.Action == ActionStart {
			actErr = m.Start(ctx, t.Name)
		} else {
			actErr = m.Recycle(ctx, t.Name)
		}
		if actErr != nil {
			// Emitted as data so the stream keeps going.
			log.Warn("action failed", "error", actErr)
			c.emit(Result{
				OperationID:  opID,
				Operation:    c.Action.String(),
				ComputerName: t.ComputerName,
				Name:         t.Name,
				Sites:        t.Sites,
				Error:        actErr.Error(),
			})
			return nil
		}
		log.Info(c.Action.String() + " complete")

		if !passThru {
			return nil
		}
		st, err := m.Query(ctx, t.Name, pool.StateStarted)
		if err != nil {
			log.Warn("state query failed", "error", err)
			c.emit(Result{
				OperationID:  opID,
				Operation:    c.Action.String(),
				ComputerName: t.ComputerName,
				Name:         t.Name,
				Sites:        t.Sites,
				Error:        err.Error(),
			})
			return nil
		}
		if st != nil {
			c.emit(Result{
				OperationID:  opID,
				Operation:    c.Action.String(),
				ComputerName: st.ComputerName,
				Name:         st.Name,
				State:        st.State,
				Sites:        t.Sites,
			})
		}
		return nil

	default:
		return fmt.Errorf("unknown action %d", c.Action)
	}
}

func (c *Command) emit(r Result) {
	if err := json.NewEncoder(c.Out).Encode(r); err != nil {
		c.logger().Error("emit result", "error", err)
	}
}

// confirmPrompt presents the host, pool name and associated sites.
func confirmPrompt(a Action, t target.PoolTarget) string {
	prompt := fmt.Sprintf("%s application pool %q on %s", a.verb(), t.Name, t.ComputerName)
	if len(t.Sites) > 0 {
		prompt += fmt.Sprintf(" (sites: %s)", strings.Join(t.Sites, ", "))
	}
	return prompt + "?"
}

// managerLookup adapts a pool.Manager to the normalizer's Lookup contract.
type managerLookup struct {
	m pool.Manager
}

func (l managerLookup) Lookup(ctx context.Context, name string) ([]string, error) {
	return l.m.Lookup(ctx, name)
}
