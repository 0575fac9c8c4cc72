package pool

import (
	"context"
)

// State is the refreshed state record for one application pool.
type State struct {
	// ComputerName is the host the state was read from.
	ComputerName string `json:"ComputerName"`

	// Name is the application pool name.
	Name string `json:"Name"`

	// State is the pool condition as IIS reports it ("Started", "Stopped",
	// "Starting", "Stopping").
	State string `json:"State"`
}

// StateStarted is the pool condition used when filtering pass-through
// output after a recycle.
const StateStarted = "Started"

// Manager is the pool-lifecycle collaborator contract. Local and remote
// execution share it; the caller never needs to know which one it holds.
type Manager interface {
	// Recycle restarts the named pool's worker process without touching
	// site bindings.
	Recycle(ctx context.Context, name string) error

	// Start starts the named pool.
	Start(ctx context.Context, name string) error

	// Stop stops the named pool. Action-level failures are suppressed at
	// the source: a stop that fails returns no error and, with passThru
	// set, no state. With passThru set and a successful stop, the stop
	// call's own pass-through state is returned.
	Stop(ctx context.Context, name string, passThru bool) (*State, error)

	// Query returns the pool's current state, or nil when the pool does
	// not match stateFilter (empty filter matches any state).
	Query(ctx context.Context, name, stateFilter string) (*State, error)

	// Lookup returns the names of sites currently bound to the pool.
	Lookup(ctx context.Context, name string) ([]string, error)

	// Close releases the underlying execution channel.
	Close(ctx context.Context) error
}
