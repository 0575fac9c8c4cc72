// Package locality classifies host identifiers as the executing machine or
// a remote host. Classification is pure: the executing machine's identity is
// captured once when the Classifier is built, and Classify has no side
// effects after that.
package locality

import (
	"os"
	"strings"
)

// Class is the result of classifying a host identifier.
type Class int

const (
	// Local means the host is the executing machine itself.
	Local Class = iota
	// Remote means the host must be reached over the remote channel.
	Remote
)

// String returns the class name.
func (c Class) String() string {
	if c == Local {
		return "local"
	}
	return "remote"
}

// Loopback aliases always treated as the executing machine, regardless of
// its actual hostname.
var loopbackAliases = map[string]struct{}{
	"":          {},
	".":         {},
	"localhost": {},
	"127.0.0.1": {},
	"::1":       {},
}

// Classifier decides whether a host identifier names the executing machine.
type Classifier struct {
	hostname string
	names    map[string]struct{}
}

// New builds a Classifier from the executing machine's hostname.
func New() (*Classifier, error) {
	name, err := os.Hostname()
	if err != nil {
		return nil, err
	}
	return NewForHost(name), nil
}

// NewForHost builds a Classifier for an explicit machine name. Used by New
// and by tests that need deterministic identity.
func NewForHost(hostname string) *Classifier {
	c := &Classifier{
		hostname: hostname,
		names:    make(map[string]struct{}),
	}
	lower := canonical(hostname)
	c.names[lower] = struct{}{}
	// A machine known by FQDN also answers to its short name.
	if short, _, ok := strings.Cut(lower, "."); ok {
		c.names[short] = struct{}{}
	}
	return c
}

// Hostname returns the identity the Classifier was built from.
func (c *Classifier) Hostname() string {
	return c.hostname
}

// Classify reports whether host names the executing machine. Matching is
// case-insensitive; a fully qualified form of the local short name is still
// local.
func (c *Classifier) Classify(host string) Class {
	h := canonical(host)
	if _, ok := loopbackAliases[h]; ok {
		return Local
	}
	if _, ok := c.names[h]; ok {
		return Local
	}
	if short, _, ok := strings.Cut(h, "."); ok {
		if _, match := c.names[short]; match {
			return Local
		}
	}
	return Remote
}

// IsLocal is a convenience wrapper around Classify.
func (c *Classifier) IsLocal(host string) bool {
	return c.Classify(host) == Local
}

func canonical(host string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
}
