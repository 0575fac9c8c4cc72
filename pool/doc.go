// Package pool performs lifecycle actions against IIS application pools.
//
// The lifecycle contract is symmetric for local and remote execution: one
// Manager implementation builds WebAdministration scripts and parses their
// JSON output, and a Runner abstracts where the script actually executes.
// LocalRunner shells out to powershell.exe on the executing machine;
// RemoteRunner ships the same script to another host over WinRM.
package pool
