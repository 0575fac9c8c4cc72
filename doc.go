// Package iispool recycles, stops and starts IIS application pools on
// local or remote Windows hosts.
//
// The module is organized as small layers:
//
//	┌──────────────────────────────────────────────────────────┐
//	│  cmd/iispool   CLI (recycle / stop / start)              │
//	├──────────────────────────────────────────────────────────┤
//	│  command/      per-record loop: normalize → confirm →    │
//	│                dispatch → act                            │
//	├──────────────────────────────────────────────────────────┤
//	│  target/       input normalization; locality/ decides    │
//	│  locality/     in-process vs remote execution            │
//	├──────────────────────────────────────────────────────────┤
//	│  pool/         lifecycle actions over a Runner:          │
//	│                powershell.exe locally, WinRM remotely    │
//	│                (via go-psrp, external)                   │
//	└──────────────────────────────────────────────────────────┘
//
// Input can be explicit flags or a stream of JSON records on stdin from a
// prior stage; loosely named record fields (Server vs ComputerName,
// ApplicationPool vs Name) are coalesced in a fixed priority order. Every
// action is gated by an interactive confirmation with a -y override for
// scripted use.
package iispool
