// Command iispool recycles, stops and starts IIS application pools on
// local or remote Windows hosts.
//
// Remote hosts are reached over WinRM. Credentials can be provided via:
//   - --user / --password flags (least secure, visible in process list)
//   - IISPOOL_USER / IISPOOL_PASSWORD environment variables
//   - an env file (--env-file)
//   - stdin prompt (if a user is set and no password was found)
//
// Usage:
//
//	# Recycle a pool on two hosts, returning refreshed state
//	iispool recycle DefaultAppPool -c web01,web02 --passthru
//
//	# Stop pools named by a prior stage (JSON records on stdin)
//	some-inventory-tool | iispool stop -y
//
//	# Local machine, no credentials needed
//	iispool recycle DefaultAppPool
package main

import (
	"github.com/alecthomas/kong"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("iispool"),
		kong.Description("Recycle, stop and start IIS application pools on local or remote hosts."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
