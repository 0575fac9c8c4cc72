package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/smnsjas/iispool/command"
	"github.com/smnsjas/iispool/internal/log"
	"github.com/smnsjas/iispool/locality"
	"github.com/smnsjas/iispool/pool"
	"github.com/smnsjas/iispool/session"
)

// Globals are flags shared by every command.
type Globals struct {
	LogLevel string `help:"Log level: debug, info, warn, error (empty = no logging)."`
	LogFile  string `help:"Write logs to this file (rotated) instead of stderr." type:"path"`
	EnvFile  string `help:"Load environment variables from this file first."`
	Config   string `help:"Path to config file (default: user config dir)." type:"path"`
}

// CLI is the kong command tree.
type CLI struct {
	Globals

	Recycle RecycleCmd `cmd:"" help:"Recycle application pools (restart worker processes)."`
	Stop    StopCmd    `cmd:"" help:"Stop application pools."`
	Start   StartCmd   `cmd:"" help:"Start application pools."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// poolFlags are the per-command flags shared by recycle, stop and start.
type poolFlags struct {
	Name         string        `arg:"" optional:"" help:"Application pool name (omit when piping records)."`
	ComputerName []string      `short:"c" sep:"," placeholder:"HOST,..." help:"Target hosts (default: local machine)."`
	Site         []string      `sep:"," help:"Associated sites, informational only (default: looked up from the pool)."`
	PassThru     bool          `help:"Return refreshed pool state as JSON on stdout."`
	Yes          bool          `short:"y" help:"Skip the confirmation prompt."`
	User         string        `help:"Username for remote hosts."`
	Password     string        `help:"Password for remote hosts (prefer IISPOOL_PASSWORD)."`
	Domain       string        `help:"Domain for NTLM authentication."`
	Port         int           `help:"WinRM port (default: 5985, or 5986 with --tls)."`
	TLS          bool          `help:"Use HTTPS for the remote channel."`
	Insecure     bool          `help:"Skip TLS certificate verification."`
	Timeout      time.Duration `help:"Remote operation timeout (default: 60s)."`
	Basic        bool          `help:"Use Basic authentication instead of NTLM."`
}

type (
	// RecycleCmd restarts pools.
	RecycleCmd struct{ poolFlags }
	// StopCmd stops pools.
	StopCmd struct{ poolFlags }
	// StartCmd starts pools.
	StartCmd struct{ poolFlags }
	// VersionCmd prints the build version.
	VersionCmd struct{}
)

func (c *RecycleCmd) Run(g *Globals) error { return run(command.ActionRecycle, c.poolFlags, g) }
func (c *StopCmd) Run(g *Globals) error    { return run(command.ActionStop, c.poolFlags, g) }
func (c *StartCmd) Run(g *Globals) error   { return run(command.ActionStart, c.poolFlags, g) }

func (c *VersionCmd) Run(*Globals) error {
	fmt.Println("iispool " + version)
	return nil
}

// run wires one invocation: session context, locality classifier, per-host
// manager factory, confirmation gate, then the command core.
func run(action command.Action, flags poolFlags, g *Globals) error {
	if g.EnvFile != "" {
		if err := godotenv.Load(g.EnvFile); err != nil {
			return fmt.Errorf("load env file %s: %w", g.EnvFile, err)
		}
	}

	var logOut io.Writer = os.Stderr
	if g.LogFile != "" {
		rot, err := log.NewRotatingWriter(g.LogFile, log.DefaultMaxLogSize, log.DefaultMaxLogBackups)
		if err != nil {
			return err
		}
		defer rot.Close()
		logOut = rot
	}
	logger := log.New(logOut, g.LogLevel)

	sess := buildSession(flags)
	configPath := g.Config
	if configPath == "" {
		configPath = session.DefaultConfigPath()
	}
	if err := sess.ApplyFile(configPath); err != nil {
		return err
	}

	classifier, err := locality.New()
	if err != nil {
		return fmt.Errorf("determine local host identity: %w", err)
	}

	pipelined := !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())

	// A user with no password gets one chance to type it, except in
	// pipeline mode where stdin carries the record stream.
	if !pipelined && sess.Credential.Username != "" && sess.Credential.Password == "" {
		pass, err := session.PromptPassword("Password: ")
		if err != nil {
			return err
		}
		sess.Credential.Password = pass
	}

	var confirm command.Confirmer
	if flags.Yes {
		confirm = command.Always()
	} else {
		confirm = &command.TTYConfirmer{}
	}

	cmd := &command.Command{
		Action:    action,
		LocalHost: classifier.Hostname(),
		Confirm:   confirm,
		Out:       os.Stdout,
		Log:       logger,
		Managers:  managerFactory(classifier, sess, logger),
	}

	ctx := context.Background()
	if pipelined {
		return cmd.RunRecords(ctx, os.Stdin, flags.PassThru)
	}
	if flags.Name == "" {
		return fmt.Errorf("pool name is required (or pipe records on stdin)")
	}
	return cmd.RunParams(ctx, command.Options{
		ComputerNames: flags.ComputerName,
		Name:          flags.Name,
		Sites:         flags.Site,
		PassThru:      flags.PassThru,
	})
}

func buildSession(flags poolFlags) session.Session {
	sess := session.Default()
	sess.Credential = session.Credential{
		Username: flags.User,
		Password: flags.Password,
		Domain:   flags.Domain,
	}
	sess.Port = flags.Port
	sess.UseTLS = flags.TLS
	sess.InsecureSkipVerify = flags.Insecure
	if flags.Timeout != 0 {
		sess.Timeout = flags.Timeout
	}
	sess.UseNTLM = !flags.Basic
	sess.ApplyEnv()
	return sess
}

// managerFactory selects the execution path per host: in-process for the
// local machine, the WinRM channel (with the session credential attached)
// for everything else.
func managerFactory(classifier *locality.Classifier, sess session.Session, logger *slog.Logger) command.ManagerFactory {
	return func(host string) (pool.Manager, error) {
		if classifier.IsLocal(host) {
			logger.Debug("using local execution", "host", host)
			return pool.NewManager(host, &pool.LocalRunner{}, logger), nil
		}

		if err := sess.Credential.Validate(); err != nil {
			return nil, fmt.Errorf("remote host %s: %w", host, err)
		}
		cfg := pool.DefaultRemoteConfig()
		cfg.Username = sess.Credential.Username
		cfg.Password = sess.Credential.Password
		cfg.Domain = sess.Credential.Domain
		cfg.UseTLS = sess.UseTLS
		cfg.InsecureSkipVerify = sess.InsecureSkipVerify
		cfg.UseNTLM = sess.UseNTLM
		if sess.Port != 0 {
			cfg.Port = sess.Port
		} else if sess.UseTLS {
			cfg.Port = 5986
		}
		if sess.Timeout != 0 {
			cfg.Timeout = sess.Timeout
		}

		logger.Debug("using remote execution", "host", host, "port", cfg.Port, "tls", cfg.UseTLS)
		runner, err := pool.NewRemoteRunner(host, cfg)
		if err != nil {
			return nil, err
		}
		return pool.NewManager(host, runner, logger), nil
	}
}
