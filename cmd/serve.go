package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
	config "github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/internal/scheduler"
	"github.com/warpdl/warpjar/internal/server"
	"github.com/warpdl/warpjar/pkg/jar"
	"github.com/warpdl/warpjar/pkg/logger"
)

const maintenanceJob = "maintenance"

var (
	port        int
	secret      string
	listenAll   bool
	maintenance string
	logFile     string

	serveFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "port, p",
			Usage:       "TCP port to listen on",
			Value:       DEF_PORT,
			EnvVar:      config.RPCPortEnv,
			Destination: &port,
		},
		cli.StringFlag{
			Name:        "secret",
			Usage:       "bearer token required by every RPC request",
			EnvVar:      config.RPCSecretEnv,
			Destination: &secret,
		},
		cli.BoolFlag{
			Name:        "listen-all",
			Usage:       "listen on every interface instead of 127.0.0.1 (default: false)",
			Destination: &listenAll,
		},
		cli.StringFlag{
			Name:        "maintenance",
			Usage:       "cron expression for evicting expired cookies and saving the vault (empty = off)",
			Value:       "*/5 * * * *",
			Destination: &maintenance,
		},
		cli.StringFlag{
			Name:        "log-file",
			Usage:       "also append daemon logs to this file",
			Destination: &logFile,
		},
	}
)

// setupShutdownHandler returns a context canceled on SIGTERM or SIGINT.
var setupShutdownHandler = func() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func serve(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return common.Help(ctx)
	}
	if secret == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no rpc secret provided, use --secret or "+config.RPCSecretEnv))
	}

	l, closeLog, err := serveLogger(logFile)
	if err != nil {
		common.PrintRuntimeErr(ctx, "serve", "log_file", err)
		return nil
	}
	defer closeLog()

	notifier := server.NewNotifier(l)
	s, err := getJar(ctx, "serve", serveJarOpts(notifier.CookieChanged, l))
	if err != nil {
		return nil
	}
	rpc := server.NewRPCServer(&server.RPCConfig{
		Secret:  secret,
		Version: buildInfo.Version,
		Commit:  buildInfo.Commit,
	}, s.store, s.vault, notifier, s.log)
	srv := server.NewServer(rpc, port, listenAll, s.log)

	sctx, cancel := setupShutdownHandler()
	defer cancel()

	if maintenance != "" {
		sched := scheduler.New(sctx, func(string) { s.maintain() })
		if err := sched.AddCron(maintenanceJob, maintenance); err != nil {
			rpc.Close()
			return common.PrintErrWithCmdHelp(ctx, err)
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err = <-errCh:
	case <-sctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		err = srv.Shutdown(shutdownCtx)
		cancelShutdown()
	}
	rpc.Close()
	if err != nil {
		common.PrintRuntimeErr(ctx, "serve", "listen", err)
	}
	if s.save(ctx, "serve") == nil {
		fmt.Printf("%s: vault saved to %s\n", ctx.App.HelpName, s.vault.Path())
	}
	return nil
}

// serveLogger returns the daemon's logger: stderr, plus path when it is set.
// The returned func closes the log file.
func serveLogger(path string) (logger.Logger, func(), error) {
	console := newLogger()
	if path == "" {
		return console, func() {}, nil
	}
	f, err := appFs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}
	file := logger.NewStandardLogger(log.New(f, "", log.LstdFlags))
	file.SetDebug(config.DebugEnabled())
	return logger.NewMultiLogger(console, file), func() { f.Close() }, nil
}

// serveJarOpts opens the daemon's jar. Changes are pushed to notify and
// not kept: the daemon runs until stopped and nothing reads them back.
func serveJarOpts(notify func(jar.Change), l logger.Logger) *jarOpts {
	return &jarOpts{notify: notify, log: l}
}

// maintain evicts expired cookies and saves the vault.
func (s *session) maintain() {
	n := s.store.RemoveExpired()
	if err := s.vault.SaveFrom(s.store); err != nil {
		s.log.Error("periodic vault save failed: %v", err)
		return
	}
	s.log.Debug("maintenance: evicted %d expired cookie(s), vault saved", n)
}
