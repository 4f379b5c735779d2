package cmd

import (
	"log"
	"os"
	"sync"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
	config "github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/pkg/credman"
	"github.com/warpdl/warpjar/pkg/credman/keyring"
	"github.com/warpdl/warpjar/pkg/jar"
	"github.com/warpdl/warpjar/pkg/logger"
	"golang.org/x/net/publicsuffix"
)

var (
	appFs = afero.NewOsFs()

	keySources = func(dir string) []keyring.KeySource {
		return []keyring.KeySource{keyring.NewKeyring(), keyring.NewFileKeyStore(appFs, dir)}
	}
)

// session is a vault-backed jar opened for one command.
type session struct {
	store *jar.Store
	vault *credman.Vault
	log   logger.Logger

	mu      sync.Mutex
	changes []jar.Change
}

// jarOpts tunes how getJar opens a session. A nil *jarOpts opens a quiet
// session that logs to stderr and records nothing.
type jarOpts struct {
	// track keeps every change after the load for stored(). Only
	// short-lived commands should set it: the list is never trimmed.
	track bool
	// notify, if set, sees every change after the load.
	notify func(jar.Change)
	// log replaces the default stderr logger.
	log logger.Logger
}

func newLogger() *logger.StandardLogger {
	l := logger.NewStandardLogger(log.New(os.Stderr, "", 0))
	l.SetDebug(config.DebugEnabled())
	return l
}

// getJar opens the vault and loads it into a fresh store. Errors are printed
// before they are returned.
func getJar(ctx *cli.Context, cmd string, opts *jarOpts) (*session, error) {
	if opts == nil {
		opts = &jarOpts{}
	}
	dir, err := config.ConfigDir()
	if err != nil {
		common.PrintRuntimeErr(ctx, cmd, "config_dir", err)
		return nil, err
	}
	key, err := keyring.Resolve(os.Getenv(config.VaultKeyEnv), keySources(dir)...)
	if err != nil {
		common.PrintRuntimeErr(ctx, cmd, "vault_key", err)
		return nil, err
	}
	vault, err := credman.NewVault(appFs, dir, key)
	if err != nil {
		common.PrintRuntimeErr(ctx, cmd, "vault", err)
		return nil, err
	}

	s := &session{vault: vault, log: opts.log}
	if s.log == nil {
		s.log = newLogger()
	}
	loading := true
	s.store = jar.New(&jar.Options{
		Logger:           s.log,
		PublicSuffixList: publicsuffix.List,
		OnChange: func(c jar.Change) {
			if loading {
				return
			}
			if opts.track {
				s.mu.Lock()
				s.changes = append(s.changes, c)
				s.mu.Unlock()
			}
			if opts.notify != nil {
				opts.notify(c)
			}
		},
	})
	n, err := vault.LoadInto(s.store)
	loading = false
	if err != nil {
		common.PrintRuntimeErr(ctx, cmd, "load_vault", err)
		return nil, err
	}
	s.log.Debug("loaded %d cookies from %s", n, vault.Path())
	return s, nil
}

// stored returns the records stored since the vault was loaded. It is
// always empty unless the session was opened with track set.
func (s *session) stored() []jar.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []jar.Change
	for _, c := range s.changes {
		if c.Kind == jar.ChangeStored {
			out = append(out, c)
		}
	}
	return out
}

func (s *session) save(ctx *cli.Context, cmd string) error {
	if err := s.vault.SaveFrom(s.store); err != nil {
		common.PrintRuntimeErr(ctx, cmd, "save_vault", err)
		return err
	}
	return nil
}
