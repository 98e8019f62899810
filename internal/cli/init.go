package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/ftagmgr/internal/config"
	"github.com/calvinalkan/ftagmgr/pkg/tagstore"
)

// InitCmd returns the init command.
func InitCmd(cfg *config.Config, s *tagstore.Store) *Command {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.Bool("write-config", false, "Also write "+config.FileName+" pointing at the store")

	return &Command{
		Flags: fs,
		Usage: "init [--write-config]",
		Short: "Create a new store",
		Long: `Create a new store with empty directory, file and tag tables.

Fails with a warning if anything already exists at the store path; the
existing file is left untouched.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			writeConfig, _ := fs.GetBool("write-config")

			return execInit(ctx, io, cfg, s, writeConfig)
		},
	}
}

func execInit(ctx context.Context, io *IO, cfg *config.Config, s *tagstore.Store, writeConfig bool) error {
	err := s.CreateSchema(ctx)

	switch {
	case errors.Is(err, tagstore.ErrStoreExists):
		io.Warn("store already exists at "+s.Path(), "use it as is, or pass --db to create another")
	case err != nil:
		return err
	default:
		io.Success("created " + s.Path())
	}

	if !writeConfig {
		return nil
	}

	saved := config.Default()
	saved.DBPath = cfg.DBPath
	saved.LockTimeout = cfg.LockTimeout

	path, err := config.SaveProject(cfg.EffectiveCwd, saved)
	if err != nil {
		return err
	}

	io.Success("wrote " + path)

	return nil
}
