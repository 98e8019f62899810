package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/ftagmgr/pkg/tagstore"
)

// DirCmd returns the dir command.
func DirCmd(s *tagstore.Store) *Command {
	return &Command{
		Flags: flag.NewFlagSet("dir", flag.ContinueOnError),
		Usage: "dir <exists|add|id|path> <arg>",
		Short: "Query or record directories",
		Long: `Query or record directories.

  dir exists <path>   Print "exists" or "absent"
  dir add <path>      Record path and print its id
  dir id <path>       Print the id recorded for path
  dir path <id>       Print the path recorded under id`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execDir(ctx, io, s, args)
		},
	}
}

func execDir(ctx context.Context, io *IO, s *tagstore.Store, args []string) error {
	action, rest, err := splitAction(args, map[string]int{"exists": 1, "add": 1, "id": 1, "path": 1})
	if err != nil {
		return err
	}

	switch action {
	case "exists":
		exists, err := s.DirExists(ctx, rest[0])
		if err != nil {
			return err
		}

		printExists(io, exists)
	case "add":
		id, err := s.AddDir(ctx, rest[0])
		if err != nil {
			return err
		}

		io.Println(id)
	case "id":
		id, err := s.DirID(ctx, rest[0])
		if err != nil {
			return err
		}

		io.Println(id)
	case "path":
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}

		path, err := s.DirPath(ctx, id)
		if err != nil {
			return err
		}

		io.Println(path)
	}

	return nil
}
