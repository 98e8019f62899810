package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/ftagmgr/pkg/tagstore"
)

// FileCmd returns the file command.
func FileCmd(s *tagstore.Store) *Command {
	return &Command{
		Flags: flag.NewFlagSet("file", flag.ContinueOnError),
		Usage: "file <exists|add|id|name> <args>",
		Short: "Query or record files inside a directory",
		Long: `Query or record files. Files are scoped to a directory id.

  file exists <dir-id> <name>   Print "exists" or "absent"
  file add <dir-id> <name>      Record name and print its id
  file id <dir-id> <name>       Print the id recorded for name
  file name <id>                Print the name recorded under id`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execFile(ctx, io, s, args)
		},
	}
}

func execFile(ctx context.Context, io *IO, s *tagstore.Store, args []string) error {
	action, rest, err := splitAction(args, map[string]int{"exists": 2, "add": 2, "id": 2, "name": 1})
	if err != nil {
		return err
	}

	if action == "name" {
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}

		name, err := s.FileName(ctx, id)
		if err != nil {
			return err
		}

		io.Println(name)

		return nil
	}

	dirID, err := parseID(rest[0])
	if err != nil {
		return err
	}

	name := rest[1]

	switch action {
	case "exists":
		exists, err := s.FileExists(ctx, dirID, name)
		if err != nil {
			return err
		}

		printExists(io, exists)
	case "add":
		id, err := s.AddFile(ctx, dirID, name)
		if err != nil {
			return err
		}

		io.Println(id)
	case "id":
		id, err := s.FileID(ctx, dirID, name)
		if err != nil {
			return err
		}

		io.Println(id)
	}

	return nil
}
