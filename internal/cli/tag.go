package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/ftagmgr/pkg/tagstore"
)

// TagCmd returns the tag command.
func TagCmd(s *tagstore.Store) *Command {
	return &Command{
		Flags: flag.NewFlagSet("tag", flag.ContinueOnError),
		Usage: "tag <exists|add|id|value> <arg>",
		Short: "Query or record tags",
		Long: `Query or record tags.

  tag exists <tag>   Print "exists" or "absent"
  tag add <tag>      Record tag and print its id
  tag id <tag>       Print the id recorded for tag
  tag value <id>     Print the tag recorded under id`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execTag(ctx, io, s, args)
		},
	}
}

func execTag(ctx context.Context, io *IO, s *tagstore.Store, args []string) error {
	action, rest, err := splitAction(args, map[string]int{"exists": 1, "add": 1, "id": 1, "value": 1})
	if err != nil {
		return err
	}

	switch action {
	case "exists":
		exists, err := s.TagExists(ctx, rest[0])
		if err != nil {
			return err
		}

		printExists(io, exists)
	case "add":
		id, err := s.AddTag(ctx, rest[0])
		if err != nil {
			return err
		}

		io.Println(id)
	case "id":
		id, err := s.TagID(ctx, rest[0])
		if err != nil {
			return err
		}

		io.Println(id)
	case "value":
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}

		value, err := s.TagValue(ctx, id)
		if err != nil {
			return err
		}

		io.Println(value)
	}

	return nil
}
