package cli

import (
	"context"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/ftagmgr/pkg/tagstore"
)

// LsCmd returns the ls command.
func LsCmd(s *tagstore.Store) *Command {
	return &Command{
		Flags: flag.NewFlagSet("ls", flag.ContinueOnError),
		Usage: "ls [dirs|files <dir-id>|tags]",
		Short: "List recorded rows as a table",
		Long:  "List directories (default), the files of one directory, or tags. Rows are ordered by id.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execLs(ctx, io, s, args)
		},
	}
}

func execLs(ctx context.Context, io *IO, s *tagstore.Store, args []string) error {
	if len(args) == 0 {
		args = []string{"dirs"}
	}

	action, rest, err := splitAction(args, map[string]int{"dirs": 0, "files": 1, "tags": 0})
	if err != nil {
		return err
	}

	var t *table

	switch action {
	case "dirs":
		dirs, err := s.Dirs(ctx)
		if err != nil {
			return err
		}

		t = newTable("id", "path")
		for _, d := range dirs {
			t.addRow(strconv.FormatInt(d.ID, 10), d.Path)
		}
	case "files":
		dirID, err := parseID(rest[0])
		if err != nil {
			return err
		}

		files, err := s.Files(ctx, dirID)
		if err != nil {
			return err
		}

		t = newTable("id", "dir", "name")
		for _, f := range files {
			t.addRow(strconv.FormatInt(f.ID, 10), strconv.FormatInt(f.Dir, 10), f.Name)
		}
	case "tags":
		tags, err := s.Tags(ctx)
		if err != nil {
			return err
		}

		t = newTable("id", "tag")
		for _, tag := range tags {
			t.addRow(strconv.FormatInt(tag.ID, 10), tag.Text)
		}
	}

	t.render(io.Out())

	return nil
}
