package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/ftagmgr/pkg/tagstore"
)

// DemoCmd returns the demo command.
func DemoCmd(a *app) *Command {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.Bool("metrics", false, "Print store metrics after the run")
	fs.Bool("keep", false, "Keep the scratch store and print its path")

	return &Command{
		Flags: fs,
		Usage: "demo [--metrics] [--keep]",
		Short: "Exercise every store operation on a scratch store",
		Long: `Create a scratch store in a temporary directory, then run every
directory, file and tag operation against it and print each outcome.
The configured store is not touched.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			withMetrics, _ := fs.GetBool("metrics")
			keep, _ := fs.GetBool("keep")

			return execDemo(ctx, io, a, withMetrics, keep)
		},
	}
}

// demoStep runs one operation and describes its outcome. Expected failures
// like ErrExists are part of the description; anything else aborts the demo.
type demoStep struct {
	name string
	run  func(ctx context.Context) (string, error)
}

func execDemo(ctx context.Context, io *IO, a *app, withMetrics bool, keep bool) error {
	dir, err := os.MkdirTemp("", "ftag-demo-")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}

	if keep {
		io.Println("scratch store:", filepath.Join(dir, "demo.db"))
	} else {
		defer func() { _ = os.RemoveAll(dir) }()
	}

	s, err := a.openStore(filepath.Join(dir, "demo.db"))
	if err != nil {
		return err
	}

	for _, step := range demoSteps(s) {
		outcome, err := step.run(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}

		io.Printf("%-28s %s\n", step.name, outcome)
	}

	if withMetrics {
		io.Println()

		return writeMetrics(io.Out(), a.registry)
	}

	return nil
}

//nolint:funlen // one closure per operation reads better than a lookup table
func demoSteps(s *tagstore.Store) []demoStep {
	const (
		dirPath  = "/tmp/test"
		fileName = "test.cpp"
		tagText  = "sketch"
	)

	var dirID, fileID, tagID int64

	return []demoStep{
		{"create schema", func(ctx context.Context) (string, error) {
			return describe("created", s.CreateSchema(ctx))
		}},
		{"create schema again", func(ctx context.Context) (string, error) {
			return describe("created", s.CreateSchema(ctx))
		}},
		{"dir exists " + dirPath, func(ctx context.Context) (string, error) {
			return describeExists(s.DirExists(ctx, dirPath))
		}},
		{"dir add " + dirPath, func(ctx context.Context) (string, error) {
			var err error

			dirID, err = s.AddDir(ctx, dirPath)

			return describe("id "+strconv.FormatInt(dirID, 10), err)
		}},
		{"dir exists " + dirPath, func(ctx context.Context) (string, error) {
			return describeExists(s.DirExists(ctx, dirPath))
		}},
		{"dir id " + dirPath, func(ctx context.Context) (string, error) {
			id, err := s.DirID(ctx, dirPath)

			return describe(strconv.FormatInt(id, 10), err)
		}},
		{"dir path", func(ctx context.Context) (string, error) {
			path, err := s.DirPath(ctx, dirID)

			return describe(path, err)
		}},
		{"dir add " + dirPath, func(ctx context.Context) (string, error) {
			_, err := s.AddDir(ctx, dirPath)

			return describe("added", err)
		}},
		{"file exists " + fileName, func(ctx context.Context) (string, error) {
			return describeExists(s.FileExists(ctx, dirID, fileName))
		}},
		{"file add " + fileName, func(ctx context.Context) (string, error) {
			var err error

			fileID, err = s.AddFile(ctx, dirID, fileName)

			return describe("id "+strconv.FormatInt(fileID, 10), err)
		}},
		{"file exists " + fileName, func(ctx context.Context) (string, error) {
			return describeExists(s.FileExists(ctx, dirID, fileName))
		}},
		{"file id " + fileName, func(ctx context.Context) (string, error) {
			id, err := s.FileID(ctx, dirID, fileName)

			return describe(strconv.FormatInt(id, 10), err)
		}},
		{"file name", func(ctx context.Context) (string, error) {
			name, err := s.FileName(ctx, fileID)

			return describe(name, err)
		}},
		{"tag exists " + tagText, func(ctx context.Context) (string, error) {
			return describeExists(s.TagExists(ctx, tagText))
		}},
		{"tag add " + tagText, func(ctx context.Context) (string, error) {
			id, err := s.AddTag(ctx, tagText)

			return describe("id "+strconv.FormatInt(id, 10), err)
		}},
		{"tag exists " + tagText, func(ctx context.Context) (string, error) {
			return describeExists(s.TagExists(ctx, tagText))
		}},
		{"tag id " + tagText, func(ctx context.Context) (string, error) {
			var err error

			tagID, err = s.TagID(ctx, tagText)

			return describe(strconv.FormatInt(tagID, 10), err)
		}},
		{"tag value", func(ctx context.Context) (string, error) {
			value, err := s.TagValue(ctx, tagID)

			return describe(value, err)
		}},
		{"tag id missing", func(ctx context.Context) (string, error) {
			id, err := s.TagID(ctx, "missing")

			return describe(strconv.FormatInt(id, 10), err)
		}},
	}
}

// describe turns the precondition sentinels into text and passes engine
// failures through.
func describe(ok string, err error) (string, error) {
	switch {
	case err == nil:
		return ok, nil
	case errors.Is(err, tagstore.ErrStoreExists):
		return "store already exists", nil
	case errors.Is(err, tagstore.ErrExists):
		return "already exists", nil
	case errors.Is(err, tagstore.ErrNotFound):
		return "not found", nil
	default:
		return "", err
	}
}

func describeExists(exists bool, err error) (string, error) {
	if err != nil {
		return "", err
	}

	if exists {
		return "exists", nil
	}

	return "absent", nil
}
