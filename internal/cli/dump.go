package cli

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/ftagmgr/pkg/tagstore"
)

// Document is the whole store as written by dump.
type Document struct {
	Directories []DirEntry `json:"directories" yaml:"directories"`
	Tags        []TagEntry `json:"tags"        yaml:"tags"`
}

// DirEntry is a directory with its files.
type DirEntry struct {
	ID    int64       `json:"id"    yaml:"id"`
	Path  string      `json:"path"  yaml:"path"`
	Files []FileEntry `json:"files" yaml:"files"`
}

// FileEntry is a file inside a [DirEntry].
type FileEntry struct {
	ID   int64  `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// TagEntry is a tag.
type TagEntry struct {
	ID  int64  `json:"id"  yaml:"id"`
	Tag string `json:"tag" yaml:"tag"`
}

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// DumpCmd returns the dump command.
func DumpCmd(s *tagstore.Store) *Command {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.StringP("format", "f", formatYAML, "Output format (yaml|json)")

	return &Command{
		Flags: fs,
		Usage: "dump [--format yaml|json]",
		Short: "Print the whole store as one document",
		Long:  "Print every directory with its files, followed by every tag, as YAML (default) or JSON.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			format, _ := fs.GetString("format")

			return execDump(ctx, io, s, format)
		},
	}
}

func execDump(ctx context.Context, io *IO, s *tagstore.Store, format string) error {
	if format != formatYAML && format != formatJSON {
		return fmt.Errorf("invalid format %q (want yaml or json)", format)
	}

	doc, err := collectDocument(ctx, s)
	if err != nil {
		return err
	}

	if format == formatJSON {
		enc := json.NewEncoder(io.Out())
		enc.SetIndent("", "  ")

		err = enc.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	}

	enc := yaml.NewEncoder(io.Out())
	enc.SetIndent(2)

	err = enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return nil
}

func collectDocument(ctx context.Context, s *tagstore.Store) (Document, error) {
	doc := Document{
		Directories: make([]DirEntry, 0),
		Tags:        make([]TagEntry, 0),
	}

	dirs, err := s.Dirs(ctx)
	if err != nil {
		return Document{}, err
	}

	for _, d := range dirs {
		files, err := s.Files(ctx, d.ID)
		if err != nil {
			return Document{}, err
		}

		entry := DirEntry{ID: d.ID, Path: d.Path, Files: make([]FileEntry, 0, len(files))}
		for _, f := range files {
			entry.Files = append(entry.Files, FileEntry{ID: f.ID, Name: f.Name})
		}

		doc.Directories = append(doc.Directories, entry)
	}

	tags, err := s.Tags(ctx)
	if err != nil {
		return Document{}, err
	}

	for _, t := range tags {
		doc.Tags = append(doc.Tags, TagEntry{ID: t.ID, Tag: t.Text})
	}

	return doc, nil
}
