package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fwinventory/internal/codec"
	"fwinventory/internal/config"
	"fwinventory/internal/repository"
	"fwinventory/internal/service"
	"fwinventory/internal/watcher"
)

func (a *app) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date: %s\n", a.cfg.Database.Path)
			return nil
		},
	}
}

func (a *app) newImportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load an inventory document; nothing is stored if any entry fails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = codec.FormatFromPath(args[0])
			}
			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			doc, err := parseFile(c, args[0])
			if err != nil {
				return err
			}

			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			bus := service.NewEventBus()
			events := make(chan service.Event, 1)
			bus.Subscribe(events)

			svc := service.NewInventoryService(repo, bus, a.logger)
			stats, err := svc.Import(cmd.Context(), doc)
			if err != nil {
				a.logger.Error("import failed", "file", args[0], "error", err)
				return err
			}
			select {
			case ev := <-events:
				a.logger.Debug("event", "type", ev.Type)
			default:
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d entities from %s\n", stats.Entities(), args[0])
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Input format: yaml or json (default: from file extension)")
	return cmd
}

func (a *app) newCheckCmd() *cobra.Command {
	var (
		format string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a document against the database without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = codec.FormatFromPath(path)
			}
			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			svc := service.NewInventoryService(repo, nil, a.logger)
			out := cmd.OutOrStdout()
			check := func(ctx context.Context) error {
				doc, err := parseFile(c, path)
				if err == nil {
					var stats service.ImportStats
					stats, err = svc.Check(ctx, doc)
					if err == nil {
						fmt.Fprintf(out, "%s: ok, %d entities would be created\n", path, stats.Entities())
						return nil
					}
				}
				fmt.Fprintf(out, "%s: %v\n", path, err)
				return err
			}

			if !watch {
				return check(cmd.Context())
			}

			// The exit status reports the most recent check.
			last := check(cmd.Context())
			w := watcher.New(path, func(ctx context.Context) { last = check(ctx) }, a.logger)
			err = w.Watch(cmd.Context())
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return last
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Input format: yaml or json (default: from file extension)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-check whenever the file changes")
	return cmd
}

func (a *app) newExportCmd() *cobra.Command {
	var (
		format  string
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the inventory as a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = "yaml"
				if outFile != "" {
					format = codec.FormatFromPath(outFile)
				}
			}
			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			doc, err := service.NewInventoryService(repo, nil, a.logger).Export(cmd.Context())
			if err != nil {
				return err
			}

			if outFile == "" {
				return c.Export(doc, cmd.OutOrStdout())
			}
			f, err := os.Create(outFile)
			if err != nil {
				return err
			}
			if err := c.Export(doc, f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: yaml or json (default: from -o extension, else yaml)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func (a *app) newListCmd() *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "list TYPE",
		Short: "Print entities of an exposed type as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			et, ok := reg.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown or hidden entity type %q (see 'fwinventory types')", args[0])
			}

			filter, err := parseFilter(filters)
			if err != nil {
				return err
			}

			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			items, err := et.List(cmd.Context(), repo, filter)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Field filter as field=value; repeatable (value null matches unset)")
	return cmd
}

func (a *app) newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the entity types exposed by this configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, et := range reg.Types() {
				fmt.Fprintf(tw, "%s\t%s\n", et.Name, et.Description)
			}
			return tw.Flush()
		},
	}
}

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var (
		path  string
		force bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&path, "path", "", "Where to write the file (default: XDG config dir)")
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.cfg.Summary())
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

// parseFilter turns field=value pairs into a repository filter. Values
// stay strings so text fields match verbatim; the store parses them for
// integer and trust fields. "null" matches an unset field.
func parseFilter(pairs []string) (repository.Filter, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filter := make(repository.Filter, len(pairs))
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("filter %q must be field=value", pair)
		}
		if value == "null" {
			filter[field] = nil
			continue
		}
		filter[field] = value
	}
	return filter, nil
}

func parseFile(c codec.Importer, path string) (*codec.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.Parse(f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
