package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tordrt/fdnorm/internal/analysis"
	"github.com/tordrt/fdnorm/internal/db"
	"github.com/tordrt/fdnorm/internal/fd"
	"github.com/tordrt/fdnorm/internal/workspace"
)

func newFDCmd() *cobra.Command {
	fdCmd := &cobra.Command{
		Use:   "fd",
		Short: "Manage the functional dependencies stored in the catalog",
	}

	fdCmd.AddCommand(&cobra.Command{
		Use:   "list <table>",
		Short: "List the dependencies of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, args[0], func(_ context.Context, w *workspace.Workspace, out io.Writer) error {
				printRelation(out, w.Relation())
				return nil
			})
		},
	})

	fdCmd.AddCommand(&cobra.Command{
		Use:   "add <table> <dependency>...",
		Short: `Store dependencies such as "customer -> city"`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, args[0], func(ctx context.Context, w *workspace.Workspace, out io.Writer) error {
				for _, s := range args[1:] {
					dep, err := fd.ParseDependency(s)
					if err != nil {
						return err
					}
					if err := w.Propose(dep); err != nil {
						return err
					}
				}
				return commit(ctx, w, out)
			})
		},
	})

	fdCmd.AddCommand(&cobra.Command{
		Use:   "remove <table> <id|dependency>...",
		Short: "Delete stored dependencies by catalog id or value",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, args[0], func(ctx context.Context, w *workspace.Workspace, out io.Writer) error {
				for _, s := range args[1:] {
					dep, err := resolveDependency(w.Relation(), s)
					if err != nil {
						return err
					}
					if err := w.Withdraw(dep); err != nil {
						return err
					}
				}
				return commit(ctx, w, out)
			})
		},
	})

	return fdCmd
}

// withWorkspace opens the configured database and runs fn on a workspace
// over table
func withWorkspace(cmd *cobra.Command, table string, fn func(context.Context, *workspace.Workspace, io.Writer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	url, err := cfg.SourceURL()
	if err != nil {
		return err
	}

	source, err := db.Open(ctx, url, cfg.SchemaName())
	if err != nil {
		return err
	}
	defer func() {
		if err := source.Close(ctx); err != nil {
			logger.Warn("failed to close database connection", "error", err)
		}
	}()

	relations, err := analysis.LoadRelations(ctx, source, []string{table})
	if err != nil {
		return err
	}

	w := workspace.New(source.Catalog(), relations[0],
		workspace.WithLogger(logger),
		workspace.WithMaxAttributes(cfg.MaxAttributes),
	)
	defer logEvents(w, logger)
	return fn(ctx, w, cmd.OutOrStdout())
}

// logEvents drains the events buffered by w
func logEvents(w *workspace.Workspace, logger *slog.Logger) {
	for {
		select {
		case ev := <-w.Events():
			logger.Debug("workspace event", "kind", ev.Kind.String(), "relation", ev.Relation, "normal_form", ev.NormalForm.String())
		default:
			return
		}
	}
}

func commit(ctx context.Context, w *workspace.Workspace, out io.Writer) error {
	before, err := formLabel(w.CommittedNormalForm())
	if err != nil {
		return err
	}
	after, err := formLabel(w.NormalForm())
	if err != nil {
		return err
	}
	if err := w.Commit(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s: %s -> %s\n", w.Relation().Name, before, after)
	printRelation(out, w.Relation())
	return nil
}

// formLabel names a normal form, or "unknown" for relations above the
// attribute limit
func formLabel(nf fd.NormalForm, err error) (string, error) {
	if errors.Is(err, analysis.ErrComplexityExceeded) {
		return "unknown", nil
	}
	if err != nil {
		return "", err
	}
	return nf.String(), nil
}

// resolveDependency finds the dependency named by a catalog id or value
func resolveDependency(r fd.Relation, s string) (fd.Dependency, error) {
	if id, err := strconv.Atoi(s); err == nil {
		for _, d := range r.FDs {
			if d.CatalogID == id {
				return d, nil
			}
		}
		return fd.Dependency{}, fmt.Errorf("%w: %s #%d", db.ErrDependencyNotFound, r.Name, id)
	}
	return fd.ParseDependency(s)
}

func printRelation(out io.Writer, r fd.Relation) {
	_, _ = fmt.Fprintf(out, "RELATION %s (%s)\n", r.Name, r.Columns)
	for _, d := range r.FDs {
		switch {
		case d.CatalogID != fd.Unpersisted:
			_, _ = fmt.Fprintf(out, "  #%d %s\n", d.CatalogID, d)
		case d.IsKey:
			_, _ = fmt.Fprintf(out, "  key %s\n", d)
		}
	}
}
