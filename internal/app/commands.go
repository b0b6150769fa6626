package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mural/internal/config"
	"mural/internal/logger"
)

// cli carries the App between cobra hooks and subcommands.
type cli struct {
	configFile string
	opts       []Option

	log *logger.Logger
	app *App
}

// Run executes the mural command line with args, writing command output to
// out. Background work is shut down before it returns, also on error.
// opts are passed to New and let tests swap the filesystem or the emitter.
func Run(ctx context.Context, args []string, out io.Writer, opts ...Option) error {
	c := &cli{opts: opts}
	defer c.stop(context.WithoutCancel(ctx))

	root := c.newRootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

func (c *cli) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mural",
		Short:         "Sticky-note pages stored in a single JSON document",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipStartup"] == "true" {
				return nil
			}
			return c.start(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (yaml, json or toml)")

	root.AddCommand(
		c.newPagesCommand(),
		c.newNotesCommand(),
		c.newHistoryCommand(),
		c.newMCPCommand(),
		c.newWatchCommand(),
		newVersionCommand(),
	)
	return root
}

func (c *cli) start(ctx context.Context) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	c.log = log
	c.app = New(cfg, log, c.opts...)
	return c.app.Startup(ctx)
}

func (c *cli) stop(ctx context.Context) {
	if c.app != nil {
		c.app.Shutdown(ctx)
	}
	if c.log != nil {
		_ = c.log.Close()
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ── pages ──────────────────────────────────────────────────

func (c *cli) newPagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List, add and delete pages",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every page with its notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), c.app.Session().Pages())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <title>",
		Short: "Add a page at the top of the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := c.app.Session().AddPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), page.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <page-id>",
		Short: "Delete a page and its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.Session().DeletePage(cmd.Context(), args[0])
			return err
		},
	})

	return cmd
}

// ── notes ──────────────────────────────────────────────────

func (c *cli) newNotesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Add, delete, minimize and maximize notes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <page-id> <title> [content]",
		Short: "Add a note to a page",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := ""
			if len(args) == 3 {
				content = args[2]
			}
			note, err := c.app.Session().AddNote(cmd.Context(), args[0], args[1], content)
			if err != nil {
				return err
			}
			if note == nil {
				return fmt.Errorf("no page with id %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), note.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <page-id> <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.Session().DeleteNote(cmd.Context(), args[0], args[1])
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "minimize <page-id> <note-id>",
		Short: "Toggle a note's minimized flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.Session().ToggleMinimizeNote(cmd.Context(), args[0], args[1])
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "maximize <page-id> <note-id>",
		Short: "Toggle a note's maximized flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.Session().ToggleMaximizeNote(cmd.Context(), args[0], args[1])
			return err
		},
	})

	return cmd
}

// ── history ────────────────────────────────────────────────

func (c *cli) newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Archive and restore whole-document snapshots",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := c.app.ListSnapshots()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snaps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "snapshot [label]",
		Short: "Archive the document as it is now",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := "manual"
			if len(args) == 1 {
				label = args[0]
			}
			snap, err := c.app.TakeSnapshot(cmd.Context(), label)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), snap.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <snapshot-id>",
		Short: "Replace the document with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.RestoreSnapshot(cmd.Context(), args[0])
			return err
		},
	})

	return cmd
}

// ── long-running modes ─────────────────────────────────────

func (c *cli) newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the board to MCP clients over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.ServeMCP(cmd.Context())
		},
	}
}

func (c *cli) newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow external changes to the document (and run scheduled snapshots) until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := c.app.Watch(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			c.log.Info("watch stopped")
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the mural version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipStartup": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mural %s\n", Version)
		},
	}
}
