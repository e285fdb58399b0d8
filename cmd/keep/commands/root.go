// Package commands implements the CLI commands for keep.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/keep/internal/app"
	"go.trai.ch/keep/internal/build"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/engine/caches"
	"go.trai.ch/keep/internal/engine/invalidation"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// CLI represents the command line interface for keep.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	flush   func(context.Context) error
}

// Application represents the application logic interface.
type Application interface {
	Attachments(ctx context.Context, ids []string) map[string]string
	AttachmentURI(ctx context.Context, id, mediaType string) (string, bool)
	Principals(ctx context.Context, ids []string) map[string]domain.PrincipalView
	Items(ctx context.Context, workspace string) ([]domain.Document, error)
	ClosedItems(ctx context.Context, workspace string) (caches.Set, error)
	CloseItem(ctx context.Context, id string) invalidation.Outcome[app.ItemChange]
	ReopenItem(ctx context.Context, id string) invalidation.Outcome[app.ItemChange]
	Stats() app.Stats
	EnableTracing() func(context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "keep",
		Short:         "Inspect and exercise the cache layer",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("trace", false, "Log every traced operation with its duration")
	rootCmd.PersistentFlags().Bool("stats", false, "Print cache statistics after the command")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if trace, _ := cmd.Flags().GetBool("trace"); trace {
			c.flush = c.app.EnableTracing()
		}
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, _ []string) error {
		if stats, _ := cmd.Flags().GetBool("stats"); stats {
			if err := writeStats(cmd.OutOrStdout(), c.app.Stats()); err != nil {
				return err
			}
		}
		return c.shutdown(cmd.Context())
	}

	rootCmd.AddCommand(c.newBlobsCmd())
	rootCmd.AddCommand(c.newPrincipalsCmd())
	rootCmd.AddCommand(c.newQueryCmd())
	rootCmd.AddCommand(c.newCloseCmd())
	rootCmd.AddCommand(c.newStatsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	if err != nil {
		// PersistentPostRun is skipped when a command fails.
		_ = c.shutdown(ctx)
	}
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) shutdown(ctx context.Context) error {
	if c.flush == nil {
		return nil
	}
	flush := c.flush
	c.flush = nil
	return flush(ctx)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to encode output")
	}
	return enc.Close()
}
