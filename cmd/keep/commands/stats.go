package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.trai.ch/keep/internal/app"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the configuration and counters of every cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeStats(cmd.OutOrStdout(), c.app.Stats())
		},
	}
}

func writeStats(w io.Writer, s app.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CACHE\tSIZE\tMAX\tTTL\tHITS\tMISSES\tEVICTIONS\tEXPIRATIONS")

	rows := []struct {
		name  string
		stats domain.StoreStats
	}{
		{"blob", s.Blob},
		{"identity", s.Identity},
		{domain.ScopedSetClosedItems, s.ClosedItems},
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\t%d\t%d\t%d\n",
			r.name,
			r.stats.Size,
			r.stats.MaxSize,
			r.stats.TTL,
			r.stats.Hits,
			r.stats.Misses,
			r.stats.Evictions,
			r.stats.Expirations,
		)
	}

	if err := tw.Flush(); err != nil {
		return zerr.Wrap(err, "failed to write statistics")
	}
	return nil
}
