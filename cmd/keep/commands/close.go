package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/keep/internal/app"
	"go.trai.ch/keep/internal/engine/invalidation"
)

// mutationReport is what the close command prints after a successful write.
type mutationReport struct {
	Item        string   `yaml:"item"`
	Status      any      `yaml:"status"`
	Invalidated []string `yaml:"invalidated,omitempty"`
	Entries     int      `yaml:"entries"`
	ScopedSets  []string `yaml:"scopedSets,omitempty"`
}

func (c *CLI) newCloseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close <item>",
		Short: "Close an item and invalidate everything derived from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reopen, _ := cmd.Flags().GetBool("reopen")

			var out invalidation.Outcome[app.ItemChange]
			if reopen {
				out = c.app.ReopenItem(cmd.Context(), args[0])
			} else {
				out = c.app.CloseItem(cmd.Context(), args[0])
			}
			if out.Failed() {
				return out.Err
			}

			report := mutationReport{
				Item:       out.Result.Item.ID,
				Status:     out.Result.Item.Fields["status"],
				Entries:    out.Fanout.Entries,
				ScopedSets: out.Fanout.ScopedSets,
			}
			for _, k := range out.Fanout.Keys {
				report.Invalidated = append(report.Invalidated, k.String())
			}
			return writeYAML(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolP("reopen", "r", false, "Reopen the item instead")
	return cmd
}
