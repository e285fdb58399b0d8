package commands

import "github.com/spf13/cobra"

func (c *CLI) newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <workspace>",
		Short: "List the items of a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closed, _ := cmd.Flags().GetBool("closed")
			if closed {
				set, err := c.app.ClosedItems(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), set.Sorted())
			}

			docs, err := c.app.Items(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), docs)
		},
	}
	cmd.Flags().BoolP("closed", "c", false, "Only print the IDs of closed items")
	return cmd
}
