package commands

import "github.com/spf13/cobra"

func (c *CLI) newPrincipalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "principals [ids...]",
		Short: "Resolve principals through the identity cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeYAML(cmd.OutOrStdout(), c.app.Principals(cmd.Context(), args))
		},
	}
}
