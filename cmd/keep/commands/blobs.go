package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/keep/internal/engine/caches"
)

func (c *CLI) newBlobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blobs [ids...]",
		Short: "Fetch attachments through the blob cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, _ := cmd.Flags().GetBool("uri")
			if !uri {
				return writeYAML(cmd.OutOrStdout(), c.app.Attachments(cmd.Context(), args))
			}

			mediaType, _ := cmd.Flags().GetString("media-type")
			out := make(map[string]string, len(args))
			for _, id := range args {
				if v, ok := c.app.AttachmentURI(cmd.Context(), id, mediaType); ok {
					out[id] = v
				}
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolP("uri", "u", false, "Print data URIs instead of bare base64")
	cmd.Flags().StringP("media-type", "m", caches.DefaultMediaType, "Media type used in data URIs")
	return cmd
}
