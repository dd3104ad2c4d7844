package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Review media that was shared with you",
}

var mediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List media index entries addressed to the current identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		entries, err := a.media.ReviewList(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range entries {
			fmt.Fprintf(out, "%s  from=%s  type=%s  %s\n", e.ID, e.FromUserID, e.MediaType, e.MediaURL)
		}
		return nil
	},
}

var mediaRevokeCmd = &cobra.Command{
	Use:   "revoke <entry-id>",
	Short: "Detach a media index entry from its receiver",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.media.Revoke(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[0])
		return nil
	},
}

func init() {
	mediaCmd.AddCommand(mediaListCmd, mediaRevokeCmd)
	rootCmd.AddCommand(mediaCmd)
}
