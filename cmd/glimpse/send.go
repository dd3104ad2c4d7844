package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"glimpse/internal/chat"
	"glimpse/internal/media"
)

var (
	flagSendText string
	flagSendFile string
)

var sendCmd = &cobra.Command{
	Use:   "send <peer-id>",
	Short: "Send a message, optionally with a view-once attachment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		key, err := a.chat.EnsureConversation(ctx, args[0])
		if err != nil {
			return err
		}

		var att *media.Attachment
		if flagSendFile != "" {
			data, err := os.ReadFile(flagSendFile)
			if err != nil {
				return err
			}
			att = &media.Attachment{Filename: filepath.Base(flagSendFile), Data: data}
		}

		id, err := a.chat.Send(ctx, chat.SendCommand{
			ConversationKey: key,
			Text:            flagSendText,
			Attachment:      att,
		})
		if err != nil {
			return err
		}
		if id == "" {
			// empty input is silently dropped, like an empty submit in the UI
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sent %s to %s\n", id, key)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&flagSendText, "text", "", "message text")
	sendCmd.Flags().StringVar(&flagSendFile, "file", "", "path of a file to attach as view-once media")
	rootCmd.AddCommand(sendCmd)
}
