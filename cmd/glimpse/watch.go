package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"glimpse/internal/chat/model"
)

var watchCmd = &cobra.Command{
	Use:   "watch <peer-id>",
	Short: "Stream a conversation live, with unread notifications",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		key, err := a.chat.EnsureConversation(ctx, args[0])
		if err != nil {
			return err
		}

		sub, err := a.chat.Subscribe(ctx, key)
		if err != nil {
			return err
		}
		defer sub.Close()

		notifications, err := a.scanner.Start(ctx)
		if err != nil {
			return err
		}
		defer a.scanner.Close()

		out := cmd.OutOrStdout()
		for {
			select {
			case msgs, ok := <-sub.Snapshots():
				if !ok {
					return sub.Err()
				}
				fmt.Fprintf(out, "--- %s (%d messages) ---\n", key, len(msgs))
				for _, m := range msgs {
					printMessage(out, m)
				}
			case n, ok := <-notifications:
				if !ok {
					notifications = nil
					continue
				}
				if n.ConversationKey == key {
					continue // already on screen
				}
				fmt.Fprintf(out, "*** new message from %s in %s\n", n.SenderName, n.ConversationKey)
			case <-ctx.Done():
				return nil
			}
		}
	},
}

func printMessage(out io.Writer, m model.Message) {
	switch {
	case m.ViewOnce && m.Viewed:
		fmt.Fprintf(out, "[%s] %s: (view-once media, no longer available)\n", m.ID, m.FromUserID)
	case m.ViewOnce:
		fmt.Fprintf(out, "[%s] %s: (view-once media, run `glimpse reveal`)\n", m.ID, m.FromUserID)
	default:
		fmt.Fprintf(out, "[%s] %s: %s\n", m.ID, m.FromUserID, m.Text)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
