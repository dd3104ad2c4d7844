package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glimpse/internal/chat/model"
	mediausecase "glimpse/internal/media/usecase"
	"glimpse/pkg/errors"
)

var revealCmd = &cobra.Command{
	Use:   "reveal <peer-id> <message-id>",
	Short: "Reveal a view-once attachment (consumes it permanently)",
	Args:  cobra.ExactArgs(2),
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

		msg, err := findMessage(cmd, a, key, args[1])
		if err != nil {
			return err
		}

		item := mediausecase.ViewOnceItem{
			MessageID: msg.ID,
			ViewOnce:  msg.ViewOnce,
			Viewed:    msg.Viewed,
			MediaURL:  msg.MediaURL,
		}
		reveal, err := a.viewer.Reveal(ctx, item)
		if err != nil {
			if err == errors.ErrAlreadyViewed {
				fmt.Fprintln(cmd.OutOrStdout(), mediausecase.UnavailablePlaceholder)
				return nil
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "revealed: %s\n", msg.MediaURL)
		<-reveal.Concealed
		fmt.Fprintln(cmd.OutOrStdout(), "media concealed")
		return nil
	},
}

// findMessage reads the current conversation snapshot and picks out one
// message by id.
func findMessage(cmd *cobra.Command, a *app, conversationKey, messageID string) (*model.Message, error) {
	sub, err := a.chat.Subscribe(cmd.Context(), conversationKey)
	if err != nil {
		return nil, err
	}
	defer sub.Close()

	msgs, ok := <-sub.Snapshots()
	if !ok {
		return nil, errors.ErrSubscribeFailed(sub.Err())
	}
	for i := range msgs {
		if msgs[i].ID == messageID {
			return &msgs[i], nil
		}
	}
	return nil, errors.ErrMessageNotFound
}

func init() {
	rootCmd.AddCommand(revealCmd)
}
