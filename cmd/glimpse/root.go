package main

import (
	"context"
	"fmt"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"glimpse/config"
	"glimpse/internal/chat"
	chatrepo "glimpse/internal/chat/repository"
	chatusecase "glimpse/internal/chat/usecase"
	"glimpse/internal/gateway"
	"glimpse/internal/gateway/firebase"
	"glimpse/internal/gateway/memstore"
	mediarepo "glimpse/internal/media/repository"
	mediausecase "glimpse/internal/media/usecase"
	notifrepo "glimpse/internal/notification/repository"
	notifusecase "glimpse/internal/notification/usecase"
	"glimpse/pkg/logger"
)

var (
	flagConfig string
	flagToken  string
	flagLocal  bool
	flagUser   string
	flagName   string
)

var rootCmd = &cobra.Command{
	Use:   "glimpse",
	Short: "One-to-one chat with view-once media",
	Long: "glimpse is a one-to-one messaging client with view-once media " +
		"attachments: a shared attachment can be revealed exactly once by " +
		"its recipient, then becomes permanently unavailable.",
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "config", "config file name (without extension), looked up under ./config")
	pf.StringVar(&flagToken, "token", "", "Firebase ID token for the current session")
	pf.BoolVar(&flagLocal, "local", false, "run against the in-memory backend instead of Firebase")
	pf.StringVar(&flagUser, "user", "", "identity to sign in with in --local mode")
	pf.StringVar(&flagName, "name", "", "display name for --user in --local mode")
}

// app is the wired object graph behind every subcommand.
type app struct {
	cfg    *config.Config
	logger logger.Logger

	identity gateway.Identity

	messages *chatrepo.ChatRepository
	chat     chat.ChatUsecase
	media    *mediausecase.MediaUsecase
	viewer   *mediausecase.Viewer
	scanner  *notifusecase.Scanner

	close func() error
}

func buildApp(ctx context.Context) (*app, error) {
	v, err := config.LoadConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		return nil, err
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	var (
		docs     gateway.DocumentStore
		blobs    gateway.BlobStore
		identity gateway.Identity
		closeFn  = func() error { return nil }
	)
	if flagLocal {
		store := memstore.New()
		store.UploadChunk = cfg.Chat.UploadChunkBytes
		if flagUser == "" {
			return nil, fmt.Errorf("--local requires --user")
		}
		store.SignIn(gateway.User{ID: flagUser, DisplayName: flagName})
		docs, blobs, identity = store, store, store
	} else {
		gw, err := firebase.New(ctx, cfg.Firebase, flagToken)
		if err != nil {
			return nil, err
		}
		docs, blobs, identity = gw, gw, gw
		closeFn = gw.Close
	}

	clk := clock.New()
	messages := chatrepo.NewChatRepository(docs, *log)
	mediaUC := mediausecase.NewMediaUsecase(mediarepo.NewMediaRepository(docs, blobs, *log), identity, *log)
	chatUC := chatusecase.NewChatUsecase(messages, mediaUC, identity, clk, *log, *cfg)
	viewer := mediausecase.NewViewer(messages, clk, *log, *cfg)
	scanner := notifusecase.NewScanner(notifrepo.NewNotificationRepository(docs, *log), messages, identity, *log)

	return &app{
		cfg:      cfg,
		logger:   *log,
		identity: identity,
		messages: messages,
		chat:     chatUC,
		media:    mediaUC,
		viewer:   viewer,
		scanner:  scanner,
		close:    closeFn,
	}, nil
}
