package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/nerdfault/quill/internal/config"
	"github.com/nerdfault/quill/internal/docsync"
	"github.com/nerdfault/quill/internal/logging"
)

var syncWatch bool

var syncCmd = &cobra.Command{
	Use:   "sync [directory]",
	Short: "Sync a directory into the profile's vector store",
	Long:  `Upload new and changed files from a directory to the remote vector store used for retrieval. With --watch, keep running and re-sync on changes.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if !cfg.IsValid() {
			log.Fatalf("Profile '%s' has no API key; run 'quill profile add' first", cfg.ActiveProfile)
		}
		if cfg.GetVectorStoreID() == "" {
			log.Fatalf("Profile '%s' has no vector_store_id configured", cfg.ActiveProfile)
		}

		clientConfig := openai.DefaultConfig(cfg.GetAPIKey())
		clientConfig.BaseURL = cfg.GetBaseURL()
		client := openai.NewClientWithConfig(clientConfig)

		logger, closer, err := openLogger(cfg)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer closer.Close()

		syncer := docsync.NewSyncer(client, cfg.GetVectorStoreID(), logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		report, err := syncer.Sync(ctx, args[0])
		if err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
		fmt.Printf("Synced %s: %d uploaded, %d unchanged, %d failed\n",
			args[0], report.Uploaded, report.Unchanged, report.Failed)
		for _, file := range report.Files {
			if file.Status == "failed" {
				fmt.Printf("  failed: %s: %s\n", file.Path, file.Err)
			}
		}

		if syncWatch {
			fmt.Println("Watching for changes (Ctrl+C to stop)...")
			if err := syncer.Watch(ctx, args[0], 2*time.Second); err != nil && ctx.Err() == nil {
				log.Fatalf("Watch failed: %v", err)
			}
		}
	},
}

func openLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	logPath, err := cfg.LogFile()
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return logging.New(logPath, cfg.LogLevel)
}

func init() {
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "keep running and re-sync on file changes")
	rootCmd.AddCommand(syncCmd)
}
