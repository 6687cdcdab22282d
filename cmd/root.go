package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/nerdfault/quill/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "A terminal chat agent with document retrieval and tools",
	Long:  `Quill is a terminal chat agent that talks to a completion API with retrieval over your synced documents and model-invoked local tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: run the chat application
		application, err := app.NewApplication()
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
