package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ragstore/internal/config"
	"ragstore/internal/ui"
)

// configCmd shows the resolved configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		fmt.Println(ui.Header.Render("Configuration"))

		if path := config.ConfigFilePath(); path != "" {
			fmt.Printf("  %s %s\n", ui.Dim.Render("File:"), path)
		} else {
			fmt.Printf("  %s %s\n", ui.Dim.Render("File:"), "(defaults, no file loaded)")
		}

		fmt.Printf("  %s %s\n", ui.Dim.Render("Backend:"), cfg.Store.Backend)
		if cfg.Store.Backend == "openai" {
			fmt.Printf("  %s %s\n", ui.Dim.Render("Vector store:"), cfg.Store.OpenAI.VectorStoreID)
			key := "(unset)"
			if cfg.Store.OpenAI.APIKey != "" {
				key = "(set)"
			}
			fmt.Printf("  %s %s\n", ui.Dim.Render("OpenAI key:"), key)
		} else {
			fmt.Printf("  %s %dms\n", ui.Dim.Render("Processing delay:"), cfg.Store.ProcessingDelayMs)
		}

		fmt.Printf("  %s limit %d, threshold %.2f\n", ui.Dim.Render("Search:"), cfg.Search.Limit, cfg.Search.Threshold)
		fmt.Printf("  %s max %d bytes, max %d files\n", ui.Dim.Render("Ingest:"), cfg.Ingest.MaxFileSize, cfg.Ingest.MaxFileCount)
		fmt.Printf("  %s %d patterns\n", ui.Dim.Render("Ignore:"), len(cfg.Ignore))

		return nil
	},
}
