package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ragstore/internal/config"
	"ragstore/internal/ui"
	"ragstore/internal/vectorstore"
)

var statusWait time.Duration

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Show processing status for a file or batch",
	Long: `Display the lifecycle state of an uploaded file or the aggregate
counts of a batch. Ids carry a file_ or batch_ prefix.

Examples:
  # Batch aggregates
  ragstore status batch_6f1f6e0a

  # Single file, waiting up to ten seconds for a terminal state
  ragstore status file_9c2d11b4 --wait 10s`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().DurationVar(&statusWait, "wait", 0, "block until the file settles or the duration elapses")
}

func runStatus(cmd *cobra.Command, args []string) error {
	id := args[0]
	log.Debug("Showing status", "id", id)

	cfg := config.Get()

	ctx, cancel := signalContext()
	defer cancel()

	client, err := vectorstore.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create store client: %w", err)
	}
	defer client.Close()

	if strings.HasPrefix(id, "batch_") {
		batch, err := client.GetBatch(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get batch: %w", err)
		}
		displayBatch(batch)
		return nil
	}

	var rec *vectorstore.FileRecord
	if statusWait > 0 {
		rec, err = client.WaitForProcessing(ctx, id, statusWait)
	} else {
		rec, err = client.GetFile(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}
	displayFile(rec)
	return nil
}

// displayBatch renders batch aggregates as the status response schema.
func displayBatch(b *vectorstore.Batch) {
	resp := vectorstore.StatusOf(b)

	fmt.Println(ui.Header.Render("Batch Status"))
	fmt.Printf("  %s %s\n", ui.Dim.Render("Batch:"), b.ID)
	fmt.Printf("  %s %s\n", ui.Dim.Render("Status:"), ui.FormatStatus(string(resp.Status)))
	fmt.Printf("  %s %d completed, %d in progress, %d failed\n",
		ui.Dim.Render("Files:"),
		resp.CompletedCount,
		resp.InProgressCount,
		resp.FailedCount,
	)
}

// displayFile renders a single file record.
func displayFile(rec *vectorstore.FileRecord) {
	fmt.Println(ui.Header.Render("File Status"))
	fmt.Printf("  %s %s\n", ui.Dim.Render("File:"), rec.ID)
	if rec.Filename != "" {
		fmt.Printf("  %s %s\n", ui.Dim.Render("Name:"), rec.Filename)
	}
	fmt.Printf("  %s %s\n", ui.Dim.Render("Status:"), ui.FormatStatus(string(rec.Status)))
	if rec.Error != "" {
		fmt.Printf("  %s %s\n", ui.Dim.Render("Error:"), ui.Error.Render(rec.Error))
	}
	if !rec.CreatedAt.IsZero() {
		fmt.Printf("  %s %s\n", ui.Dim.Render("Created:"), rec.CreatedAt.Format(time.RFC3339))
	}
}
