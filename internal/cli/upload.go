package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ragstore/internal/config"
	"ragstore/internal/fs"
	"ragstore/internal/ui"
	"ragstore/internal/vectorstore"
)

var (
	uploadExtensions []string
	uploadIgnore     []string
	uploadNoWait     bool
	uploadTimeout    time.Duration
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <path>...",
	Short: "Upload files or directories into the vector store",
	Long: `Upload the given files, or every text file under the given directories,
into the vector store. Directory walks respect .gitignore and the
configured ignore patterns. Multiple files are grouped into batches for
aggregate status tracking.

Examples:
  # Upload a directory
  ragstore upload ./docs

  # Upload specific files
  ragstore upload notes.md paper.txt

  # Upload only markdown files and return immediately
  ragstore upload ./docs --ext .md --no-wait`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringSliceVarP(&uploadExtensions, "ext", "e", nil, "file extensions to include (e.g., .md, .txt)")
	uploadCmd.Flags().StringSliceVarP(&uploadIgnore, "ignore", "i", nil, "additional patterns to ignore")
	uploadCmd.Flags().BoolVar(&uploadNoWait, "no-wait", false, "return without waiting for processing")
	uploadCmd.Flags().DurationVar(&uploadTimeout, "timeout", 30*time.Second, "per-file processing wait budget")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	ctx, cancel := signalContext()
	defer cancel()

	client, err := vectorstore.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create store client: %w", err)
	}
	defer client.Close()

	var resp *vectorstore.UploadResponse
	for _, path := range args {
		resp, err = ingestPath(ctx, client, cfg, path, !uploadNoWait)
		if err != nil {
			return err
		}
		displayUpload(resp)
	}
	persistStoreID(cfg, client)
	return nil
}

// persistStoreID saves a remote store id created during this run so the
// next invocation reuses it.
func persistStoreID(cfg *config.Config, client vectorstore.Client) {
	if cfg.Store.Backend != "openai" {
		return
	}
	id := client.VectorStoreID()
	if id == "" || id == cfg.Store.OpenAI.VectorStoreID {
		return
	}
	if err := config.SaveVectorStoreID(id); err != nil {
		log.Warn("Failed to save vector store id", "id", id, "error", err)
	}
}

// signalContext returns a context cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted")
		cancel()
	}()

	return ctx, cancel
}

// ingestPath uploads a single file or a whole directory into the store,
// batching directory contents and optionally waiting for processing.
func ingestPath(ctx context.Context, client vectorstore.Client, cfg *config.Config, path string, wait bool) (*vectorstore.UploadResponse, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %s", path)
	}

	var paths []string
	if info.IsDir() {
		walker, err := fs.NewFileWalker(fs.WalkOptions{
			Root:           path,
			MaxFileSize:    cfg.Ingest.MaxFileSize,
			MaxFileCount:   cfg.Ingest.MaxFileCount,
			IgnorePatterns: append(append([]string(nil), cfg.Ignore...), uploadIgnore...),
			UseGitignore:   true,
			Extensions:     uploadExtensions,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create file walker: %w", err)
		}
		err = walker.Walk(func(fi fs.FileInfo) error {
			paths = append(paths, fi.Path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory: %w", err)
		}
		log.Info("Found files to upload", "count", len(paths))
	} else {
		paths = []string{path}
	}

	if len(paths) == 0 {
		return &vectorstore.UploadResponse{
			Success:       true,
			VectorStoreID: client.VectorStoreID(),
			Message:       "no files matched",
		}, nil
	}

	var records []vectorstore.FileRecord
	var fileIDs []string
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			log.Warn("Failed to read file", "path", p, "error", err)
			continue
		}
		rec, err := client.UploadFile(ctx, p, content)
		if err != nil {
			return nil, fmt.Errorf("upload failed for %s: %w", p, err)
		}
		records = append(records, *rec)
		fileIDs = append(fileIDs, rec.ID)
	}

	// Group uploads into batches within the per-batch limit.
	var batchID string
	if len(fileIDs) > 1 {
		for start := 0; start < len(fileIDs); start += vectorstore.MaxFilesPerBatch {
			end := start + vectorstore.MaxFilesPerBatch
			if end > len(fileIDs) {
				end = len(fileIDs)
			}
			batch, err := client.CreateBatch(ctx, fileIDs[start:end])
			if err != nil {
				return nil, fmt.Errorf("failed to create batch: %w", err)
			}
			if batchID == "" {
				batchID = batch.ID
			}
		}
	}

	if wait {
		for i := range records {
			rec, err := client.WaitForProcessing(ctx, records[i].ID, uploadTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				log.Warn("Processing wait gave up", "file", records[i].Filename, "error", err)
				continue
			}
			records[i] = *rec
		}
	}

	return &vectorstore.UploadResponse{
		Success:       true,
		Files:         records,
		VectorStoreID: client.VectorStoreID(),
		BatchID:       batchID,
		Message:       fmt.Sprintf("uploaded %d files", len(records)),
	}, nil
}

// displayUpload renders an upload summary.
func displayUpload(resp *vectorstore.UploadResponse) {
	fmt.Println(ui.Header.Render("Upload"))
	fmt.Printf("  %s %s\n", ui.Dim.Render("Store:"), resp.VectorStoreID)
	if resp.BatchID != "" {
		fmt.Printf("  %s %s\n", ui.Dim.Render("Batch:"), resp.BatchID)
	}
	for _, f := range resp.Files {
		line := fmt.Sprintf("  %s %s", ui.FilePath.Render(f.Filename), ui.FormatStatus(string(f.Status)))
		if f.Error != "" {
			line += " " + ui.Error.Render(f.Error)
		}
		fmt.Println(line)
	}
	fmt.Println(ui.Dim.Render(resp.Message))
}
