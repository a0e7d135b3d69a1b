package vectorstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// remotePollInterval is how often WaitForProcessing polls the API.
const remotePollInterval = 500 * time.Millisecond

// RemoteClient implements Client against the OpenAI vector store API.
// The service computes real embeddings; this client only maps the wire
// contract onto the local types and error taxonomy.
type RemoteClient struct {
	api           openai.Client
	vectorStoreID string
}

// NewRemoteClient creates a network-backed client. A missing API key is
// a configuration error, caught at construction rather than on first use.
// When vectorStoreID is empty a new remote store is created lazily.
func NewRemoteClient(apiKey, vectorStoreID, baseURL string) (*RemoteClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &ConfigError{Reason: "OpenAI API key is required"}
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &RemoteClient{
		api:           openai.NewClient(opts...),
		vectorStoreID: vectorStoreID,
	}, nil
}

// VectorStoreID returns the remote store id, which may be empty until the
// first upload or search creates the store.
func (c *RemoteClient) VectorStoreID() string {
	return c.vectorStoreID
}

// ensureStore creates the remote vector store on first use.
func (c *RemoteClient) ensureStore(ctx context.Context) (string, error) {
	if c.vectorStoreID != "" {
		return c.vectorStoreID, nil
	}

	vs, err := c.api.VectorStores.New(ctx, openai.VectorStoreNewParams{
		Name: openai.String("ragstore"),
	})
	if err != nil {
		return "", mapRemoteError(err)
	}
	c.vectorStoreID = vs.ID
	log.Debug("Created remote vector store", "id", vs.ID)
	return vs.ID, nil
}

// UploadFile pushes the content to the file API and attaches it to the
// vector store. Processing (embedding) happens server-side; the returned
// record reflects the initial remote status.
func (c *RemoteClient) UploadFile(ctx context.Context, filename string, content []byte) (*FileRecord, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, &ValidationError{Field: "filename", Reason: "must not be blank"}
	}
	if len(content) > MaxFileSize {
		return nil, &ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("%s exceeds the %d byte limit", filename, MaxFileSize),
		}
	}

	storeID, err := c.ensureStore(ctx)
	if err != nil {
		return nil, err
	}

	f, err := c.api.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(bytes.NewReader(content), filename, "text/plain"),
		Purpose: openai.FilePurposeAssistants,
	})
	if err != nil {
		return nil, mapRemoteError(err)
	}

	vsf, err := c.api.VectorStores.Files.New(ctx, storeID, openai.VectorStoreFileNewParams{
		FileID: f.ID,
	})
	if err != nil {
		return nil, mapRemoteError(err)
	}

	log.Debug("Remote upload accepted", "id", vsf.ID, "file", filename)
	return remoteFileRecord(vsf, filename), nil
}

// GetFile fetches the current remote state of a vector store file.
func (c *RemoteClient) GetFile(ctx context.Context, id string) (*FileRecord, error) {
	storeID, err := c.ensureStore(ctx)
	if err != nil {
		return nil, err
	}

	vsf, err := c.api.VectorStores.Files.Get(ctx, storeID, id)
	if err != nil {
		return nil, mapRemoteError(err)
	}
	return remoteFileRecord(vsf, ""), nil
}

// CreateBatch groups files server-side.
func (c *RemoteClient) CreateBatch(ctx context.Context, fileIDs []string) (*Batch, error) {
	if len(fileIDs) == 0 {
		return nil, &ValidationError{Field: "batch", Reason: "must contain at least one file"}
	}
	if len(fileIDs) > MaxFilesPerBatch {
		return nil, &ValidationError{
			Field:  "batch",
			Reason: fmt.Sprintf("%d files exceeds the limit of %d", len(fileIDs), MaxFilesPerBatch),
		}
	}

	storeID, err := c.ensureStore(ctx)
	if err != nil {
		return nil, err
	}

	b, err := c.api.VectorStores.FileBatches.New(ctx, storeID, openai.VectorStoreFileBatchNewParams{
		FileIDs: fileIDs,
	})
	if err != nil {
		return nil, mapRemoteError(err)
	}
	return remoteBatch(b, fileIDs), nil
}

// GetBatch fetches remote batch aggregates.
func (c *RemoteClient) GetBatch(ctx context.Context, id string) (*Batch, error) {
	storeID, err := c.ensureStore(ctx)
	if err != nil {
		return nil, err
	}

	b, err := c.api.VectorStores.FileBatches.Get(ctx, storeID, id)
	if err != nil {
		return nil, mapRemoteError(err)
	}
	return remoteBatch(b, nil), nil
}

// CancelBatch cancels remote processing. The API treats repeat cancels of
// a settled batch as a no-op, matching the local semantics.
func (c *RemoteClient) CancelBatch(ctx context.Context, id string) (*Batch, error) {
	storeID, err := c.ensureStore(ctx)
	if err != nil {
		return nil, err
	}

	b, err := c.api.VectorStores.FileBatches.Cancel(ctx, storeID, id)
	if err != nil {
		return nil, mapRemoteError(err)
	}
	return remoteBatch(b, nil), nil
}

// WaitForProcessing polls the remote status until terminal, timeout, or
// ctx cancellation.
func (c *RemoteClient) WaitForProcessing(ctx context.Context, id string, timeout time.Duration) (*FileRecord, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(remotePollInterval)
	defer ticker.Stop()

	for {
		rec, err := c.GetFile(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec.Status.Terminal() {
			return rec, nil
		}

		select {
		case <-ticker.C:
		case <-deadline.C:
			return nil, &TimeoutError{FileID: id, Timeout: timeout}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Search delegates ranking to the remote store.
func (c *RemoteClient) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Field: "query", Reason: "must not be empty"}
	}
	opts, err := normalizeSearchOptions(opts)
	if err != nil {
		return nil, err
	}

	storeID, err := c.ensureStore(ctx)
	if err != nil {
		return nil, err
	}

	page, err := c.api.VectorStores.Search(ctx, storeID, openai.VectorStoreSearchParams{
		Query:         openai.VectorStoreSearchParamsQueryUnion{OfString: openai.String(query)},
		MaxNumResults: openai.Int(int64(opts.Limit)),
	})
	if err != nil {
		return nil, mapRemoteError(err)
	}

	var results []SearchResult
	for _, item := range page.Data {
		if item.Score < opts.Threshold {
			continue
		}
		snippet := ""
		if len(item.Content) > 0 {
			snippet = item.Content[0].Text
		}
		results = append(results, SearchResult{
			FileID:   item.FileID,
			Filename: item.Filename,
			Snippet:  snippet,
			Score:    item.Score,
		})
	}
	return results, nil
}

// Close is a no-op; the HTTP client holds no resources worth releasing.
func (c *RemoteClient) Close() error {
	return nil
}

// remoteFileRecord maps a remote vector store file onto FileRecord.
func remoteFileRecord(vsf *openai.VectorStoreFile, filename string) *FileRecord {
	rec := &FileRecord{
		ID:        vsf.ID,
		Filename:  filename,
		Status:    mapRemoteFileStatus(string(vsf.Status)),
		CreatedAt: time.Unix(vsf.CreatedAt, 0),
		Size:      vsf.UsageBytes,
	}
	if vsf.LastError.Message != "" {
		rec.Error = vsf.LastError.Message
	}
	return rec
}

// mapRemoteFileStatus translates remote lifecycle states. The remote
// "cancelled" state has no local equivalent for files and reads as a
// failure.
func mapRemoteFileStatus(s string) FileStatus {
	switch s {
	case "completed":
		return StatusCompleted
	case "failed", "cancelled":
		return StatusFailed
	case "in_progress":
		return StatusProcessing
	default:
		return StatusUploading
	}
}

// remoteBatch maps a remote file batch onto Batch. Cancelled member files
// count as failed so the counts keep covering every member.
func remoteBatch(b *openai.VectorStoreFileBatch, fileIDs []string) *Batch {
	status := BatchInProgress
	switch b.Status {
	case "completed":
		status = BatchCompleted
	case "failed":
		status = BatchFailed
	case "cancelled":
		status = BatchCancelled
	}

	return &Batch{
		ID:      b.ID,
		FileIDs: fileIDs,
		Status:  status,
		FileCounts: FileCounts{
			Completed:  int(b.FileCounts.Completed),
			InProgress: int(b.FileCounts.InProgress),
			Failed:     int(b.FileCounts.Failed + b.FileCounts.Cancelled),
		},
		CreatedAt: time.Unix(b.CreatedAt, 0),
	}
}

// mapRemoteError folds API failures into the local error taxonomy.
func mapRemoteError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusTooManyRequests:
			return &RateLimitError{RetryAfter: retryAfterHint(apierr)}
		case http.StatusNotFound:
			return &NotFoundError{Kind: "resource", ID: ""}
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
			return &ValidationError{Field: "request", Reason: apierr.Error()}
		}
	}
	return fmt.Errorf("vector store request failed: %w", err)
}

// retryAfterHint reads the Retry-After header, defaulting to one second.
func retryAfterHint(apierr *openai.Error) time.Duration {
	if apierr.Response != nil {
		if v := apierr.Response.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return time.Second
}
