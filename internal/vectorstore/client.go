package vectorstore

import (
	"context"
	"fmt"
	"time"

	"ragstore/internal/config"
)

// Client defines the interface for vector store operations. Two
// implementations exist: MemoryClient, a deterministic in-process store,
// and RemoteClient, backed by the OpenAI vector store API.
type Client interface {
	// UploadFile creates a file record in "uploading" state and returns it
	// immediately. Processing completes asynchronously; outcomes are
	// observed through the record status, never through an error here.
	UploadFile(ctx context.Context, filename string, content []byte) (*FileRecord, error)

	// CreateBatch groups existing file ids for aggregate tracking.
	CreateBatch(ctx context.Context, fileIDs []string) (*Batch, error)

	// GetFile returns the current state of a file record.
	GetFile(ctx context.Context, id string) (*FileRecord, error)

	// GetBatch returns a batch with status and counts derived from its
	// member records.
	GetBatch(ctx context.Context, id string) (*Batch, error)

	// CancelBatch moves a batch to the terminal cancelled state.
	// Cancelling an already-terminal batch is a no-op.
	CancelBatch(ctx context.Context, id string) (*Batch, error)

	// WaitForProcessing blocks until the file reaches a terminal state or
	// the timeout elapses, whichever happens first.
	WaitForProcessing(ctx context.Context, id string, timeout time.Duration) (*FileRecord, error)

	// Search ranks completed files against the query.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)

	// VectorStoreID identifies the underlying store.
	VectorStoreID() string

	// Close releases client resources.
	Close() error
}

// New creates a client based on the configured backend.
func New(cfg *config.Config) (Client, error) {
	switch cfg.Store.Backend {
	case "memory":
		return NewMemoryClient(cfg.Store.APIKey,
			WithProcessingDelay(time.Duration(cfg.Store.ProcessingDelayMs)*time.Millisecond))
	case "openai":
		return NewRemoteClient(cfg.Store.OpenAI.APIKey, cfg.Store.OpenAI.VectorStoreID,
			cfg.Store.OpenAI.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}

// normalizeSearchOptions applies the limit default and cap.
func normalizeSearchOptions(opts SearchOptions) (SearchOptions, error) {
	if opts.Limit == 0 {
		opts.Limit = DefaultSearchLimit
	}
	if opts.Limit < 0 {
		return opts, &ValidationError{Field: "limit", Reason: "must be positive"}
	}
	if opts.Limit > MaxSearchLimit {
		opts.Limit = MaxSearchLimit
	}
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return opts, &ValidationError{Field: "threshold", Reason: "must be within [0, 1]"}
	}
	return opts, nil
}
