package vectorstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"ragstore/internal/search"
)

// DefaultProcessingDelay is the simulated latency between upload and the
// terminal state.
const DefaultProcessingDelay = 200 * time.Millisecond

// MemoryClient is the deterministic in-process Client implementation. All
// state is owned by the instance; nothing is shared between clients.
type MemoryClient struct {
	id    string
	sched Scheduler
	delay time.Duration

	mu      sync.Mutex
	files   map[string]*FileRecord
	order   []string // upload order, for stable search ranking
	batches map[string]*memoryBatch
	done    map[string]chan struct{} // closed when the record goes terminal
	cancels map[string]func()        // pending scheduler work per file
	hashes  map[string]string        // content hash -> first file id
}

// memoryBatch holds the fixed membership of a batch. Status and counts
// are derived from the member records, never stored.
type memoryBatch struct {
	id        string
	fileIDs   []string
	cancelled bool
	createdAt time.Time
}

// MemoryOption configures a MemoryClient.
type MemoryOption func(*MemoryClient)

// WithScheduler substitutes the transition scheduler.
func WithScheduler(s Scheduler) MemoryOption {
	return func(c *MemoryClient) { c.sched = s }
}

// WithProcessingDelay sets the simulated processing latency.
func WithProcessingDelay(d time.Duration) MemoryOption {
	return func(c *MemoryClient) {
		if d > 0 {
			c.delay = d
		}
	}
}

// NewMemoryClient creates an in-memory client. The API key is not sent
// anywhere but must be non-blank, matching the behavior of the network
// client it stands in for.
func NewMemoryClient(apiKey string, opts ...MemoryOption) (*MemoryClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &ConfigError{Reason: "API key is required"}
	}

	c := &MemoryClient{
		id:      "vs_" + uuid.NewString(),
		sched:   NewTimerScheduler(),
		delay:   DefaultProcessingDelay,
		files:   make(map[string]*FileRecord),
		batches: make(map[string]*memoryBatch),
		done:    make(map[string]chan struct{}),
		cancels: make(map[string]func()),
		hashes:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// VectorStoreID returns the store identifier.
func (c *MemoryClient) VectorStoreID() string {
	return c.id
}

// UploadFile registers the file and schedules its processing. The id is
// assigned before any asynchronous work begins. Content problems (empty,
// binary) surface later through status=failed, never as an error here;
// only a structurally invalid request fails synchronously.
func (c *MemoryClient) UploadFile(ctx context.Context, filename string, content []byte) (*FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(filename) == "" {
		return nil, &ValidationError{Field: "filename", Reason: "must not be blank"}
	}
	if len(content) > MaxFileSize {
		return nil, &ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("%s exceeds the %d byte limit", filename, MaxFileSize),
		}
	}

	rec := &FileRecord{
		ID:        "file_" + uuid.NewString(),
		Filename:  filename,
		Status:    StatusUploading,
		CreatedAt: time.Now(),
		Hash:      fmt.Sprintf("%016x", xxhash.Sum64(content)),
		Size:      int64(len(content)),
		Content:   string(content),
	}

	c.mu.Lock()
	if prev, ok := c.hashes[rec.Hash]; ok {
		log.Debug("Duplicate content uploaded", "file", filename, "existing", prev)
	} else {
		c.hashes[rec.Hash] = rec.ID
	}
	c.files[rec.ID] = rec
	c.order = append(c.order, rec.ID)
	c.done[rec.ID] = make(chan struct{})
	c.cancels[rec.ID] = c.sched.AfterFunc(c.delay/2, func() {
		c.beginProcessing(rec.ID, content)
	})
	c.mu.Unlock()

	log.Debug("File upload accepted", "id", rec.ID, "file", filename, "size", rec.Size)
	out := *rec
	return &out, nil
}

// beginProcessing moves a record from uploading to processing and
// schedules the terminal transition.
func (c *MemoryClient) beginProcessing(id string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.files[id]
	if !ok || rec.Status.Terminal() {
		return
	}
	rec.Status = StatusProcessing
	c.cancels[id] = c.sched.AfterFunc(c.delay/2, func() {
		c.finishProcessing(id, content)
	})
}

// finishProcessing settles the record into its terminal state.
func (c *MemoryClient) finishProcessing(id string, content []byte) {
	status, errMsg := processOutcome(content)

	c.mu.Lock()
	c.settleLocked(id, status, errMsg)
	c.mu.Unlock()
}

// settleLocked finalizes a record. Terminal states are sticky: a record
// that already settled is left untouched.
func (c *MemoryClient) settleLocked(id string, status FileStatus, errMsg string) {
	rec, ok := c.files[id]
	if !ok || rec.Status.Terminal() {
		return
	}
	rec.Status = status
	rec.Error = errMsg
	delete(c.cancels, id)
	if ch, ok := c.done[id]; ok {
		close(ch)
		delete(c.done, id)
	}
	log.Debug("File settled", "id", id, "status", status, "error", errMsg)
}

// processOutcome decides the terminal state for uploaded content.
func processOutcome(content []byte) (FileStatus, string) {
	if len(content) == 0 {
		return StatusFailed, "file content is empty"
	}
	if bytes.IndexByte(content, 0) >= 0 {
		return StatusFailed, "unsupported file type: binary content"
	}
	return StatusCompleted, ""
}

// GetFile returns a copy of the record.
func (c *MemoryClient) GetFile(ctx context.Context, id string) (*FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.files[id]
	if !ok {
		return nil, &NotFoundError{Kind: "file", ID: id}
	}
	out := *rec
	return &out, nil
}

// CreateBatch groups existing file ids. Membership is fixed at creation;
// unknown ids fail the whole call.
func (c *MemoryClient) CreateBatch(ctx context.Context, fileIDs []string) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(fileIDs) == 0 {
		return nil, &ValidationError{Field: "batch", Reason: "must contain at least one file"}
	}
	if len(fileIDs) > MaxFilesPerBatch {
		return nil, &ValidationError{
			Field:  "batch",
			Reason: fmt.Sprintf("%d files exceeds the limit of %d", len(fileIDs), MaxFilesPerBatch),
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range fileIDs {
		if _, ok := c.files[id]; !ok {
			return nil, &NotFoundError{Kind: "file", ID: id}
		}
	}

	b := &memoryBatch{
		id:        "batch_" + uuid.NewString(),
		fileIDs:   append([]string(nil), fileIDs...),
		createdAt: time.Now(),
	}
	c.batches[b.id] = b

	log.Debug("Batch created", "id", b.id, "files", len(b.fileIDs))
	return c.deriveBatchLocked(b), nil
}

// GetBatch returns the batch with freshly derived status and counts.
func (c *MemoryClient) GetBatch(ctx context.Context, id string) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.batches[id]
	if !ok {
		return nil, &NotFoundError{Kind: "batch", ID: id}
	}
	return c.deriveBatchLocked(b), nil
}

// CancelBatch cancels pending work for the batch members. Records that
// already settled keep their outcome; the rest fail with a cancellation
// error so the counts still cover every member. Idempotent.
func (c *MemoryClient) CancelBatch(ctx context.Context, id string) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.batches[id]
	if !ok {
		return nil, &NotFoundError{Kind: "batch", ID: id}
	}
	if b.cancelled {
		return c.deriveBatchLocked(b), nil
	}

	b.cancelled = true
	for _, fid := range b.fileIDs {
		if cancel, ok := c.cancels[fid]; ok {
			cancel()
		}
		c.settleLocked(fid, StatusFailed, "batch cancelled")
	}

	log.Debug("Batch cancelled", "id", id)
	return c.deriveBatchLocked(b), nil
}

// deriveBatchLocked computes the aggregate view from member records.
func (c *MemoryClient) deriveBatchLocked(b *memoryBatch) *Batch {
	var counts FileCounts
	for _, fid := range b.fileIDs {
		switch c.files[fid].Status {
		case StatusCompleted:
			counts.Completed++
		case StatusFailed:
			counts.Failed++
		default:
			counts.InProgress++
		}
	}

	status := BatchInProgress
	switch {
	case b.cancelled:
		status = BatchCancelled
	case counts.Completed == len(b.fileIDs):
		status = BatchCompleted
	case counts.Failed == len(b.fileIDs):
		status = BatchFailed
	}

	return &Batch{
		ID:         b.id,
		FileIDs:    append([]string(nil), b.fileIDs...),
		Status:     status,
		FileCounts: counts,
		CreatedAt:  b.createdAt,
	}
}

// WaitForProcessing blocks until the record settles, the timeout fires,
// or ctx is cancelled. Exactly one outcome wins and the timer is always
// released.
func (c *MemoryClient) WaitForProcessing(ctx context.Context, id string, timeout time.Duration) (*FileRecord, error) {
	c.mu.Lock()
	rec, ok := c.files[id]
	if !ok {
		c.mu.Unlock()
		return nil, &NotFoundError{Kind: "file", ID: id}
	}
	if rec.Status.Terminal() {
		out := *rec
		c.mu.Unlock()
		return &out, nil
	}
	done := c.done[id]
	c.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return c.GetFile(ctx, id)
	case <-timer.C:
		return nil, &TimeoutError{FileID: id, Timeout: timeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Search ranks completed files against the query. The record set is
// snapshotted under the lock so concurrent uploads cannot skew one call.
func (c *MemoryClient) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Field: "query", Reason: "must not be empty"}
	}
	opts, err := normalizeSearchOptions(opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	docs := make([]search.Document, 0, len(c.order))
	for _, id := range c.order {
		rec := c.files[id]
		if rec.Status != StatusCompleted {
			continue
		}
		docs = append(docs, search.Document{
			ID:       rec.ID,
			Filename: rec.Filename,
			Content:  rec.Content,
		})
	}
	c.mu.Unlock()

	log.Debug("Searching store", "store", c.id, "docs", len(docs), "limit", opts.Limit, "threshold", opts.Threshold)

	matches := search.Rank(query, docs, search.Options{
		Limit:     opts.Limit,
		Threshold: opts.Threshold,
	})

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			FileID:   m.DocID,
			Filename: m.Filename,
			Snippet:  m.Snippet,
			Score:    m.Score,
		}
	}
	return results, nil
}

// Close cancels all pending transitions.
func (c *MemoryClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, cancel := range c.cancels {
		cancel()
		delete(c.cancels, id)
	}
	return nil
}
