// Package vectorstore provides file ingestion, batch tracking, and search
// over uploaded documents.
package vectorstore

import "time"

// FileStatus represents the lifecycle state of an uploaded file.
type FileStatus string

const (
	StatusUploading  FileStatus = "uploading"
	StatusProcessing FileStatus = "processing"
	StatusCompleted  FileStatus = "completed"
	StatusFailed     FileStatus = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s FileStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// BatchStatus represents the aggregate state of a file batch.
type BatchStatus string

const (
	BatchInProgress BatchStatus = "in_progress"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
	BatchCancelled  BatchStatus = "cancelled"
)

// Contract constants shared with callers.
const (
	MaxFileSize        = 512 << 20 // 512 MiB
	MaxFilesPerBatch   = 20
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
)

// FileRecord represents an uploaded file and its processing state.
// The id is assigned synchronously at upload time and never changes.
type FileRecord struct {
	ID        string     `json:"id"`
	Filename  string     `json:"filename"`
	Status    FileStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	Error     string     `json:"error,omitempty"`
	Hash      string     `json:"hash,omitempty"`
	Size      int64      `json:"size"`

	// Content is retained for keyword indexing. A production store would
	// keep only the embedding.
	Content string `json:"-"`
}

// FileCounts aggregates per-file outcomes within a batch.
// Completed + InProgress + Failed always equals the batch size.
type FileCounts struct {
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Failed     int `json:"failed"`
}

// Total returns the sum of all counts.
func (c FileCounts) Total() int {
	return c.Completed + c.InProgress + c.Failed
}

// Batch groups file uploads whose completion is tracked in aggregate.
// Status and FileCounts are derived from the member records at read time.
type Batch struct {
	ID         string      `json:"id"`
	FileIDs    []string    `json:"fileIds"`
	Status     BatchStatus `json:"status"`
	FileCounts FileCounts  `json:"fileCounts"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// SearchResult is a scored match against a completed file.
type SearchResult struct {
	FileID   string  `json:"fileId"`
	Filename string  `json:"filename"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"` // 0-1, higher is better
}

// SearchOptions configures a search call.
type SearchOptions struct {
	// Limit is the maximum number of results (default 10, capped at 100).
	Limit int

	// Threshold filters results below this relevance score.
	Threshold float64
}

// DefaultSearchOptions returns sensible defaults.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit:     DefaultSearchLimit,
		Threshold: 0.0,
	}
}

// UploadResponse is the boundary schema returned to upload callers.
type UploadResponse struct {
	Success       bool         `json:"success"`
	Files         []FileRecord `json:"files"`
	VectorStoreID string       `json:"vectorStoreId"`
	BatchID       string       `json:"batchId,omitempty"`
	Message       string       `json:"message"`
}

// StatusResponse is the boundary schema for batch status polling.
type StatusResponse struct {
	Success         bool        `json:"success"`
	Status          BatchStatus `json:"status"`
	CompletedCount  int         `json:"completedCount"`
	InProgressCount int         `json:"inProgressCount"`
	FailedCount     int         `json:"failedCount"`
}

// StatusOf builds a StatusResponse from a batch.
func StatusOf(b *Batch) StatusResponse {
	return StatusResponse{
		Success:         true,
		Status:          b.Status,
		CompletedCount:  b.FileCounts.Completed,
		InProgressCount: b.FileCounts.InProgress,
		FailedCount:     b.FileCounts.Failed,
	}
}
