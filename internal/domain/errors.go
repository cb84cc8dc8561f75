package domain

import "errors"

// Failure taxonomy for the notice service. Layers wrap these with context via
// fmt.Errorf("...: %w", err); callers match with errors.Is.
var (
	ErrNoticeNotFound     = errors.New("notice not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrAttachmentMismatch = errors.New("attachment does not belong to notice")
	ErrInvalidFilename    = errors.New("invalid file name")
	ErrEmptyBatch         = errors.New("empty attachment batch")
)
