package application

import (
	"context"
	"io"

	"vn.io.arda/notice/internal/domain"
)

// BlobStore is the port for attachment byte storage.
// The filesystem implementation lives in infrastructure/disk.
type BlobStore interface {
	// Store persists the blob under the given stored name.
	Store(ctx context.Context, name string, r io.Reader) error

	// Delete removes a stored blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
}

// NoticeHub broadcasts newly published notices to connected SSE clients.
// Implementation lives in transport/http/sse_hub.go.
type NoticeHub interface {
	Broadcast(n *domain.Notice)
}

// Notice lifecycle event types carried on the message bus.
const (
	EventNoticeCreated = "NOTICE_CREATED"
	EventNoticeUpdated = "NOTICE_UPDATED"
	EventNoticeDeleted = "NOTICE_DELETED"
)

// EventPublisher emits notice lifecycle events to the message bus.
// Implementation lives in internal/kafka; a nil publisher disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, n *domain.Notice)
}
