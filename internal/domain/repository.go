package domain

import "context"

// Repository defines the port for notice and attachment persistence.
// Implementations live in infrastructure/postgres.
type Repository interface {
	// CreateNotice stores a new notice with zero views and returns the saved entity.
	CreateNotice(ctx context.Context, input NoticeInput) (*Notice, error)

	// ListNotices fetches notices matching the filter, newest first.
	ListNotices(ctx context.Context, f NoticeFilter) ([]*Notice, error)

	// GetNotice fetches a single notice. Returns ErrNoticeNotFound if absent.
	GetNotice(ctx context.Context, uid int64) (*Notice, error)

	// UpdateNotice overwrites the writable fields of an existing notice.
	UpdateNotice(ctx context.Context, uid int64, input NoticeInput) error

	// DeleteNotice removes a notice and its attachment rows.
	DeleteNotice(ctx context.Context, uid int64) error

	// AddViews adds delta to a notice's view count in a single atomic
	// statement (views = views + delta), never a read-then-write round trip.
	AddViews(ctx context.Context, uid int64, delta int64) error

	// SaveAttachments inserts all attachment records in one batch and
	// returns them with assigned UIDs.
	SaveAttachments(ctx context.Context, attachments []*Attachment) ([]*Attachment, error)

	// AttachmentsByNotice fetches all attachments owned by a notice.
	AttachmentsByNotice(ctx context.Context, noticeUID int64) ([]*Attachment, error)

	// GetAttachment fetches a single attachment. Returns ErrAttachmentNotFound if absent.
	GetAttachment(ctx context.Context, uid int64) (*Attachment, error)

	// DeleteAttachment removes a single attachment record.
	DeleteAttachment(ctx context.Context, uid int64) error
}
