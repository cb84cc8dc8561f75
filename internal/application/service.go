package application

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"vn.io.arda/notice/internal/domain"
)

// pageSize is the fixed page length for notice listings.
const pageSize = 10

const defaultStoreTimeout = 30 * time.Second

// Service holds all notice use-cases.
type Service struct {
	repo      domain.Repository
	blobs     BlobStore
	hub       NoticeHub
	publisher EventPublisher
	views     *ViewCounter

	// storagePath is recorded on attachment rows and used to build
	// download URLs; the BlobStore owns the actual directory.
	storagePath  string
	storeTimeout time.Duration
}

// NewService creates a new application Service. hub and publisher may be nil,
// which disables SSE broadcast and event publishing respectively.
func NewService(
	repo domain.Repository,
	blobs BlobStore,
	hub NoticeHub,
	publisher EventPublisher,
	views *ViewCounter,
	storagePath string,
	storeTimeout time.Duration,
) *Service {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &Service{
		repo:         repo,
		blobs:        blobs,
		hub:          hub,
		publisher:    publisher,
		views:        views,
		storagePath:  storagePath,
		storeTimeout: storeTimeout,
	}
}

// Create persists a new notice with zero views, broadcasts it to SSE
// subscribers and emits a lifecycle event.
func (s *Service) Create(ctx context.Context, input domain.NoticeInput) (*domain.Notice, error) {
	n, err := s.repo.CreateNotice(ctx, input)
	if err != nil {
		return nil, err
	}

	s.broadcast(n)
	s.publish(EventNoticeCreated, n)

	log.Info().
		Int64("uid", n.UID).
		Str("title", n.Title).
		Str("author", n.Author).
		Msg("notice created")

	return n, nil
}

// List returns one page of notices whose validity window has not ended.
func (s *Service) List(ctx context.Context, page int) ([]*domain.Notice, error) {
	if page < 0 {
		page = 0
	}
	return s.repo.ListNotices(ctx, domain.NoticeFilter{
		Now:    time.Now(),
		Limit:  pageSize,
		Offset: page * pageSize,
	})
}

// Get returns a notice with its attachments and records one view.
// The view lands in the in-memory pending map, never on the request path's
// database round trip, so retrieval latency is unaffected.
func (s *Service) Get(ctx context.Context, uid int64) (*domain.Notice, []*domain.Attachment, error) {
	n, err := s.repo.GetNotice(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	attachments, err := s.repo.AttachmentsByNotice(ctx, uid)
	if err != nil {
		return nil, nil, err
	}

	s.views.Add(uid)

	return n, attachments, nil
}

// Update overwrites the writable fields of an existing notice.
func (s *Service) Update(ctx context.Context, uid int64, input domain.NoticeInput) error {
	if err := s.repo.UpdateNotice(ctx, uid, input); err != nil {
		return err
	}
	s.publish(EventNoticeUpdated, &domain.Notice{UID: uid, Title: input.Title})
	return nil
}

// Delete removes a notice, its attachment rows and, best-effort and
// detached from the request, their blobs.
func (s *Service) Delete(ctx context.Context, uid int64) error {
	attachments, err := s.repo.AttachmentsByNotice(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteNotice(ctx, uid); err != nil {
		return err
	}

	if len(attachments) > 0 {
		names := make([]string, len(attachments))
		for i, a := range attachments {
			names[i] = a.StoredName
		}
		// Rows are already gone; a leaked blob is harmless, so the cleanup
		// does not hold up the caller.
		go s.removeBlobs(names)
	}

	s.publish(EventNoticeDeleted, &domain.Notice{UID: uid})

	log.Info().Int64("uid", uid).Int("attachments", len(attachments)).Msg("notice deleted")
	return nil
}

func (s *Service) broadcast(n *domain.Notice) {
	if s.hub == nil {
		return
	}
	// Non-blocking SSE broadcast
	go s.hub.Broadcast(n)
}

func (s *Service) publish(eventType string, n *domain.Notice) {
	if s.publisher == nil {
		return
	}
	go s.publisher.Publish(context.Background(), eventType, n)
}
