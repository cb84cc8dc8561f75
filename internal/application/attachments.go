package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"vn.io.arda/notice/internal/domain"
)

// UploadFile is one file in an upload batch.
type UploadFile struct {
	Name    string
	Content io.Reader
}

// UploadAttachments stores every file of the batch and records its metadata,
// all-or-nothing: the batch is validated up front, blobs are written
// concurrently under a per-call timeout, and metadata is inserted in one
// batch only after every write succeeded. On any failure the blobs already
// written are removed before the error returns, so the caller observes the
// store state it started with.
func (s *Service) UploadAttachments(ctx context.Context, noticeUID int64, files []UploadFile) ([]*domain.Attachment, error) {
	if len(files) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	notice, err := s.repo.GetNotice(ctx, noticeUID)
	if err != nil {
		return nil, err
	}

	// Validate the whole batch before touching either store.
	records := make([]*domain.Attachment, len(files))
	for i, f := range files {
		stored, err := domain.StoredFileName(f.Name, notice.UID)
		if err != nil {
			return nil, err
		}
		records[i] = &domain.Attachment{
			NoticeUID:  notice.UID,
			OriginName: f.Name,
			StoredName: stored,
			Path:       s.storagePath,
		}
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	// Concurrent blob writes, then a barrier: metadata is persisted only
	// once every write in the batch has succeeded.
	storeErrs := make([]error, len(files))
	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			storeErrs[i] = s.blobs.Store(storeCtx, records[i].StoredName, files[i].Content)
		}(i)
	}
	wg.Wait()

	var failed error
	written := make([]string, 0, len(files))
	for i, err := range storeErrs {
		if err == nil {
			written = append(written, records[i].StoredName)
		} else if failed == nil {
			failed = fmt.Errorf("store %s: %w", files[i].Name, err)
		}
	}

	if failed == nil {
		saved, err := s.repo.SaveAttachments(ctx, records)
		if err == nil {
			log.Info().Int64("notice", notice.UID).Int("files", len(saved)).Msg("attachments uploaded")
			return saved, nil
		}
		failed = fmt.Errorf("save attachment records: %w", err)
	}

	s.removeBlobs(written)
	log.Error().Err(failed).Int64("notice", notice.UID).Int("files", len(files)).Msg("attachment upload aborted")
	return nil, failed
}

// DeleteAttachments removes the given attachments of a notice. Every UID is
// validated before anything is touched; the removal itself is best effort
// per file. A blob that fails to delete is reported but never resurrects
// its metadata row: a dangling row pointing at a live file is worse than a
// leaked file.
func (s *Service) DeleteAttachments(ctx context.Context, noticeUID int64, attachmentUIDs []int64) error {
	if len(attachmentUIDs) == 0 {
		return domain.ErrEmptyBatch
	}
	if _, err := s.repo.GetNotice(ctx, noticeUID); err != nil {
		return err
	}

	// Validate all, then act.
	attachments := make([]*domain.Attachment, 0, len(attachmentUIDs))
	for _, uid := range attachmentUIDs {
		a, err := s.repo.GetAttachment(ctx, uid)
		if err != nil {
			return err
		}
		if a.NoticeUID != noticeUID {
			return fmt.Errorf("%w: notice %d, attachment %d", domain.ErrAttachmentMismatch, noticeUID, uid)
		}
		attachments = append(attachments, a)
	}

	// No ordering between files; within one file the row goes first.
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, a := range attachments {
		wg.Add(1)
		go func(a *domain.Attachment) {
			defer wg.Done()
			if err := s.repo.DeleteAttachment(ctx, a.UID); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("delete record %d: %w", a.UID, err))
				mu.Unlock()
				return
			}
			if err := s.blobs.Delete(ctx, a.StoredName); err != nil {
				log.Warn().Err(err).Str("file", a.StoredName).Msg("blob delete failed, record already removed")
				mu.Lock()
				errs = append(errs, fmt.Errorf("delete blob %s: %w", a.StoredName, err))
				mu.Unlock()
			}
		}(a)
	}
	wg.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d attachments failed: %w", len(errs), len(attachments), errors.Join(errs...))
	}

	log.Info().Int64("notice", noticeUID).Int("files", len(attachments)).Msg("attachments deleted")
	return nil
}

// removeBlobs deletes stored blobs concurrently and waits for completion.
// Failures are only logged.
func (s *Service) removeBlobs(names []string) {
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), s.storeTimeout)
			defer cancel()
			if err := s.blobs.Delete(ctx, name); err != nil {
				log.Warn().Err(err).Str("file", name).Msg("blob cleanup failed")
			}
		}(name)
	}
	wg.Wait()
}
