package application_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"vn.io.arda/notice/internal/domain"
)

// fakeRepo is an in-memory domain.Repository recording AddViews calls.
type fakeRepo struct {
	mu          sync.Mutex
	notices     map[int64]*domain.Notice
	attachments map[int64]*domain.Attachment
	nextUID     int64
	viewAdds    map[int64]int64
	viewCalls   int
	failViews   map[int64]bool
	saveErr     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		notices:     make(map[int64]*domain.Notice),
		attachments: make(map[int64]*domain.Attachment),
		viewAdds:    make(map[int64]int64),
		failViews:   make(map[int64]bool),
	}
}

func (f *fakeRepo) CreateNotice(_ context.Context, input domain.NoticeInput) (*domain.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUID++
	n := &domain.Notice{
		UID:       f.nextUID,
		Title:     input.Title,
		Content:   input.Content,
		Author:    input.Author,
		StartAt:   input.StartAt,
		EndAt:     input.EndAt,
		CreatedAt: time.Now(),
	}
	f.notices[n.UID] = n
	return n, nil
}

func (f *fakeRepo) ListNotices(_ context.Context, fl domain.NoticeFilter) ([]*domain.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var results []*domain.Notice
	for _, n := range f.notices {
		if n.EndAt.After(fl.Now) {
			results = append(results, n)
		}
	}
	return results, nil
}

func (f *fakeRepo) GetNotice(_ context.Context, uid int64) (*domain.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notices[uid]
	if !ok {
		return nil, domain.ErrNoticeNotFound
	}
	return n, nil
}

func (f *fakeRepo) UpdateNotice(_ context.Context, uid int64, input domain.NoticeInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notices[uid]
	if !ok {
		return domain.ErrNoticeNotFound
	}
	n.Title = input.Title
	n.Content = input.Content
	n.Author = input.Author
	n.StartAt = input.StartAt
	n.EndAt = input.EndAt
	return nil
}

func (f *fakeRepo) DeleteNotice(_ context.Context, uid int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notices[uid]; !ok {
		return domain.ErrNoticeNotFound
	}
	delete(f.notices, uid)
	for auid, a := range f.attachments {
		if a.NoticeUID == uid {
			delete(f.attachments, auid)
		}
	}
	return nil
}

func (f *fakeRepo) AddViews(_ context.Context, uid int64, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.viewCalls++
	if f.failViews[uid] {
		return errors.New("add views failed")
	}
	f.viewAdds[uid] += delta
	if n, ok := f.notices[uid]; ok {
		n.Views += delta
	}
	return nil
}

func (f *fakeRepo) SaveAttachments(_ context.Context, attachments []*domain.Attachment) ([]*domain.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	saved := make([]*domain.Attachment, 0, len(attachments))
	for _, a := range attachments {
		f.nextUID++
		copied := *a
		copied.UID = f.nextUID
		f.attachments[copied.UID] = &copied
		saved = append(saved, &copied)
	}
	return saved, nil
}

func (f *fakeRepo) AttachmentsByNotice(_ context.Context, noticeUID int64) ([]*domain.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var results []*domain.Attachment
	for _, a := range f.attachments {
		if a.NoticeUID == noticeUID {
			results = append(results, a)
		}
	}
	return results, nil
}

func (f *fakeRepo) GetAttachment(_ context.Context, uid int64) (*domain.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attachments[uid]
	if !ok {
		return nil, domain.ErrAttachmentNotFound
	}
	return a, nil
}

func (f *fakeRepo) DeleteAttachment(_ context.Context, uid int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.attachments[uid]; !ok {
		return domain.ErrAttachmentNotFound
	}
	delete(f.attachments, uid)
	return nil
}

func (f *fakeRepo) recordedViews() map[int64]int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64]int64, len(f.viewAdds))
	for k, v := range f.viewAdds {
		out[k] = v
	}
	return out
}

func (f *fakeRepo) attachmentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attachments)
}

// fakeBlobs is an in-memory application.BlobStore. A file whose content is
// "boom" fails to store; names in failDelete fail to delete.
type fakeBlobs struct {
	mu         sync.Mutex
	files      map[string][]byte
	failDelete map[string]bool
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{
		files:      make(map[string][]byte),
		failDelete: make(map[string]bool),
	}
}

func (b *fakeBlobs) Store(_ context.Context, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if string(data) == "boom" {
		return fmt.Errorf("disk full writing %s", name)
	}
	b.mu.Lock()
	b.files[name] = data
	b.mu.Unlock()
	return nil
}

func (b *fakeBlobs) Delete(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failDelete[name] {
		return fmt.Errorf("cannot delete %s", name)
	}
	delete(b.files, name)
	return nil
}

func (b *fakeBlobs) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.files)
}

func (b *fakeBlobs) has(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.files[name]
	return ok
}
