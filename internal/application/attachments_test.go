package application_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"vn.io.arda/notice/internal/application"
	"vn.io.arda/notice/internal/domain"
)

func newTestService(repo *fakeRepo, blobs *fakeBlobs) *application.Service {
	return application.NewService(
		repo, blobs, nil, nil,
		application.NewViewCounter(repo),
		"data/attachments",
		time.Second,
	)
}

func createNotice(t *testing.T, repo *fakeRepo) *domain.Notice {
	t.Helper()
	n, err := repo.CreateNotice(context.Background(), domain.NoticeInput{
		Title:   "점검 안내",
		Content: "정기 점검이 진행됩니다.",
		Author:  "admin",
		StartAt: time.Now(),
		EndAt:   time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create notice: %v", err)
	}
	return n
}

func TestUploadAttachments_EmptyBatch(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobs()
	svc := newTestService(repo, blobs)

	_, err := svc.UploadAttachments(context.Background(), 1, nil)
	if !errors.Is(err, domain.ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestUploadAttachments_MissingNotice(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobs()
	svc := newTestService(repo, blobs)

	_, err := svc.UploadAttachments(context.Background(), 99, []application.UploadFile{
		{Name: "a.txt", Content: strings.NewReader("hello")},
	})
	if !errors.Is(err, domain.ErrNoticeNotFound) {
		t.Fatalf("expected ErrNoticeNotFound, got %v", err)
	}
	if blobs.count() != 0 {
		t.Fatal("no blob may be written for a missing notice")
	}
}

func TestUploadAttachments_NoExtensionFailsBeforeAnyWrite(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobs()
	svc := newTestService(repo, blobs)
	n := createNotice(t, repo)

	_, err := svc.UploadAttachments(context.Background(), n.UID, []application.UploadFile{
		{Name: "a.txt", Content: strings.NewReader("hello")},
		{Name: "README", Content: strings.NewReader("no extension")},
	})
	if !errors.Is(err, domain.ErrInvalidFilename) {
		t.Fatalf("expected ErrInvalidFilename, got %v", err)
	}
	if blobs.count() != 0 {
		t.Fatal("validation must fail before any blob is written")
	}
	if repo.attachmentCount() != 0 {
		t.Fatal("validation must fail before any metadata is persisted")
	}
}

func TestUploadAttachments_TwoFiles(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobs()
	svc := newTestService(repo, blobs)
	n := createNotice(t, repo)

	saved, err := svc.UploadAttachments(context.Background(), n.UID, []application.UploadFile{
		{Name: "schedule.txt", Content: strings.NewReader("first")},
		{Name: "map.png", Content: strings.NewReader("second")},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(saved))
	}
	if blobs.count() != 2 {
		t.Fatalf("expected 2 blobs, got %d", blobs.count())
	}

	if saved[0].StoredName == saved[1].StoredName {
		t.Fatal("stored names must be distinct")
	}
	prefix := fmt.Sprintf("%d_", n.UID)
	for _, a := range saved {
		if !strings.HasPrefix(a.StoredName, prefix) {
			t.Fatalf("stored name %q must embed the notice uid", a.StoredName)
		}
		if !blobs.has(a.StoredName) {
			t.Fatalf("blob %q missing", a.StoredName)
		}
	}
	if !strings.HasSuffix(saved[0].StoredName, ".txt") || !strings.HasSuffix(saved[1].StoredName, ".png") {
		t.Fatalf("stored names must keep original extensions: %q, %q", saved[0].StoredName, saved[1].StoredName)
	}
}

func TestUploadAttachments_SecondFileFailureRollsBackBatch(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobs()
	svc := newTestService(repo, blobs)
	n := createNotice(t, repo)

	_, err := svc.UploadAttachments(context.Background(), n.UID, []application.UploadFile{
		{Name: "ok.txt", Content: strings.NewReader("fine")},
		{Name: "bad.txt", Content: strings.NewReader("boom")},
	})
	if err == nil {
		t.Fatal("expected upload to fail")
	}
	if blobs.count() != 0 {
		t.Fatalf("already-written blobs must be cleaned up, %d remain", blobs.count())
	}
	if repo.attachmentCount() != 0 {
		t.Fatal("no metadata may be persisted for an aborted batch")
	}
}

func TestUploadAttachments_MetadataFailureCleansBlobs(t *testing.T) {
	repo := newFakeRepo()
	repo.saveErr = errors.New("constraint violation")
	blobs := newFakeBlobs()
	svc := newTestService(repo, blobs)
	n := createNotice(t, repo)

	_, err := svc.UploadAttachments(context.Background(), n.UID, []application.UploadFile{
		{Name: "a.txt", Content: strings.NewReader("one")},
		{Name: "b.txt", Content: strings.NewReader("two")},
	})
	if err == nil {
		t.Fatal("expected upload to fail")
	}
	if blobs.count() != 0 {
		t.Fatalf("blobs must be cleaned up after metadata failure, %d remain", blobs.count())
	}
}

func saveAttachment(t *testing.T, repo *fakeRepo, blobs *fakeBlobs, noticeUID int64, origin string) *domain.Attachment {
	t.Helper()
	stored, err := domain.StoredFileName(origin, noticeUID)
	if err != nil {
		t.Fatalf("stored name: %v", err)
	}
	saved, err := repo.SaveAttachments(context.Background(), []*domain.Attachment{{
		NoticeUID:  noticeUID,
		OriginName: origin,
		StoredName: stored,
		Path:       "data/attachments",
	}})
	if err != nil {
		t.Fatalf("save attachment: %v", err)
	}
	blobs.files[stored] = []byte("content")
	return saved[0]
}

func TestDeleteAttachments_MismatchRejectsWholeBatch(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobs()
	svc := newTestService(repo, blobs)
	first := createNotice(t, repo)
	second := createNotice(t, repo)

	mine := saveAttachment(t, repo, blobs, first.UID, "mine.txt")
	other := saveAttachment(t, repo, blobs, second.UID, "other.txt")

	err := svc.DeleteAttachments(context.Background(), first.UID, []int64{mine.UID, other.UID})
	if !errors.Is(err, domain.ErrAttachmentMismatch) {
		t.Fatalf("expected ErrAttachmentMismatch, got %v", err)
	}
	// Validate-all-then-act: nothing was deleted, not even the valid one.
	if repo.attachmentCount() != 2 {
		t.Fatalf("expected both rows intact, got %d", repo.attachmentCount())
	}
	if blobs.count() != 2 {
		t.Fatalf("expected both blobs intact, got %d", blobs.count())
	}
}

func TestDeleteAttachments_RemovesRowsAndBlobs(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobs()
	svc := newTestService(repo, blobs)
	n := createNotice(t, repo)

	a := saveAttachment(t, repo, blobs, n.UID, "a.txt")
	b := saveAttachment(t, repo, blobs, n.UID, "b.png")

	if err := svc.DeleteAttachments(context.Background(), n.UID, []int64{a.UID, b.UID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.attachmentCount() != 0 {
		t.Fatalf("expected all rows removed, got %d", repo.attachmentCount())
	}
	if blobs.count() != 0 {
		t.Fatalf("expected all blobs removed, got %d", blobs.count())
	}
}

func TestDeleteAttachments_BlobFailureIsPartialNotRollback(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobs()
	svc := newTestService(repo, blobs)
	n := createNotice(t, repo)

	a := saveAttachment(t, repo, blobs, n.UID, "a.txt")
	b := saveAttachment(t, repo, blobs, n.UID, "b.txt")
	blobs.failDelete[b.StoredName] = true

	err := svc.DeleteAttachments(context.Background(), n.UID, []int64{a.UID, b.UID})
	if err == nil {
		t.Fatal("expected a partial-failure error")
	}
	// Both rows are gone regardless: a blob delete failure never
	// resurrects metadata.
	if repo.attachmentCount() != 0 {
		t.Fatalf("expected all rows removed, got %d", repo.attachmentCount())
	}
	if !blobs.has(b.StoredName) {
		t.Fatal("failing blob should still exist")
	}
}

func TestDeleteAttachments_EmptyBatch(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeBlobs())

	err := svc.DeleteAttachments(context.Background(), 1, nil)
	if !errors.Is(err, domain.ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}
