package messages

import "fmt"

// ─── Notice builders ─────────────────────────────────────────────────────────

func NoticeCreated() string {
	return NoticeCreatedMsg
}

func NoticeUpdated() string {
	return NoticeUpdatedMsg
}

func NoticeDeleted() string {
	return NoticeDeletedMsg
}

func NoticeNotFound(uid int64) string {
	return fmt.Sprintf(NoticeNotFoundMsg, uid)
}

// ─── Attachment builders ─────────────────────────────────────────────────────

func AttachmentsUploaded(count int) string {
	return fmt.Sprintf(AttachmentsUploadedMsg, count)
}

func AttachmentsDeleted() string {
	return AttachmentsDeletedMsg
}

func AttachmentNotFound() string {
	return AttachmentNotFoundMsg
}

func AttachmentMismatch(noticeUID int64) string {
	return fmt.Sprintf(AttachmentMismatchMsg, noticeUID)
}

func InvalidFilename() string {
	return InvalidFilenameMsg
}

func EmptyBatch() string {
	return EmptyBatchMsg
}

func UploadFailed() string {
	return UploadFailedMsg
}

func InternalError() string {
	return InternalErrorMsg
}
