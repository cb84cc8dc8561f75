package messages

// ─── Notice ──────────────────────────────────────────────────────────────────

const (
	NoticeCreatedMsg = "게시글이 등록되었습니다."
	NoticeUpdatedMsg = "게시글이 수정되었습니다."
	NoticeDeletedMsg = "게시글이 삭제되었습니다."

	NoticeNotFoundMsg = "해당 게시글이 존재하지 않습니다. uid: %d"
)

// ─── Attachment ──────────────────────────────────────────────────────────────

const (
	AttachmentsUploadedMsg = "첨부파일 %d건이 업로드되었습니다."
	AttachmentsDeletedMsg  = "첨부파일이 삭제되었습니다."

	AttachmentNotFoundMsg = "해당 첨부파일이 존재하지 않습니다."
	AttachmentMismatchMsg = "해당 게시글에 해당하는 첨부파일이 없습니다. notice uid: %d"
	InvalidFilenameMsg    = "첨부파일 이름이 올바르지 않습니다. 확장자를 확인해 주세요."
	EmptyBatchMsg         = "업로드할 첨부파일이 없습니다."
	UploadFailedMsg       = "첨부파일 업로드에 실패했습니다."
)

// ─── Generic ─────────────────────────────────────────────────────────────────

const InternalErrorMsg = "요청 처리 중 오류가 발생했습니다."
