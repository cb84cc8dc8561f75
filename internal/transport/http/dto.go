package http

import (
	"strings"
	"time"

	"vn.io.arda/notice/internal/domain"
)

// timeLayout is the wire format for all timestamps.
const timeLayout = "2006-01-02 15:04:05"

// response is the envelope every endpoint returns.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func success(message string, data any) response {
	return response{Success: true, Message: message, Data: data}
}

func failure(message string) response {
	return response{Success: false, Message: message}
}

// noticeRequest is the create/update payload.
type noticeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

func (r noticeRequest) toInput() (domain.NoticeInput, error) {
	startAt, err := time.Parse(timeLayout, r.StartAt)
	if err != nil {
		return domain.NoticeInput{}, err
	}
	endAt, err := time.Parse(timeLayout, r.EndAt)
	if err != nil {
		return domain.NoticeInput{}, err
	}
	return domain.NoticeInput{
		Title:   r.Title,
		Content: r.Content,
		Author:  r.Author,
		StartAt: startAt,
		EndAt:   endAt,
	}, nil
}

// bulkDeleteRequest is the attachment bulk-delete payload.
type bulkDeleteRequest struct {
	AttachmentUIDs []int64 `json:"attachment_uids"`
}

// noticeSummary is the listing view of a notice.
type noticeSummary struct {
	UID       int64  `json:"uid"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

func toNoticeSummary(n *domain.Notice) noticeSummary {
	return noticeSummary{
		UID:       n.UID,
		Title:     n.Title,
		CreatedAt: n.CreatedAt.Format(timeLayout),
	}
}

// noticeDetail is the single-notice view including attachments.
type noticeDetail struct {
	UID         int64            `json:"uid"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Author      string           `json:"author"`
	Views       int64            `json:"views"`
	StartAt     string           `json:"start_at"`
	EndAt       string           `json:"end_at"`
	CreatedAt   string           `json:"created_at"`
	Attachments []attachmentView `json:"attachments"`
}

type attachmentView struct {
	UID        int64  `json:"uid"`
	OriginName string `json:"origin_name"`
	FileURL    string `json:"file_url"`
}

func toNoticeDetail(n *domain.Notice, attachments []*domain.Attachment, baseURL string) noticeDetail {
	views := make([]attachmentView, 0, len(attachments))
	for _, a := range attachments {
		views = append(views, toAttachmentView(a, baseURL))
	}
	return noticeDetail{
		UID:         n.UID,
		Title:       n.Title,
		Content:     n.Content,
		Author:      n.Author,
		Views:       n.Views,
		StartAt:     n.StartAt.Format(timeLayout),
		EndAt:       n.EndAt.Format(timeLayout),
		CreatedAt:   n.CreatedAt.Format(timeLayout),
		Attachments: views,
	}
}

func toAttachmentView(a *domain.Attachment, baseURL string) attachmentView {
	path := strings.TrimPrefix(a.Path, "./")
	return attachmentView{
		UID:        a.UID,
		OriginName: a.OriginName,
		FileURL:    strings.TrimSuffix(baseURL, "/") + "/" + strings.Trim(path, "/") + "/" + a.StoredName,
	}
}
