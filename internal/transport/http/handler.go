package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"vn.io.arda/notice/internal/application"
	"vn.io.arda/notice/internal/domain"
	"vn.io.arda/notice/internal/messages"
)

// Handler holds all HTTP handler methods.
type Handler struct {
	svc         *application.Service
	hub         *Hub
	fileBaseURL string
}

// NewHandler creates a new Handler. fileBaseURL is prepended to attachment
// paths when building download URLs.
func NewHandler(svc *application.Service, hub *Hub, fileBaseURL string) *Handler {
	return &Handler{svc: svc, hub: hub, fileBaseURL: fileBaseURL}
}

// --- REST Handlers ---

// CreateNotice POST /api/v1/notices
func (h *Handler) CreateNotice(c echo.Context) error {
	var req noticeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	input, err := req.toInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid timestamp, expected "+timeLayout)
	}

	n, err := h.svc.Create(c.Request().Context(), input)
	if err != nil {
		return h.fail(c, err, 0)
	}
	return c.JSON(http.StatusCreated, success(messages.NoticeCreated(), map[string]int64{"uid": n.UID}))
}

// ListNotices GET /api/v1/notices?page=
func (h *Handler) ListNotices(c echo.Context) error {
	page := parseIntQuery(c, "page", 0)

	notices, err := h.svc.List(c.Request().Context(), page)
	if err != nil {
		return h.fail(c, err, 0)
	}

	summaries := make([]noticeSummary, 0, len(notices))
	for _, n := range notices {
		summaries = append(summaries, toNoticeSummary(n))
	}
	return c.JSON(http.StatusOK, success("", summaries))
}

// GetNotice GET /api/v1/notices/:uid
func (h *Handler) GetNotice(c echo.Context) error {
	uid, err := parseUID(c)
	if err != nil {
		return err
	}

	n, attachments, err := h.svc.Get(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, err, uid)
	}
	return c.JSON(http.StatusOK, success("", toNoticeDetail(n, attachments, h.fileBaseURL)))
}

// UpdateNotice PUT /api/v1/notices/:uid
func (h *Handler) UpdateNotice(c echo.Context) error {
	uid, err := parseUID(c)
	if err != nil {
		return err
	}
	var req noticeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	input, err := req.toInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid timestamp, expected "+timeLayout)
	}

	if err := h.svc.Update(c.Request().Context(), uid, input); err != nil {
		return h.fail(c, err, uid)
	}
	return c.JSON(http.StatusOK, success(messages.NoticeUpdated(), nil))
}

// DeleteNotice DELETE /api/v1/notices/:uid
func (h *Handler) DeleteNotice(c echo.Context) error {
	uid, err := parseUID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), uid); err != nil {
		return h.fail(c, err, uid)
	}
	return c.JSON(http.StatusOK, success(messages.NoticeDeleted(), nil))
}

// UploadAttachments POST /api/v1/notices/:uid/attachments
// Multipart form, file field "attachments".
func (h *Handler) UploadAttachments(c echo.Context) error {
	uid, err := parseUID(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form required")
	}

	headers := form.File["attachments"]
	files := make([]application.UploadFile, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("open uploaded file %s", fh.Filename))
		}
		defer src.Close()
		files = append(files, application.UploadFile{Name: fh.Filename, Content: src})
	}

	saved, err := h.svc.UploadAttachments(c.Request().Context(), uid, files)
	if err != nil {
		return h.fail(c, err, uid)
	}

	views := make([]attachmentView, 0, len(saved))
	for _, a := range saved {
		views = append(views, toAttachmentView(a, h.fileBaseURL))
	}
	return c.JSON(http.StatusCreated, success(messages.AttachmentsUploaded(len(saved)), views))
}

// BulkDeleteAttachments POST /api/v1/notices/:uid/attachments/bulk-delete
func (h *Handler) BulkDeleteAttachments(c echo.Context) error {
	uid, err := parseUID(c)
	if err != nil {
		return err
	}
	var req bulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.DeleteAttachments(c.Request().Context(), uid, req.AttachmentUIDs); err != nil {
		return h.fail(c, err, uid)
	}
	return c.JSON(http.StatusOK, success(messages.AttachmentsDeleted(), nil))
}

// --- SSE Handler ---

// Stream GET /api/v1/notices/stream — pushes newly published notices.
func (h *Handler) Stream(c echo.Context) error {
	w := c.Response()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable Nginx/APISIX buffering

	sendCh := make(chan []byte, 32)
	client := h.hub.Register(sendCh)
	defer h.hub.Unregister(client)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"ok\"}\n\n")
	w.Flush()

	log.Info().Msg("SSE stream opened")

	ctx := c.Request().Context()
	for {
		select {
		case msg, ok := <-sendCh:
			if !ok {
				return nil
			}
			if _, err := w.Write(msg); err != nil {
				return nil
			}
			w.Flush()

		case <-ctx.Done():
			log.Info().Msg("SSE stream closed by client")
			return nil
		}
	}
}

// --- Healthcheck ---

// Health GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"sse_clients": h.hub.ConnectedCount(),
	})
}

// --- Helpers ---

// fail maps domain errors to HTTP status codes with localized messages.
func (h *Handler) fail(c echo.Context, err error, noticeUID int64) error {
	switch {
	case errors.Is(err, domain.ErrNoticeNotFound):
		return c.JSON(http.StatusNotFound, failure(messages.NoticeNotFound(noticeUID)))
	case errors.Is(err, domain.ErrAttachmentNotFound):
		return c.JSON(http.StatusNotFound, failure(messages.AttachmentNotFound()))
	case errors.Is(err, domain.ErrAttachmentMismatch):
		return c.JSON(http.StatusBadRequest, failure(messages.AttachmentMismatch(noticeUID)))
	case errors.Is(err, domain.ErrInvalidFilename):
		return c.JSON(http.StatusBadRequest, failure(messages.InvalidFilename()))
	case errors.Is(err, domain.ErrEmptyBatch):
		return c.JSON(http.StatusBadRequest, failure(messages.EmptyBatch()))
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.JSON(http.StatusInternalServerError, failure(messages.InternalError()))
}

func parseUID(c echo.Context) (int64, error) {
	uid, err := strconv.ParseInt(c.Param("uid"), 10, 64)
	if err != nil || uid <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid uid")
	}
	return uid, nil
}

func parseIntQuery(c echo.Context, key string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}
