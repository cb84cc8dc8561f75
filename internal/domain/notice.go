package domain

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Notice is the core domain entity: a published announcement with a
// validity window and an approximate view count.
//
// Views is updated only by the periodic flush of pending in-memory deltas,
// so the value read from the database may lag the true count by at most one
// flush interval.
type Notice struct {
	UID       int64     `json:"uid"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Views     int64     `json:"views"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Attachment is a file owned by exactly one notice. OriginName is the name
// the uploader sent; StoredName is the collision-resistant on-disk name.
type Attachment struct {
	UID        int64  `json:"uid"`
	NoticeUID  int64  `json:"notice_uid"`
	OriginName string `json:"origin_name"`
	StoredName string `json:"stored_name"`
	Path       string `json:"path"`
}

// NoticeInput carries the writable notice fields for create and update.
type NoticeInput struct {
	Title   string
	Content string
	Author  string
	StartAt time.Time
	EndAt   time.Time
}

// NoticeFilter holds paging parameters for listing notices that are still
// within their validity window at Now.
type NoticeFilter struct {
	Now    time.Time
	Limit  int
	Offset int
}

// StoredFileName builds the on-disk name for an uploaded file:
// "<noticeUID>_<random token>.<original extension>". The embedded token makes
// collisions impossible without a uniqueness lookup against existing rows.
func StoredFileName(originName string, noticeUID int64) (string, error) {
	ext := filepath.Ext(originName)
	if originName == "" || ext == "" || ext == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, originName)
	}
	return fmt.Sprintf("%d_%s%s", noticeUID, uuid.NewString(), ext), nil
}
