package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"vn.io.arda/notice/internal/domain"
)

// Repository is the PostgreSQL implementation of domain.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new postgres Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateNotice inserts a new notice record with zero views.
func (r *Repository) CreateNotice(ctx context.Context, input domain.NoticeInput) (*domain.Notice, error) {
	var n domain.Notice
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notice (title, content, author, views, start_at, end_at)
		VALUES ($1, $2, $3, 0, $4, $5)
		RETURNING uid, title, content, author, views, start_at, end_at, created_at
	`, input.Title, input.Content, input.Author, input.StartAt, input.EndAt).
		Scan(&n.UID, &n.Title, &n.Content, &n.Author, &n.Views, &n.StartAt, &n.EndAt, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert notice: %w", err)
	}
	return &n, nil
}

// ListNotices fetches notices still inside their validity window, newest first.
func (r *Repository) ListNotices(ctx context.Context, f domain.NoticeFilter) ([]*domain.Notice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT uid, title, content, author, views, start_at, end_at, created_at
		FROM notice
		WHERE end_at > $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, f.Now, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	defer rows.Close()

	var results []*domain.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, n)
	}
	return results, rows.Err()
}

// GetNotice fetches a single notice.
func (r *Repository) GetNotice(ctx context.Context, uid int64) (*domain.Notice, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT uid, title, content, author, views, start_at, end_at, created_at
		FROM notice WHERE uid = $1
	`, uid)
	n, err := scanNotice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoticeNotFound
		}
		return nil, err
	}
	return n, nil
}

// UpdateNotice overwrites the writable fields of an existing notice.
func (r *Repository) UpdateNotice(ctx context.Context, uid int64, input domain.NoticeInput) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notice SET title = $1, content = $2, author = $3, start_at = $4, end_at = $5
		WHERE uid = $6
	`, input.Title, input.Content, input.Author, input.StartAt, input.EndAt, uid)
	if err != nil {
		return fmt.Errorf("update notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoticeNotFound
	}
	return nil
}

// DeleteNotice removes a notice together with its attachment rows.
func (r *Repository) DeleteNotice(ctx context.Context, uid int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete notice: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM attachment WHERE notice_uid = $1`, uid); err != nil {
		return fmt.Errorf("delete notice attachments: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM notice WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoticeNotFound
	}
	return tx.Commit(ctx)
}

// AddViews applies a pending view-count delta in a single atomic statement.
func (r *Repository) AddViews(ctx context.Context, uid int64, delta int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notice SET views = views + $2 WHERE uid = $1`, uid, delta)
	if err != nil {
		return fmt.Errorf("add views: %w", err)
	}
	return nil
}

// SaveAttachments inserts all attachment records in one multi-row statement.
func (r *Repository) SaveAttachments(ctx context.Context, attachments []*domain.Attachment) ([]*domain.Attachment, error) {
	if len(attachments) == 0 {
		return nil, nil
	}

	// Build VALUES list: ($1,$2,$3,$4), ($5,$6,$7,$8) etc.
	const paramsPerRow = 4
	args := make([]any, 0, len(attachments)*paramsPerRow)
	valuesClauses := make([]string, 0, len(attachments))

	for i, a := range attachments {
		base := i * paramsPerRow
		valuesClauses = append(valuesClauses, fmt.Sprintf(
			"($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4,
		))
		args = append(args, a.NoticeUID, a.OriginName, a.StoredName, a.Path)
	}

	query := "INSERT INTO attachment (notice_uid, origin_name, stored_name, path) VALUES " +
		strings.Join(valuesClauses, ",") +
		" RETURNING uid, notice_uid, origin_name, stored_name, path"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("batch insert attachments: %w", err)
	}
	defer rows.Close()

	var saved []*domain.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		saved = append(saved, a)
	}
	return saved, rows.Err()
}

// AttachmentsByNotice fetches all attachments owned by a notice.
func (r *Repository) AttachmentsByNotice(ctx context.Context, noticeUID int64) ([]*domain.Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT uid, notice_uid, origin_name, stored_name, path
		FROM attachment WHERE notice_uid = $1 ORDER BY uid
	`, noticeUID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var results []*domain.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// GetAttachment fetches a single attachment record.
func (r *Repository) GetAttachment(ctx context.Context, uid int64) (*domain.Attachment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT uid, notice_uid, origin_name, stored_name, path
		FROM attachment WHERE uid = $1
	`, uid)
	a, err := scanAttachment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// DeleteAttachment removes a single attachment record.
func (r *Repository) DeleteAttachment(ctx context.Context, uid int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attachment WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttachmentNotFound
	}
	return nil
}

// scannable abstracts pgx.Row and pgx.Rows for the scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

func scanNotice(row scannable) (*domain.Notice, error) {
	var n domain.Notice
	err := row.Scan(&n.UID, &n.Title, &n.Content, &n.Author, &n.Views, &n.StartAt, &n.EndAt, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan notice: %w", err)
	}
	return &n, nil
}

func scanAttachment(row scannable) (*domain.Attachment, error) {
	var a domain.Attachment
	err := row.Scan(&a.UID, &a.NoticeUID, &a.OriginName, &a.StoredName, &a.Path)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan attachment: %w", err)
	}
	return &a, nil
}
