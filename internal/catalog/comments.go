// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/gamescout/internal/metrics"
)

// MaxCommentLength is the longest accepted comment, in runes.
const MaxCommentLength = 500

// ErrInvalidComment is returned for empty or oversized comment content.
var ErrInvalidComment = errors.New("invalid comment")

// Comment is a free-text note attached to a game.
type Comment struct {
	ID        string    `json:"id"`
	AppID     int64     `json:"appid"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AddComment stores a comment for appID. Content is trimmed and must be
// 1 to MaxCommentLength runes.
func (s *Store) AddComment(ctx context.Context, appID int64, content string) (c Comment, err error) {
	content = strings.TrimSpace(content)
	if n := len([]rune(content)); n == 0 || n > MaxCommentLength {
		return Comment{}, fmt.Errorf("%w: content must be 1-%d characters, got %d", ErrInvalidComment, MaxCommentLength, n)
	}
	if appID <= 0 {
		return Comment{}, fmt.Errorf("%w: appid must be positive", ErrInvalidComment)
	}

	start := time.Now()
	defer func() { metrics.RecordCatalogQuery("add_comment", time.Since(start), err) }()

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	c = Comment{
		ID:        uuid.NewString(),
		AppID:     appID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.conn.ExecContext(ctx,
		`INSERT INTO comments (id, appid, content, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.AppID, c.Content, c.CreatedAt,
	); err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// ListComments returns up to limit comments for appID, newest first.
// limit <= 0 returns all of them.
func (s *Store) ListComments(ctx context.Context, appID int64, limit int) (comments []Comment, err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogQuery("list_comments", time.Since(start), err) }()

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, appid, content, created_at FROM comments WHERE appid = ? ORDER BY created_at DESC, id`
	args := []any{appID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer closeQuietly(rows)

	comments = []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.AppID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}
