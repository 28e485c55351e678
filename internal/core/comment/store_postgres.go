// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Comment Repository

// PostgresCommentRepository implements the CommentRepository interface using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new PostgreSQL implementation of the CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

/*
Create persists a new comment row into the core.comment table.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO core.comment (id, videoid, ownerid, content, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		comment.ID,
		comment.VideoID,
		comment.OwnerID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)

	// The video-existence check in the service can race a video deletion;
	// the resulting FK violation is classified rather than surfaced as a 500.
	if err != nil {
		return dberr.Wrap(err, "comment_create")
	}

	return nil
}

/*
FindByID retrieves a comment row by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Comment: Hydrated entity (without like enrichment)
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresCommentRepository) FindByID(context context.Context, id string) (*Comment, error) {
	const query = `
		SELECT id, videoid, ownerid, content, createdat, updatedat
		FROM core.comment
		WHERE id = $1`

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.OwnerID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_repo_find_failed: %w", err)
	}

	return comment, nil
}

/*
ListByVideo returns a page of comments for a video, newest first.

Description: A single query aggregates like counts from core.like and flags
the comments the viewer has liked. An anonymous viewer is bound as NULL, so
the uuid comparison inside EXISTS is never asked to parse an empty string
and simply evaluates to false.

Parameters:
  - context: context.Context
  - videoID: string
  - viewerID: string (empty when anonymous)
  - params: pagination.Params

Returns:
  - []Comment: Page of enriched results
  - int: Total comment count for the video
  - error: Execution errors
*/
func (repository *PostgresCommentRepository) ListByVideo(context context.Context, videoID, viewerID string, params pagination.Params) ([]Comment, int, error) {

	const countQuery = "SELECT COUNT(*) FROM core.comment WHERE videoid = $1"

	var total int
	if err := repository.pool.QueryRow(context, countQuery, videoID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_count_failed: %w", err)
	}

	const pageQuery = `
		SELECT c.id, c.videoid, c.ownerid, c.content,
		       COUNT(l.id)::INT AS likecount,
		       EXISTS (
		           SELECT 1 FROM core.like v
		           WHERE v.commentid = c.id AND v.likerid = $2
		       ) AS isliked,
		       c.createdat, c.updatedat
		FROM core.comment c
		LEFT JOIN core.like l ON l.commentid = c.id
		WHERE c.videoid = $1
		GROUP BY c.id
		ORDER BY c.createdat DESC
		LIMIT $3 OFFSET $4`

	rows, err := repository.pool.Query(context, pageQuery, videoID, nullableID(viewerID), params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	comments := make([]Comment, 0, params.Limit)
	for rows.Next() {
		var comment Comment
		err := rows.Scan(
			&comment.ID,
			&comment.VideoID,
			&comment.OwnerID,
			&comment.Content,
			&comment.LikeCount,
			&comment.IsLiked,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_repo_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_rows_failed: %w", err)
	}

	return comments, total, nil
}

/*
Update persists a changed comment body.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Update failures
*/
func (repository *PostgresCommentRepository) Update(context context.Context, comment *Comment) error {
	const query = "UPDATE core.comment SET content = $2, updatedat = $3 WHERE id = $1"

	comment.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query, comment.ID, comment.Content, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_update_failed: %w", err)
	}

	return nil
}

/*
Delete removes a comment row permanently. Attached likes cascade via foreign key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresCommentRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM core.comment WHERE id = $1"

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_delete_failed: %w", err)
	}

	return nil
}

// nullableID converts an optional ID into a parameter that binds as NULL
// when empty. pgx cannot encode "" into a uuid column, so an absent viewer
// must reach Postgres as NULL rather than as an empty string.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// # Video Checker

// PostgresVideoChecker verifies comment targets against the core.video table.
type PostgresVideoChecker struct {
	pool *pgxpool.Pool
}

// NewVideoChecker creates a new PostgreSQL implementation of the VideoChecker.
func NewVideoChecker(pool *pgxpool.Pool) *PostgresVideoChecker {
	return &PostgresVideoChecker{pool: pool}
}

/*
Exists reports whether a published video with the ID exists.

Parameters:
  - context: context.Context
  - videoID: string

Returns:
  - bool: True when the video exists and is published
  - error: Execution failures
*/
func (checker *PostgresVideoChecker) Exists(context context.Context, videoID string) (bool, error) {
	const query = "SELECT EXISTS (SELECT 1 FROM core.video WHERE id = $1 AND ispublished = TRUE)"

	var exists bool
	if err := checker.pool.QueryRow(context, query, videoID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_video_checker_failed: %w", err)
	}

	return exists, nil
}
