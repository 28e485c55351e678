// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Video Repository

// PostgresVideoRepository implements the VideoRepository interface using pgx.
type PostgresVideoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new PostgreSQL implementation of the VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

const videoColumns = `
	id, ownerid, title, slug, description, videourl, thumbnailurl,
	videopublicid, thumbpublicid, duration, views, ispublished, createdat, updatedat`

/*
Create persists a new video record into the core.video table.

Parameters:
  - context: context.Context
  - video: *Video

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresVideoRepository) Create(context context.Context, video *Video) error {
	const query = `
		INSERT INTO core.video (
			id, ownerid, title, slug, description, videourl, thumbnailurl,
			videopublicid, thumbpublicid, duration, views, ispublished, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Slug,
		video.Description,
		video.VideoURL,
		video.ThumbnailURL,
		video.VideoPublicID,
		video.ThumbPublicID,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_video_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a video record by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Video: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresVideoRepository) FindByID(context context.Context, id string) (*Video, error) {
	query := "SELECT " + videoColumns + " FROM core.video WHERE id = $1"

	video := &Video{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Slug,
		&video.Description,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.VideoPublicID,
		&video.ThumbPublicID,
		&video.Duration,
		&video.Views,
		&video.IsPublished,
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Video")
		}
		return nil, fmt.Errorf("postgres_video_repo_find_failed: %w", err)
	}

	return video, nil
}

/*
List returns a page of videos matching the filter, newest first.

Description: Runs a COUNT query and a page query with the same predicate so
the pagination metadata stays consistent with the result set.

Parameters:
  - context: context.Context
  - filter: ListFilter
  - params: pagination.Params

Returns:
  - []Video: Page of results
  - int: Total match count
  - error: Execution errors
*/
func (repository *PostgresVideoRepository) List(context context.Context, filter ListFilter, params pagination.Params) ([]Video, int, error) {

	// Build the shared predicate
	conditions := []string{"1=1"}
	arguments := []any{}

	if filter.PublishedOnly {
		conditions = append(conditions, "ispublished = TRUE")
	}
	if filter.OwnerID != "" {
		arguments = append(arguments, filter.OwnerID)
		conditions = append(conditions, fmt.Sprintf("ownerid = $%d", len(arguments)))
	}
	predicate := strings.Join(conditions, " AND ")

	// Count total matches
	countQuery := "SELECT COUNT(*) FROM core.video WHERE " + predicate
	var total int
	if err := repository.pool.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_count_failed: %w", err)
	}

	// Fetch the page
	pageQuery := fmt.Sprintf(
		"SELECT %s FROM core.video WHERE %s ORDER BY createdat DESC LIMIT $%d OFFSET $%d",
		videoColumns, predicate, len(arguments)+1, len(arguments)+2,
	)
	arguments = append(arguments, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, pageQuery, arguments...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_list_failed: %w", err)
	}
	defer rows.Close()

	videos := make([]Video, 0, params.Limit)
	for rows.Next() {
		var video Video
		err := rows.Scan(
			&video.ID,
			&video.OwnerID,
			&video.Title,
			&video.Slug,
			&video.Description,
			&video.VideoURL,
			&video.ThumbnailURL,
			&video.VideoPublicID,
			&video.ThumbPublicID,
			&video.Duration,
			&video.Views,
			&video.IsPublished,
			&video.CreatedAt,
			&video.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_video_repo_scan_failed: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_rows_failed: %w", err)
	}

	return videos, total, nil
}

/*
Update persists changes to a video's mutable fields.

Parameters:
  - context: context.Context
  - video: *Video

Returns:
  - error: Update failures
*/
func (repository *PostgresVideoRepository) Update(context context.Context, video *Video) error {
	const query = `
		UPDATE core.video
		SET title = $2, slug = $3, description = $4, thumbnailurl = $5,
		    thumbpublicid = $6, ispublished = $7, updatedat = $8
		WHERE id = $1`

	video.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		video.ID,
		video.Title,
		video.Slug,
		video.Description,
		video.ThumbnailURL,
		video.ThumbPublicID,
		video.IsPublished,
		video.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_video_repo_update_failed: %w", err)
	}

	return nil
}

/*
Delete removes a video row permanently.

Description: Dependent comments, likes, and watch-history entries reference
the video by ID; comments and likes cascade via foreign keys.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresVideoRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM core.video WHERE id = $1"

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_video_repo_delete_failed: %w", err)
	}

	return nil
}

/*
IncrementViews bumps the view counter atomically.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresVideoRepository) IncrementViews(context context.Context, id string) error {
	const query = "UPDATE core.video SET views = views + 1 WHERE id = $1"

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_video_repo_increment_views_failed: %w", err)
	}

	return nil
}
