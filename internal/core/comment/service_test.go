// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Test Doubles

type fakeCommentRepository struct {
	comments map[string]*Comment
	likes    map[string][]string // commentID -> liker IDs
}

func (repository *fakeCommentRepository) Create(_ context.Context, comment *Comment) error {
	repository.comments[comment.ID] = comment
	return nil
}

func (repository *fakeCommentRepository) FindByID(_ context.Context, id string) (*Comment, error) {
	if comment, ok := repository.comments[id]; ok {
		copied := *comment
		return &copied, nil
	}
	return nil, apperr.NotFound("Comment")
}

func (repository *fakeCommentRepository) ListByVideo(_ context.Context, videoID, viewerID string, params pagination.Params) ([]Comment, int, error) {
	matched := make([]Comment, 0)
	for _, comment := range repository.comments {
		if comment.VideoID != videoID {
			continue
		}
		enriched := *comment
		likers := repository.likes[comment.ID]
		enriched.LikeCount = len(likers)
		for _, liker := range likers {
			if liker == viewerID {
				enriched.IsLiked = true
			}
		}
		matched = append(matched, enriched)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, len(matched), nil
}

func (repository *fakeCommentRepository) Update(_ context.Context, comment *Comment) error {
	repository.comments[comment.ID] = comment
	return nil
}

func (repository *fakeCommentRepository) Delete(_ context.Context, id string) error {
	delete(repository.comments, id)
	return nil
}

type fakeVideoChecker struct {
	published map[string]bool
}

func (checker *fakeVideoChecker) Exists(_ context.Context, videoID string) (bool, error) {
	return checker.published[videoID], nil
}

// # Fixtures

func newTestService() (*Service, *fakeCommentRepository, *fakeVideoChecker) {
	repository := &fakeCommentRepository{comments: map[string]*Comment{}, likes: map[string][]string{}}
	checker := &fakeVideoChecker{published: map[string]bool{"video-1": true}}
	service := NewService(repository, checker, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, repository, checker
}

// # Creation

func TestCreate_AttachesCommentToVideo(t *testing.T) {
	service, repository, _ := newTestService()

	comment, err := service.Create(context.Background(), "video-1", "user-1", "Great edit!")
	require.NoError(t, err)

	assert.Equal(t, "video-1", comment.VideoID)
	assert.Equal(t, "user-1", comment.OwnerID)
	assert.Equal(t, "Great edit!", comment.Content)
	assert.Contains(t, repository.comments, comment.ID)
}

func TestCreate_UnknownVideoRejected(t *testing.T) {
	service, repository, _ := newTestService()

	_, err := service.Create(context.Background(), "video-missing", "user-1", "hello?")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, repository.comments)
}

func TestCreate_DraftVideoRejected(t *testing.T) {
	service, _, checker := newTestService()
	checker.published["video-draft"] = false

	_, err := service.Create(context.Background(), "video-draft", "user-1", "first!")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// # Listing

func TestListByVideo_EnrichesLikes(t *testing.T) {
	service, repository, _ := newTestService()

	first, err := service.Create(context.Background(), "video-1", "user-1", "first")
	require.NoError(t, err)
	second, err := service.Create(context.Background(), "video-1", "user-2", "second")
	require.NoError(t, err)

	repository.likes[first.ID] = []string{"user-2", "user-3"}
	repository.likes[second.ID] = []string{"user-1"}

	comments, meta, err := service.ListByVideo(context.Background(), "video-1", "user-2", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, 2, meta.Total)

	byID := map[string]Comment{}
	for _, comment := range comments {
		byID[comment.ID] = comment
	}

	assert.Equal(t, 2, byID[first.ID].LikeCount)
	assert.True(t, byID[first.ID].IsLiked, "the viewer liked the first comment")
	assert.Equal(t, 1, byID[second.ID].LikeCount)
	assert.False(t, byID[second.ID].IsLiked)
}

func TestListByVideo_AnonymousViewer(t *testing.T) {
	service, repository, _ := newTestService()

	comment, err := service.Create(context.Background(), "video-1", "user-1", "first")
	require.NoError(t, err)
	repository.likes[comment.ID] = []string{"user-2"}

	comments, meta, err := service.ListByVideo(context.Background(), "video-1", "", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, 1, meta.Total)

	assert.Equal(t, 1, comments[0].LikeCount)
	assert.False(t, comments[0].IsLiked, "an anonymous viewer never appears as a liker")
}

func TestListByVideo_UnknownVideo(t *testing.T) {
	service, _, _ := newTestService()

	_, _, err := service.ListByVideo(context.Background(), "video-missing", "", pagination.Params{Page: 1, Limit: 20})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// # Mutation

func TestUpdate_AuthorOnly(t *testing.T) {
	service, _, _ := newTestService()

	comment, err := service.Create(context.Background(), "video-1", "user-1", "original")
	require.NoError(t, err)

	_, err = service.Update(context.Background(), comment.ID, "intruder", "hijacked")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "FORBIDDEN", appError.Code)

	updated, err := service.Update(context.Background(), comment.ID, "user-1", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
}

func TestDelete_AuthorOnly(t *testing.T) {
	service, repository, _ := newTestService()

	comment, err := service.Create(context.Background(), "video-1", "user-1", "delete me")
	require.NoError(t, err)

	err = service.Delete(context.Background(), comment.ID, "intruder")
	require.Error(t, err)
	assert.Contains(t, repository.comments, comment.ID)

	err = service.Delete(context.Background(), comment.ID, "user-1")
	require.NoError(t, err)
	assert.NotContains(t, repository.comments, comment.ID)
}

func TestDelete_UnknownComment(t *testing.T) {
	service, _, _ := newTestService()

	err := service.Delete(context.Background(), "comment-missing", "user-1")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
