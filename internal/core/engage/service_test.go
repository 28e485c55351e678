// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/apperr"
)

// # Test Doubles

// fakeLikeRepository mirrors the delete-then-guarded-insert sequence of the
// Postgres repository: removing an existing like always succeeds, while a new
// like only lands on a published target.
type fakeLikeRepository struct {
	videoLikes   map[string]bool   // "liker:video"
	commentLikes map[string]bool   // "liker:comment"
	published    map[string]bool   // video ID -> publication state
	comments     map[string]string // comment ID -> parent video ID
}

func (repository *fakeLikeRepository) ToggleVideoLike(_ context.Context, likerID, videoID string) (bool, error) {
	key := likerID + ":" + videoID
	if repository.videoLikes[key] {
		delete(repository.videoLikes, key)
		return false, nil
	}
	if !repository.published[videoID] {
		return false, apperr.NotFound("Video")
	}
	repository.videoLikes[key] = true
	return true, nil
}

func (repository *fakeLikeRepository) ToggleCommentLike(_ context.Context, likerID, commentID string) (bool, error) {
	key := likerID + ":" + commentID
	if repository.commentLikes[key] {
		delete(repository.commentLikes, key)
		return false, nil
	}
	if !repository.published[repository.comments[commentID]] {
		return false, apperr.NotFound("Comment")
	}
	repository.commentLikes[key] = true
	return true, nil
}

type fakeSubscriptionRepository struct {
	pairs map[string]bool // "subscriber:channel"
}

func (repository *fakeSubscriptionRepository) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	key := subscriberID + ":" + channelID
	if repository.pairs[key] {
		delete(repository.pairs, key)
		return false, nil
	}
	repository.pairs[key] = true
	return true, nil
}

type fakeChannelResolver struct {
	channels map[string]string // username -> account ID
}

func (resolver *fakeChannelResolver) ResolveChannelID(_ context.Context, username string) (string, error) {
	if id, ok := resolver.channels[username]; ok {
		return id, nil
	}
	return "", apperr.NotFound("Channel")
}

// # Fixtures

func newTestService() (*Service, *fakeLikeRepository, *fakeSubscriptionRepository) {
	likeRepo := &fakeLikeRepository{
		videoLikes:   map[string]bool{},
		commentLikes: map[string]bool{},
		published:    map[string]bool{"video-1": true, "video-draft": false},
		comments:     map[string]string{"comment-1": "video-1", "comment-draft": "video-draft"},
	}
	subscriptionRepo := &fakeSubscriptionRepository{pairs: map[string]bool{}}
	resolver := &fakeChannelResolver{channels: map[string]string{"alice": "user-1", "bob": "user-2"}}

	service := NewService(likeRepo, subscriptionRepo, resolver, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, likeRepo, subscriptionRepo
}

// # Like Toggles

func TestToggleVideoLike_FlipsState(t *testing.T) {
	service, likeRepo, _ := newTestService()

	liked, err := service.ToggleVideoLike(context.Background(), "user-1", "video-1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Contains(t, likeRepo.videoLikes, "user-1:video-1")

	liked, err = service.ToggleVideoLike(context.Background(), "user-1", "video-1")
	require.NoError(t, err)
	assert.False(t, liked, "a second toggle removes the like")
	assert.NotContains(t, likeRepo.videoLikes, "user-1:video-1")
}

func TestToggleVideoLike_UnknownVideo(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.ToggleVideoLike(context.Background(), "user-1", "video-missing")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestToggleVideoLike_DraftNotLikeable(t *testing.T) {
	service, likeRepo, _ := newTestService()

	_, err := service.ToggleVideoLike(context.Background(), "user-1", "video-draft")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, likeRepo.videoLikes)
}

func TestToggleVideoLike_UnlikeSurvivesUnpublish(t *testing.T) {
	service, likeRepo, _ := newTestService()

	liked, err := service.ToggleVideoLike(context.Background(), "user-1", "video-1")
	require.NoError(t, err)
	require.True(t, liked)

	// The video goes back to draft with the like still in place.
	likeRepo.published["video-1"] = false

	liked, err = service.ToggleVideoLike(context.Background(), "user-1", "video-1")
	require.NoError(t, err)
	assert.False(t, liked, "an existing like on a now-draft video can still be removed")
	assert.Empty(t, likeRepo.videoLikes)
}

func TestToggleCommentLike_FlipsState(t *testing.T) {
	service, likeRepo, _ := newTestService()

	liked, err := service.ToggleCommentLike(context.Background(), "user-1", "comment-1")
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = service.ToggleCommentLike(context.Background(), "user-1", "comment-1")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, likeRepo.commentLikes)
}

func TestToggleCommentLike_UnknownComment(t *testing.T) {
	service, likeRepo, _ := newTestService()

	_, err := service.ToggleCommentLike(context.Background(), "user-1", "comment-missing")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, likeRepo.commentLikes)
}

func TestToggleCommentLike_DraftParentNotLikeable(t *testing.T) {
	service, likeRepo, _ := newTestService()

	_, err := service.ToggleCommentLike(context.Background(), "user-1", "comment-draft")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, likeRepo.commentLikes)
}

// # Subscriptions

func TestToggleSubscription_FlipsState(t *testing.T) {
	service, _, subscriptionRepo := newTestService()

	subscribed, err := service.ToggleSubscription(context.Background(), "user-1", "bob")
	require.NoError(t, err)
	assert.True(t, subscribed)
	assert.Contains(t, subscriptionRepo.pairs, "user-1:user-2")

	subscribed, err = service.ToggleSubscription(context.Background(), "user-1", "bob")
	require.NoError(t, err)
	assert.False(t, subscribed, "a second toggle unsubscribes")
	assert.Empty(t, subscriptionRepo.pairs)
}

func TestToggleSubscription_SelfSubscriptionRejected(t *testing.T) {
	service, _, subscriptionRepo := newTestService()

	_, err := service.ToggleSubscription(context.Background(), "user-1", "alice")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Empty(t, subscriptionRepo.pairs)
}

func TestToggleSubscription_UnknownChannel(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.ToggleSubscription(context.Background(), "user-1", "nobody")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
