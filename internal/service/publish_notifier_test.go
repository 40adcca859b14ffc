package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkpress/internal/queue"
	"github.com/inkpress/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishNotifierPostsVisibleLinks(t *testing.T) {
	f := setupContentServiceTest(t)
	post := f.createPost(t, enTranslation("notify-me", "Notify"), viTranslation("thong-bao", "Thông báo"))
	_, err := f.posts.Publish(post.ID, nil, f.actor)
	require.NoError(t, err)

	var received PublishWebhookBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewPublishNotifier(repository.NewPostRepository(f.db), server.URL, "https://blog.example.com/")
	notifier.now = f.clock.Now
	require.NoError(t, notifier.Notify(context.Background(), queue.PostPublishedPayload{PostID: post.ID}))

	assert.Equal(t, "post.published", received.Event)
	assert.Equal(t, post.ID, received.PostID)
	require.Len(t, received.Links, 2)
	urls := map[string]string{}
	for _, link := range received.Links {
		urls[link.Locale] = link.URL
	}
	assert.Equal(t, "https://blog.example.com/en/notify-me", urls["en"])
	assert.Equal(t, "https://blog.example.com/vi/thong-bao", urls["vi"])
}

func TestPublishNotifierSkipsHiddenPost(t *testing.T) {
	f := setupContentServiceTest(t)
	post := f.createPost(t, enTranslation("notify-draft", "Draft"))

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	notifier := NewPublishNotifier(repository.NewPostRepository(f.db), server.URL, "")
	notifier.now = f.clock.Now
	require.NoError(t, notifier.Notify(context.Background(), queue.PostPublishedPayload{PostID: post.ID}))
	assert.False(t, called)
}

func TestPublishNotifierReportsWebhookFailure(t *testing.T) {
	f := setupContentServiceTest(t)
	post := f.createPost(t, enTranslation("notify-fail", "Fail"))
	_, err := f.posts.Publish(post.ID, nil, f.actor)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := NewPublishNotifier(repository.NewPostRepository(f.db), server.URL, "")
	notifier.now = f.clock.Now
	err = notifier.Notify(context.Background(), queue.PostPublishedPayload{PostID: post.ID})
	assert.Error(t, err)
}
