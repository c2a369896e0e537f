package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/models"
	"photoshare/internal/session"
)

func TestRequestCarriesAuthAndCorrelationHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewEncoder(w).Encode(models.FeedbackPage{})
	}))
	defer srv.Close()

	client := New(srv.URL, session.New("tok-123"))
	_, err := client.FetchFeedback(context.Background(), "p1", 1, 5)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "application/json", gotAccept)
}

func TestAnonymousRequestOmitsAuthHeader(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		_ = json.NewEncoder(w).Encode(models.FeedbackPage{})
	}))
	defer srv.Close()

	client := New(srv.URL, session.New(""))
	_, err := client.FetchFeedback(context.Background(), "p1", 1, 5)
	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestFetchFeedbackQueryAndDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ratings-comments/p1", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{
			"averageRating": 4.5,
			"ratingsCount": 2,
			"userRating": 4,
			"comments": [
				{"_id": "c1", "user": {"_id": "u1", "username": "alice"},
				 "userRating": 5, "commentText": "lovely",
				 "date": "2026-01-02T15:04:05Z"}
			],
			"pagination": {"totalPages": 2, "totalComments": 7}
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, session.New("tok"))
	snapshot, err := client.FetchFeedback(context.Background(), "p1", 2, 5)
	require.NoError(t, err)

	assert.Equal(t, 4.5, snapshot.AverageRating)
	assert.Equal(t, 2, snapshot.RatingsCount)
	require.NotNil(t, snapshot.UserRating)
	assert.Equal(t, 4, *snapshot.UserRating)
	require.Len(t, snapshot.Comments, 1)
	assert.Equal(t, "lovely", snapshot.Comments[0].Text)
	assert.Equal(t, "alice", snapshot.Comments[0].User.Username)
	assert.Equal(t, models.Pagination{TotalPages: 2, TotalComments: 7}, snapshot.Pagination)
}

func TestSubmitRatingPayload(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/rating", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(srv.URL, session.New("tok"))
	require.NoError(t, client.SubmitRating(context.Background(), "p1", 4))
	assert.Equal(t, "p1", body["contentId"])
	assert.EqualValues(t, 4, body["rating"])
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{"validation", 400, `{"message":"Rating must be between 1 and 5"}`, models.CodeValidation, "Rating must be between 1 and 5"},
		{"forbidden", 403, `{"message":"You can only delete your own comments"}`, models.CodeForbidden, "You can only delete your own comments"},
		{"not found", 404, `{"message":"Content not found"}`, models.CodeNotFound, "Content not found"},
		{"server error", 500, `{"message":"boom"}`, models.CodeServer, "boom"},
		{"legacy error key", 400, `{"error":"Failed to upload content"}`, models.CodeValidation, "Failed to upload content"},
		{"opaque body", 502, `<html>bad gateway</html>`, models.CodeServer, "The server had a problem. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, session.New("tok"))
			err := client.SubmitRating(context.Background(), "p1", 4)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, models.ErrorCode(err))
			assert.Equal(t, tt.wantMsg, models.ErrorMessage(err))
		})
	}
}

func TestUnauthorizedInvalidatesSessionOnAnyOperation(t *testing.T) {
	operations := map[string]func(*Client) error{
		"fetch feedback": func(c *Client) error {
			_, err := c.FetchFeedback(context.Background(), "p1", 1, 5)
			return err
		},
		"submit rating": func(c *Client) error {
			return c.SubmitRating(context.Background(), "p1", 3)
		},
		"submit comment": func(c *Client) error {
			return c.SubmitComment(context.Background(), "p1", "hi")
		},
		"delete comment": func(c *Client) error {
			return c.DeleteComment(context.Background(), "c1")
		},
		"list content": func(c *Client) error {
			_, err := c.ListContent(context.Background())
			return err
		},
	}

	for name, op := range operations {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Session expired or invalid token. Please log in again."}`))
			}))
			defer srv.Close()

			sess := session.New("stale-token")
			var hookFired int
			sess.OnInvalidate(func() { hookFired++ })

			err := op(New(srv.URL, sess))
			require.Error(t, err)
			assert.Equal(t, models.CodeUnauthenticated, models.ErrorCode(err))
			assert.Equal(t, "Session expired or invalid token. Please log in again.", models.ErrorMessage(err))
			assert.False(t, sess.Authenticated(), "credential is cleared")
			assert.Equal(t, 1, hookFired)
		})
	}
}

func TestTimeoutSurfacesAsTimeoutError(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client := New(srv.URL, session.New("tok"), WithTimeout(50*time.Millisecond))
	_, err := client.FetchFeedback(context.Background(), "p1", 1, 5)
	require.Error(t, err)
	assert.Equal(t, models.CodeTimeout, models.ErrorCode(err))
}

func TestConnectionFailureSurfacesAsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := New(srv.URL, session.New("tok"))
	_, err := client.FetchFeedback(context.Background(), "p1", 1, 5)
	require.Error(t, err)
	assert.Equal(t, models.CodeNetwork, models.ErrorCode(err))
}

func TestMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := New(srv.URL, session.New("tok"))
	_, err := client.FetchFeedback(context.Background(), "p1", 1, 5)
	require.Error(t, err)
	assert.Equal(t, models.CodeServer, models.ErrorCode(err))
}
