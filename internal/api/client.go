// Package api is the authenticated JSON/HTTP client for the PhotoShare
// backend. It owns credential transport, request correlation and the mapping
// of HTTP failures into the client's error taxonomy; callers never see raw
// HTTP status codes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"photoshare/internal/models"
	"photoshare/internal/session"
)

const defaultTimeout = 15 * time.Second

// Client talks to one PhotoShare backend on behalf of one session.
type Client struct {
	host       string
	httpClient *http.Client
	session    *session.Session
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger attaches a logger for per-request debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the backend at host. The session may be anonymous;
// reads then go out without a credential.
func New(host string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		host:       host,
		httpClient: &http.Client{Timeout: defaultTimeout},
		session:    sess,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchFeedback retrieves the aggregate rating and one page of comments for a
// content item. Anonymous sessions get the snapshot without userRating.
func (c *Client) FetchFeedback(ctx context.Context, contentID string, page, limit int) (*models.FeedbackPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	path := fmt.Sprintf("/api/ratings-comments/%s?%s", url.PathEscape(contentID), q.Encode())

	var snapshot models.FeedbackPage
	if err := c.do(ctx, http.MethodGet, path, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// SubmitRating posts the caller's rating for a content item. The server
// upserts per (user, item), so re-rating overwrites rather than duplicates.
func (c *Client) SubmitRating(ctx context.Context, contentID string, rating int) error {
	body := map[string]any{"contentId": contentID, "rating": rating}
	return c.do(ctx, http.MethodPost, "/api/rating", body, nil)
}

// SubmitComment posts a comment on a content item.
func (c *Client) SubmitComment(ctx context.Context, contentID, text string) error {
	body := map[string]any{"contentId": contentID, "commentText": text}
	return c.do(ctx, http.MethodPost, "/api/comment", body, nil)
}

// DeleteComment removes a comment by id. The server enforces ownership.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/comment/"+url.PathEscape(commentID), nil, nil)
}

// ListContent retrieves the full feed.
func (c *Client) ListContent(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/api/creator/content", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SearchContent retrieves feed items whose title matches the query.
func (c *Client) SearchContent(ctx context.Context, title string) ([]models.Post, error) {
	q := url.Values{}
	q.Set("title", title)
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/api/creator/content/search?"+q.Encode(), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Profile retrieves a user's public profile.
func (c *Client) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/user/profile/"+url.PathEscape(userID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UserPosts retrieves the posts uploaded by a user.
func (c *Client) UserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/api/user/posts/"+url.PathEscape(userID), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// AllUsers retrieves every registered user.
func (c *Client) AllUsers(ctx context.Context) ([]models.UserRef, error) {
	var users []models.UserRef
	if err := c.do(ctx, http.MethodGet, "/api/user/all", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// do issues one request and decodes the response into out when non-nil.
// Every failure comes back as a *models.AppError. A 401 additionally
// invalidates the session before returning, whatever the operation was.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return models.NewValidationError("Invalid request payload.")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, reader)
	if err != nil {
		return models.NewNetworkError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return models.NewTimeoutError(err)
		}
		return models.NewNetworkError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return models.NewServerError("Malformed response from server.", err)
		}
	}
	return nil
}

// errorFromResponse maps an HTTP error status onto the error taxonomy,
// preferring the server's own message when the body carries one.
func (c *Client) errorFromResponse(resp *http.Response) error {
	msg := serverMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// Expired or revoked credential. Drop it so subsequent calls go out
		// anonymous and the user is prompted to sign in again.
		c.session.Invalidate()
		if msg == "" {
			msg = "Session expired or invalid token. Please log in again."
		}
		return models.NewUnauthenticatedError(msg)
	case resp.StatusCode == http.StatusForbidden:
		if msg == "" {
			msg = "You are not allowed to do that."
		}
		return models.NewForbiddenError(msg)
	case resp.StatusCode == http.StatusNotFound:
		if msg == "" {
			msg = "Not found."
		}
		return models.NewNotFoundError(msg)
	case resp.StatusCode >= 500:
		if msg == "" {
			msg = "The server had a problem. Please try again."
		}
		return models.NewServerError(msg, fmt.Errorf("status %d", resp.StatusCode))
	default:
		if msg == "" {
			msg = fmt.Sprintf("Request failed (status %d).", resp.StatusCode)
		}
		return models.NewValidationError(msg)
	}
}

// serverMessage pulls the human-readable message out of an API error body.
// Newer endpoints use {"message": ...}, a few older ones {"error": ...}.
func serverMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return ""
	}
	var parsed models.ErrorResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ""
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	return parsed.Error
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
