// Package feedback implements the per-item rating and comment store: the
// single source of truth for one content item's aggregate rating and its
// paginated comment thread. All reads and writes go through the remote API;
// the store never computes aggregates locally, it always re-fetches the
// current page after a mutation so server-derived values (average, counts)
// cannot drift from what the client shows.
package feedback

import (
	"context"
	"errors"
	"strings"
	"sync"

	"photoshare/internal/models"
	"photoshare/internal/session"
)

// DefaultPageSize is the fixed comment page size.
const DefaultPageSize = 5

// maxCommentLen mirrors the input cap of the comment field. The server
// enforces its own bound; this only saves a round trip.
const maxCommentLen = 500

// API is the slice of the backend the store needs.
type API interface {
	FetchFeedback(ctx context.Context, contentID string, page, limit int) (*models.FeedbackPage, error)
	SubmitRating(ctx context.Context, contentID string, rating int) error
	SubmitComment(ctx context.Context, contentID, text string) error
	DeleteComment(ctx context.Context, commentID string) error
}

// Phase is the store's load lifecycle.
type Phase int

const (
	// Idle means no fetch has been issued yet.
	Idle Phase = iota
	// Loading means a fetch is in flight.
	Loading
	// Loaded means the state reflects the last successful fetch.
	Loaded
	// Errored means the last fetch failed and the state is unchanged from
	// the previous successful one.
	Errored
)

// State is a snapshot of the store, safe to render from any goroutine.
type State struct {
	ContentID     string
	AverageRating float64
	RatingsCount  int
	UserRating    *int
	Comments      []models.Comment
	CurrentPage   int
	Pagination    models.Pagination
	CommentDraft  string
	Phase         Phase
	LastError     string
}

// Store tracks the feedback state for a single content item. One store per
// item; stores share nothing. Safe for concurrent use: overlapping Load
// calls are sequenced so the last one issued wins, regardless of the order
// their responses arrive in.
type Store struct {
	api       API
	session   *session.Session
	contentID string
	pageSize  int

	mu             sync.Mutex
	seq            uint64
	cancelInFlight context.CancelFunc
	state          State
}

// Option configures a Store.
type Option func(*Store)

// WithPageSize overrides the comment page size.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.pageSize = n
		}
	}
}

// New creates a store for one content item. No fetch is issued; callers that
// want a populated store use Open.
func New(api API, sess *session.Session, contentID string, opts ...Option) *Store {
	s := &Store{
		api:       api,
		session:   sess,
		contentID: contentID,
		pageSize:  DefaultPageSize,
		state: State{
			ContentID:   contentID,
			CurrentPage: 1,
			Pagination:  models.Pagination{TotalPages: 1},
			Phase:       Idle,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and loads page 1, matching the web client's mount
// behavior. The store is returned even when the initial load fails so the
// error stays inspectable through State.
func Open(ctx context.Context, api API, sess *session.Session, contentID string, opts ...Option) (*Store, error) {
	s := New(api, sess, contentID, opts...)
	err := s.Load(ctx, 1)
	return s, err
}

// State returns a copy of the current state. The comments slice is copied so
// callers cannot observe a later in-place replacement.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state
	snapshot.Comments = append([]models.Comment(nil), s.state.Comments...)
	return snapshot
}

// SetDraft records the in-progress comment text. Local only; cleared when a
// submission succeeds.
func (s *Store) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CommentDraft = text
}

// Load fetches the requested page and atomically replaces the rating
// aggregate, the comment page and the pagination metadata. On failure the
// previous state is kept in full and only LastError changes. Load is also
// the sole re-entry point after every mutation.
//
// A Load issued while another is in flight supersedes it: the older request
// is cancelled, and should its response still arrive it is discarded.
func (s *Store) Load(ctx context.Context, page int) error {
	if page < 1 {
		return s.fail(models.NewValidationError("Page must be 1 or greater."))
	}

	s.mu.Lock()
	s.seq++
	issued := s.seq
	if s.cancelInFlight != nil {
		s.cancelInFlight()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancelInFlight = cancel
	s.state.Phase = Loading
	api, contentID, limit := s.api, s.contentID, s.pageSize
	s.mu.Unlock()

	snapshot, err := api.FetchFeedback(loadCtx, contentID, page, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if issued != s.seq {
		// Superseded by a newer Load; its result is authoritative, not ours.
		cancel()
		return nil
	}
	s.cancelInFlight = nil
	cancel()

	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			// Cancelled by supersession rather than by the caller.
			return nil
		}
		s.state.Phase = Errored
		s.state.LastError = models.ErrorMessage(err)
		return err
	}

	s.state.AverageRating = snapshot.AverageRating
	s.state.RatingsCount = snapshot.RatingsCount
	s.state.UserRating = snapshot.UserRating
	s.state.Comments = snapshot.Comments
	s.state.Pagination = snapshot.Pagination
	s.state.CurrentPage = page
	s.state.Phase = Loaded
	s.state.LastError = ""
	return nil
}

// ChangePage navigates to newPage. Out-of-range pages are a no-op: no state
// change, no network call.
func (s *Store) ChangePage(ctx context.Context, newPage int) error {
	s.mu.Lock()
	totalPages := s.state.Pagination.TotalPages
	s.mu.Unlock()

	if newPage < 1 || newPage > totalPages {
		return nil
	}
	return s.Load(ctx, newPage)
}

// Rate submits the caller's rating (1-5) for the item, then re-fetches the
// current page so average, count and own-rating come back server-computed.
// Re-rating overwrites; the server keeps one rating per (user, item).
func (s *Store) Rate(ctx context.Context, rating int) error {
	if rating < 1 || rating > 5 {
		return s.fail(models.NewValidationError("Rating must be between 1 and 5."))
	}
	if !s.session.Authenticated() {
		return s.fail(models.NewUnauthenticatedError("Please log in to rate this content."))
	}

	if err := s.api.SubmitRating(ctx, s.contentID, rating); err != nil {
		return s.fail(err)
	}
	return s.Load(ctx, s.currentPage())
}

// SubmitComment posts text as a comment, clears the draft and re-fetches the
// current page. The view deliberately stays on the page the user was reading
// rather than jumping to page 1 where the new comment lands.
func (s *Store) SubmitComment(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return s.fail(models.NewValidationError("Comment cannot be empty."))
	}
	if len(trimmed) > maxCommentLen {
		return s.fail(models.NewValidationError("Comment too long (max 500 characters)."))
	}
	if !s.session.Authenticated() {
		return s.fail(models.NewUnauthenticatedError("Please log in to comment on this content."))
	}

	if err := s.api.SubmitComment(ctx, s.contentID, trimmed); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.state.CommentDraft = ""
	s.mu.Unlock()

	return s.Load(ctx, s.currentPage())
}

// DeleteComment removes one of the caller's comments and re-fetches the
// current page. Ownership is the server's call: a rejected delete surfaces as
// a recoverable error and the page is left as it was. When deleting the last
// comment of a trailing page, the current page is not clamped back; it may
// exceed the new total until the user navigates.
func (s *Store) DeleteComment(ctx context.Context, commentID string) error {
	if !s.session.Authenticated() {
		return s.fail(models.NewUnauthenticatedError("Please log in to delete a comment."))
	}

	if err := s.api.DeleteComment(ctx, commentID); err != nil {
		return s.fail(err)
	}
	return s.Load(ctx, s.currentPage())
}

func (s *Store) currentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentPage
}

// fail records err as the visible error indicator without touching the
// loaded page, then returns it.
func (s *Store) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastError = models.ErrorMessage(err)
	return err
}
