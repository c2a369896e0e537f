// Package feed lists the content feed and enriches it with per-item feedback
// summaries.
package feed

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"photoshare/internal/models"
	"photoshare/internal/session"
)

// API is the slice of the backend the feed needs.
type API interface {
	ListContent(ctx context.Context) ([]models.Post, error)
	SearchContent(ctx context.Context, title string) ([]models.Post, error)
	FetchFeedback(ctx context.Context, contentID string, page, limit int) (*models.FeedbackPage, error)
}

// fetchConcurrency bounds the parallel feedback fetches during enrichment.
const fetchConcurrency = 4

// Service retrieves the feed on behalf of one session.
type Service struct {
	api     API
	session *session.Session
}

// NewService creates a feed service.
func NewService(api API, sess *session.Session) *Service {
	return &Service{api: api, session: sess}
}

// Browse returns the feed, or the title-search results when search is
// non-blank. Signed-in users do not see their own posts; the feed is for
// discovering other people's content.
func (s *Service) Browse(ctx context.Context, search string) ([]models.Post, error) {
	var (
		posts []models.Post
		err   error
	)
	if strings.TrimSpace(search) != "" {
		posts, err = s.api.SearchContent(ctx, strings.TrimSpace(search))
	} else {
		posts, err = s.api.ListContent(ctx)
	}
	if err != nil {
		return nil, err
	}

	identity := s.session.Identity()
	if identity == nil || identity.ID == "" {
		return posts, nil
	}
	filtered := posts[:0]
	for _, post := range posts {
		if post.Creator.ID != identity.ID {
			filtered = append(filtered, post)
		}
	}
	return filtered, nil
}

// Summaries fetches the first feedback page for every post concurrently and
// returns them keyed by post id. The web client does the same thing when it
// mounts a rating widget under each feed item.
func (s *Service) Summaries(ctx context.Context, posts []models.Post, pageSize int) (map[string]*models.FeedbackPage, error) {
	summaries := make(map[string]*models.FeedbackPage, len(posts))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, post := range posts {
		post := post
		g.Go(func() error {
			snapshot, err := s.api.FetchFeedback(gctx, post.ID, 1, pageSize)
			if err != nil {
				return err
			}
			mu.Lock()
			summaries[post.ID] = snapshot
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
