// Package stubserver is an in-memory stand-in for the PhotoShare backend. It
// implements the exact endpoint contract the client consumes, for integration
// tests and for local development via the stub command. State lives in maps;
// nothing persists.
package stubserver

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"photoshare/internal/models"
)

const sessionExpiredMessage = "Session expired or invalid token. Please log in again."

type storedComment struct {
	id        string
	contentID string
	userID    string
	text      string
	rating    *int // author's rating when the comment was posted
	date      time.Time
}

// Server holds the stub's in-memory state and its fiber app.
type Server struct {
	mu           sync.RWMutex
	app          *fiber.App
	usersByToken map[string]models.UserRef
	profiles     map[string]models.Profile
	posts        []models.Post
	comments     []storedComment
	ratings      map[string]map[string]int // contentID -> userID -> rating
}

// New creates a stub server with empty state.
func New() *Server {
	s := &Server{
		usersByToken: make(map[string]models.UserRef),
		profiles:     make(map[string]models.Profile),
		ratings:      make(map[string]map[string]int),
	}
	s.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.routes()
	return s
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves the stub on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the stub.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// AddUser registers a user and the bearer token that authenticates them.
func (s *Server) AddUser(token string, ref models.UserRef, roles models.Roles) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByToken[token] = ref
	s.profiles[ref.ID] = models.Profile{
		ID:        ref.ID,
		Username:  ref.Username,
		Email:     ref.Username + "@example.com",
		Roles:     roles,
		CreatedAt: time.Now().UTC(),
	}
}

// AddPost seeds a content item.
func (s *Server) AddPost(post models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, post)
}

// AddComment seeds a comment and returns its id. The author's current rating
// for the item, when present, is captured alongside the text.
func (s *Server) AddComment(contentID, userID, text string, at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCommentLocked(contentID, userID, text, at)
}

func (s *Server) addCommentLocked(contentID, userID, text string, at time.Time) string {
	comment := storedComment{
		id:        uuid.NewString(),
		contentID: contentID,
		userID:    userID,
		text:      text,
		date:      at,
	}
	if r, ok := s.ratings[contentID][userID]; ok {
		rating := r
		comment.rating = &rating
	}
	s.comments = append(s.comments, comment)
	return comment.id
}

// SetRating seeds a rating.
func (s *Server) SetRating(contentID, userID string, rating int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ratings[contentID] == nil {
		s.ratings[contentID] = make(map[string]int)
	}
	s.ratings[contentID][userID] = rating
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/ratings-comments/:id", s.getFeedback)
	api.Post("/rating", s.postRating)
	api.Post("/comment", s.postComment)
	api.Delete("/comment/:id", s.deleteComment)

	api.Get("/creator/content", s.listContent)
	api.Get("/creator/content/search", s.searchContent)

	api.Get("/user/profile/:id", s.getProfile)
	api.Get("/user/posts/:id", s.getUserPosts)
	api.Get("/user/all", s.listUsers)
}

// caller resolves the bearer token. ok=false with errored=true means a token
// was presented but is unknown, which is a 401; absent tokens are anonymous.
func (s *Server) caller(c *fiber.Ctx) (models.UserRef, bool, bool) {
	header := c.Get("Authorization")
	if header == "" {
		return models.UserRef{}, false, false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	s.mu.RLock()
	ref, ok := s.usersByToken[token]
	s.mu.RUnlock()
	if !ok {
		return models.UserRef{}, false, true
	}
	return ref, true, false
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": sessionExpiredMessage,
	})
}

func (s *Server) findPost(contentID string) (models.Post, bool) {
	for _, p := range s.posts {
		if p.ID == contentID {
			return p, true
		}
	}
	return models.Post{}, false
}

// getFeedback returns the aggregate rating plus one page of comments, newest
// first. userRating appears only for authenticated callers.
func (s *Server) getFeedback(c *fiber.Ctx) error {
	ref, authed, badToken := s.caller(c)
	if badToken {
		return unauthorized(c)
	}

	contentID := c.Params("id")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 5)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.findPost(contentID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Content not found",
		})
	}

	var sum, count int
	for _, r := range s.ratings[contentID] {
		sum += r
		count++
	}
	var average float64
	if count > 0 {
		average = float64(sum) / float64(count)
	}

	var thread []storedComment
	for _, cm := range s.comments {
		if cm.contentID == contentID {
			thread = append(thread, cm)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool {
		return thread[i].date.After(thread[j].date)
	})

	total := len(thread)
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	pageComments := make([]models.Comment, 0, end-start)
	for _, cm := range thread[start:end] {
		pageComments = append(pageComments, models.Comment{
			ID:         cm.id,
			User:       s.userRef(cm.userID),
			UserRating: cm.rating,
			Text:       cm.text,
			Date:       cm.date,
		})
	}

	response := fiber.Map{
		"averageRating": average,
		"ratingsCount":  count,
		"comments":      pageComments,
		"pagination": fiber.Map{
			"totalPages":    totalPages,
			"totalComments": total,
		},
	}
	if authed {
		if r, ok := s.ratings[contentID][ref.ID]; ok {
			response["userRating"] = r
		} else {
			response["userRating"] = nil
		}
	}
	return c.JSON(response)
}

func (s *Server) userRef(userID string) models.UserRef {
	if p, ok := s.profiles[userID]; ok {
		return models.UserRef{ID: p.ID, Username: p.Username}
	}
	return models.UserRef{ID: userID, Username: "unknown"}
}

type ratingRequest struct {
	ContentID string `json:"contentId"`
	Rating    int    `json:"rating"`
}

// postRating upserts the caller's rating for an item: one active rating per
// (user, item).
func (s *Server) postRating(c *fiber.Ctx) error {
	ref, authed, badToken := s.caller(c)
	if badToken || !authed {
		return unauthorized(c)
	}

	req := new(ratingRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Rating must be between 1 and 5",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findPost(req.ContentID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Content not found",
		})
	}
	if s.ratings[req.ContentID] == nil {
		s.ratings[req.ContentID] = make(map[string]int)
	}
	s.ratings[req.ContentID][ref.ID] = req.Rating

	return c.JSON(fiber.Map{"message": "Rating saved"})
}

type commentRequest struct {
	ContentID string `json:"contentId"`
	Text      string `json:"commentText"`
}

func (s *Server) postComment(c *fiber.Ctx) error {
	ref, authed, badToken := s.caller(c)
	if badToken || !authed {
		return unauthorized(c)
	}

	req := new(commentRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Comment cannot be empty",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findPost(req.ContentID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Content not found",
		})
	}
	id := s.addCommentLocked(req.ContentID, ref.ID, req.Text, time.Now().UTC())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"_id": id})
}

func (s *Server) deleteComment(c *fiber.Ctx) error {
	ref, authed, badToken := s.caller(c)
	if badToken || !authed {
		return unauthorized(c)
	}

	commentID := c.Params("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cm := range s.comments {
		if cm.id != commentID {
			continue
		}
		if cm.userID != ref.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You can only delete your own comments",
			})
		}
		s.comments = append(s.comments[:i], s.comments[i+1:]...)
		return c.JSON(fiber.Map{"message": "Comment deleted"})
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Comment not found",
	})
}

func (s *Server) listContent(c *fiber.Ctx) error {
	if _, _, badToken := s.caller(c); badToken {
		return unauthorized(c)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	posts := append([]models.Post(nil), s.posts...)
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].UploadDate.After(posts[j].UploadDate)
	})
	return c.JSON(posts)
}

func (s *Server) searchContent(c *fiber.Ctx) error {
	if _, _, badToken := s.caller(c); badToken {
		return unauthorized(c)
	}

	query := strings.ToLower(c.Query("title"))

	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]models.Post, 0)
	for _, p := range s.posts {
		if strings.Contains(strings.ToLower(p.Title), query) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].UploadDate.After(matched[j].UploadDate)
	})
	return c.JSON(matched)
}

func (s *Server) getProfile(c *fiber.Ctx) error {
	_, authed, badToken := s.caller(c)
	if badToken || !authed {
		return unauthorized(c)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[c.Params("id")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
		})
	}
	return c.JSON(profile)
}

func (s *Server) getUserPosts(c *fiber.Ctx) error {
	_, authed, badToken := s.caller(c)
	if badToken || !authed {
		return unauthorized(c)
	}

	userID := c.Params("id")

	s.mu.RLock()
	defer s.mu.RUnlock()
	owned := make([]models.Post, 0)
	for _, p := range s.posts {
		if p.Creator.ID == userID {
			owned = append(owned, p)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].UploadDate.After(owned[j].UploadDate)
	})
	return c.JSON(owned)
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	_, authed, badToken := s.caller(c)
	if badToken || !authed {
		return unauthorized(c)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.UserRef, 0, len(s.profiles))
	for _, p := range s.profiles {
		users = append(users, models.UserRef{ID: p.ID, Username: p.Username})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return c.JSON(users)
}
