// Package profile assembles a user's profile page: the profile itself plus,
// for creators, the posts they have uploaded.
package profile

import (
	"context"

	"photoshare/internal/models"
)

// API is the slice of the backend the profile view needs.
type API interface {
	Profile(ctx context.Context, userID string) (*models.Profile, error)
	UserPosts(ctx context.Context, userID string) ([]models.Post, error)
}

// View is everything the profile page renders.
type View struct {
	Profile models.Profile
	Posts   []models.Post
}

// Fetch loads a user's profile and, when the profile carries the creator
// role, their posts. Consumers have no posts, so the second call is skipped
// for them.
func Fetch(ctx context.Context, api API, userID string) (*View, error) {
	prof, err := api.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &View{Profile: *prof}
	if !prof.Roles.Creator {
		return view, nil
	}

	posts, err := api.UserPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	view.Posts = posts
	return view, nil
}
