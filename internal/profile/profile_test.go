package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/models"
)

type apiStub struct {
	profileFn func(ctx context.Context, userID string) (*models.Profile, error)
	postsFn   func(ctx context.Context, userID string) ([]models.Post, error)
}

func (s *apiStub) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profileFn(ctx, userID)
}

func (s *apiStub) UserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	return s.postsFn(ctx, userID)
}

func TestFetchCreatorIncludesPosts(t *testing.T) {
	stub := &apiStub{
		profileFn: func(_ context.Context, userID string) (*models.Profile, error) {
			return &models.Profile{
				ID:       userID,
				Username: "alice",
				Roles:    models.Roles{Creator: true, Consumer: true},
			}, nil
		},
		postsFn: func(_ context.Context, userID string) ([]models.Post, error) {
			return []models.Post{{ID: "p1", Creator: models.UserRef{ID: userID}}}, nil
		},
	}

	view, err := Fetch(context.Background(), stub, "u-alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Profile.Username)
	require.Len(t, view.Posts, 1)
	assert.Equal(t, "p1", view.Posts[0].ID)
}

func TestFetchConsumerSkipsPosts(t *testing.T) {
	stub := &apiStub{
		profileFn: func(_ context.Context, userID string) (*models.Profile, error) {
			return &models.Profile{
				ID:       userID,
				Username: "bob",
				Roles:    models.Roles{Consumer: true},
			}, nil
		},
		postsFn: func(context.Context, string) ([]models.Post, error) {
			t.Fatal("posts must not be fetched for a consumer")
			return nil, nil
		},
	}

	view, err := Fetch(context.Background(), stub, "u-bob")
	require.NoError(t, err)
	assert.Empty(t, view.Posts)
}

func TestFetchProfileErrorShortCircuits(t *testing.T) {
	stub := &apiStub{
		profileFn: func(context.Context, string) (*models.Profile, error) {
			return nil, errors.New("not found")
		},
	}

	_, err := Fetch(context.Background(), stub, "u-ghost")
	assert.Error(t, err)
}

func TestFetchPostsErrorPropagates(t *testing.T) {
	stub := &apiStub{
		profileFn: func(_ context.Context, userID string) (*models.Profile, error) {
			return &models.Profile{ID: userID, Roles: models.Roles{Creator: true}}, nil
		},
		postsFn: func(context.Context, string) ([]models.Post, error) {
			return nil, errors.New("backend down")
		},
	}

	_, err := Fetch(context.Background(), stub, "u-alice")
	assert.Error(t, err)
}
