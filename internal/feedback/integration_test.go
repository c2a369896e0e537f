package feedback_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/api"
	"photoshare/internal/feedback"
	"photoshare/internal/models"
	"photoshare/internal/session"
	"photoshare/internal/stubserver"
)

// startStub serves the in-memory backend on a loopback port and returns its
// base URL.
func startStub(t *testing.T, srv *stubserver.Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = srv.App().Listener(ln)
	}()
	t.Cleanup(func() { _ = srv.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestStoreAgainstStubServer(t *testing.T) {
	alice := models.UserRef{ID: "u-alice", Username: "alice"}
	bob := models.UserRef{ID: "u-bob", Username: "bob"}

	srv := stubserver.New()
	srv.AddUser("tok-alice", alice, models.Roles{Creator: true, Consumer: true})
	srv.AddUser("tok-bob", bob, models.Roles{Consumer: true})
	srv.AddPost(models.Post{
		ID:         "p1",
		Title:      "Sunrise over the bay",
		MediaURL:   "https://cdn.example.com/image/upload/sunrise.jpg",
		Creator:    alice,
		UploadDate: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	})
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	var oldestID string
	for i := 0; i < 7; i++ {
		id := srv.AddComment("p1", alice.ID, fmt.Sprintf("comment %d", i+1), base.Add(time.Duration(i)*time.Minute))
		if i == 0 {
			oldestID = id
		}
	}

	host := startStub(t, srv)
	sess := session.New("tok-bob")
	client := api.New(host, sess, api.WithTimeout(5*time.Second))
	ctx := context.Background()

	store, err := feedback.Open(ctx, client, sess, "p1")
	require.NoError(t, err)

	state := store.State()
	assert.Equal(t, feedback.Loaded, state.Phase)
	assert.Len(t, state.Comments, 5)
	assert.Equal(t, 2, state.Pagination.TotalPages)
	assert.Equal(t, 7, state.Pagination.TotalComments)
	assert.Equal(t, "comment 7", state.Comments[0].Text)

	require.NoError(t, store.ChangePage(ctx, 2))
	state = store.State()
	assert.Equal(t, 2, state.CurrentPage)
	assert.Len(t, state.Comments, 2)
	assert.Equal(t, "comment 1", state.Comments[1].Text)

	// Rating refreshes the current page in place.
	require.NoError(t, store.Rate(ctx, 4))
	state = store.State()
	assert.Equal(t, 2, state.CurrentPage)
	assert.Equal(t, 4.0, state.AverageRating)
	assert.Equal(t, 1, state.RatingsCount)
	require.NotNil(t, state.UserRating)
	assert.Equal(t, 4, *state.UserRating)

	// Posting a comment keeps the viewer on their page and clears the draft.
	store.SetDraft("  lovely light  ")
	require.NoError(t, store.SubmitComment(ctx, store.State().CommentDraft))
	state = store.State()
	assert.Equal(t, 2, state.CurrentPage)
	assert.Empty(t, state.CommentDraft)
	assert.Equal(t, 8, state.Pagination.TotalComments)

	// Deleting somebody else's comment is rejected server-side.
	err = store.DeleteComment(ctx, oldestID)
	require.Error(t, err)
	assert.Equal(t, models.CodeForbidden, models.ErrorCode(err))
	assert.Equal(t, 8, store.State().Pagination.TotalComments)
}

func TestExpiredTokenClearsSession(t *testing.T) {
	srv := stubserver.New()
	srv.AddPost(models.Post{
		ID:         "p1",
		Title:      "Night market",
		Creator:    models.UserRef{ID: "u-alice", Username: "alice"},
		UploadDate: time.Now().UTC(),
	})
	host := startStub(t, srv)

	sess := session.New("tok-revoked")
	client := api.New(host, sess, api.WithTimeout(5*time.Second))

	_, err := feedback.Open(context.Background(), client, sess, "p1")
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthenticated, models.ErrorCode(err))
	assert.Equal(t, "Session expired or invalid token. Please log in again.", models.ErrorMessage(err))
	assert.False(t, sess.Authenticated(), "a rejected token is cleared locally")
}
