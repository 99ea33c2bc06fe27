package service

import (
	"context"
	"strings"
	"testing"

	"moneynerds-backend/internal/features/comment/models"
	"moneynerds-backend/internal/features/comment/repository/memory"
	postmodels "moneynerds-backend/internal/features/post/models"
	postrepo "moneynerds-backend/internal/features/post/repository"
	postmemory "moneynerds-backend/internal/features/post/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, int64) {
	t.Helper()

	posts := postmemory.NewMemoryRepository()
	post := &postmodels.Post{Username: "alice", Message: "hello", WalletAddress: "author"}
	require.NoError(t, posts.Create(context.Background(), post))

	return NewService(memory.NewMemoryRepository(), posts), post.ID
}

func TestCreateComment(t *testing.T) {
	svc, postID := newTestService(t)

	comment, err := svc.Create(context.Background(), postID, "wallet-1", &models.CreateCommentRequest{
		Nickname: "bob",
		Content:  "nice post",
	})
	require.NoError(t, err)

	assert.Equal(t, postID, comment.PostID)
	assert.Equal(t, "wallet-1", comment.WalletAddress)
	assert.Equal(t, "bob", comment.Nickname)
	assert.Equal(t, "nice post", comment.Content)
	assert.NotZero(t, comment.ID)
}

func TestCreateCommentDefaultsNickname(t *testing.T) {
	svc, postID := newTestService(t)

	comment, err := svc.Create(context.Background(), postID, "wallet-1", &models.CreateCommentRequest{
		Content: "no name given",
	})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", comment.Nickname)

	// A nickname that sanitizes away falls back too.
	comment, err = svc.Create(context.Background(), postID, "wallet-1", &models.CreateCommentRequest{
		Nickname: "<script>x</script>",
		Content:  "still here",
	})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", comment.Nickname)
}

func TestCreateCommentRejectsBadContent(t *testing.T) {
	svc, postID := newTestService(t)

	_, err := svc.Create(context.Background(), postID, "wallet-1", &models.CreateCommentRequest{Content: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), postID, "wallet-1", &models.CreateCommentRequest{
		Content: strings.Repeat("a", 501),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateCommentUnknownPost(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 42, "wallet-1", &models.CreateCommentRequest{Content: "hello"})
	assert.ErrorIs(t, err, postrepo.ErrPostNotFound)
}

func TestListByPost(t *testing.T) {
	svc, postID := newTestService(t)

	for _, content := range []string{"first", "second", "third"} {
		_, err := svc.Create(context.Background(), postID, "wallet-1", &models.CreateCommentRequest{Content: content})
		require.NoError(t, err)
	}

	comments, err := svc.ListByPost(context.Background(), postID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Content)
	assert.Equal(t, "first", comments[2].Content)

	comments, err = svc.ListByPost(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
