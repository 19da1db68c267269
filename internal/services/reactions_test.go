package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
)

func newReactions(t *testing.T) (*Reactions, *fakePostRepo, repositories.ReactionRepository, repositories.UserRepository) {
	t.Helper()
	db, err := setupTestDB()
	require.NoError(t, err)
	reactionRepo := repositories.NewPostgresReactionRepository(db)
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := newFakePostRepo()
	return NewReactions(reactionRepo, postRepo, userRepo), postRepo, reactionRepo, userRepo
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	svc, postRepo, reactionRepo, userRepo := newReactions(t)
	ctx := context.Background()

	require.NoError(t, userRepo.CreateUser(&models.User{Name: "Aki", Email: "aki@example.com", FacilityID: 1}))
	user, err := userRepo.GetUserByEmail("aki@example.com")
	require.NoError(t, err)

	post := &models.Post{FacilityID: 1, AuthorID: 99, ClientID: 5, Body: "hello", CreatedAt: time.Now()}
	require.NoError(t, postRepo.CreatePost(ctx, post))
	postID := post.ID.Hex()

	active, err := svc.Toggle(ctx, postID, user.ID, models.ReactionThanks)
	require.NoError(t, err)
	assert.True(t, active)

	has, err := reactionRepo.HasReaction(postID, user.ID, models.ReactionThanks)
	require.NoError(t, err)
	assert.True(t, has)

	active, err = svc.Toggle(ctx, postID, user.ID, models.ReactionThanks)
	require.NoError(t, err)
	assert.False(t, active)

	has, err = reactionRepo.HasReaction(postID, user.ID, models.ReactionThanks)
	require.NoError(t, err)
	assert.False(t, has, "double toggle must restore the original state")
}

func TestToggleKindsAreIndependent(t *testing.T) {
	svc, postRepo, reactionRepo, userRepo := newReactions(t)
	ctx := context.Background()

	require.NoError(t, userRepo.CreateUser(&models.User{Name: "Ben", Email: "ben@example.com", FacilityID: 1}))
	user, err := userRepo.GetUserByEmail("ben@example.com")
	require.NoError(t, err)

	post := &models.Post{FacilityID: 1, AuthorID: 99, GroupID: 3, Body: "note", CreatedAt: time.Now()}
	require.NoError(t, postRepo.CreatePost(ctx, post))
	postID := post.ID.Hex()

	_, err = svc.Toggle(ctx, postID, user.ID, models.ReactionLike)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, postID, user.ID, models.ReactionCheck)
	require.NoError(t, err)

	reactions, err := reactionRepo.GetReactionsByPostID(postID)
	require.NoError(t, err)
	assert.Len(t, reactions, 2)

	// Removing one kind leaves the other
	_, err = svc.Toggle(ctx, postID, user.ID, models.ReactionLike)
	require.NoError(t, err)
	reactions, err = reactionRepo.GetReactionsByPostID(postID)
	require.NoError(t, err)
	require.Len(t, reactions, 1)
	assert.Equal(t, models.ReactionCheck, reactions[0].Kind)
}

func TestToggleRejectsNonMembers(t *testing.T) {
	svc, postRepo, _, userRepo := newReactions(t)
	ctx := context.Background()

	require.NoError(t, userRepo.CreateUser(&models.User{Name: "Outsider", Email: "out@example.com", FacilityID: 2}))
	user, err := userRepo.GetUserByEmail("out@example.com")
	require.NoError(t, err)

	post := &models.Post{FacilityID: 1, AuthorID: 99, ClientID: 5, Body: "private", CreatedAt: time.Now()}
	require.NoError(t, postRepo.CreatePost(ctx, post))

	_, err = svc.Toggle(ctx, post.ID.Hex(), user.ID, models.ReactionOK)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestToggleUnknownPostAndKind(t *testing.T) {
	svc, postRepo, _, userRepo := newReactions(t)
	ctx := context.Background()

	require.NoError(t, userRepo.CreateUser(&models.User{Name: "Cam", Email: "cam@example.com", FacilityID: 1}))
	user, err := userRepo.GetUserByEmail("cam@example.com")
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, "aaaaaaaaaaaaaaaaaaaaaaaa", user.ID, models.ReactionLike)
	assert.ErrorIs(t, err, ErrNotFound)

	post := &models.Post{FacilityID: 1, AuthorID: 99, ClientID: 1, Body: "x", CreatedAt: time.Now()}
	require.NoError(t, postRepo.CreatePost(ctx, post))
	_, err = svc.Toggle(ctx, post.ID.Hex(), user.ID, "applause")
	assert.Error(t, err)
}
