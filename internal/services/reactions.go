package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
)

// Reactions is the reaction ledger. A reaction of a given kind is toggled
// per (post, user): present → removed, absent → created.
type Reactions struct {
	reactionRepo repositories.ReactionRepository
	postRepo     repositories.PostRepository
	userRepo     repositories.UserRepository
}

// NewReactions creates a new Reactions service
func NewReactions(reactionRepo repositories.ReactionRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository) *Reactions {
	return &Reactions{reactionRepo: reactionRepo, postRepo: postRepo, userRepo: userRepo}
}

// Toggle flips the (post, user, kind) reaction and returns whether it is
// active afterwards, so an optimistic client update can be reconciled
// without refetching. Returns ErrNotMember when the user does not belong to
// the post's facility and ErrNotFound when the post does not exist; both
// are kept distinct from storage errors.
func (s *Reactions) Toggle(ctx context.Context, postID string, userID uint, kind string) (bool, error) {
	if !models.ValidReactionKind(kind) {
		return false, fmt.Errorf("unknown reaction type %q", kind)
	}

	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return false, ErrNotFound
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return false, fmt.Errorf("resolving user %d: %w", userID, err)
	}
	if user.FacilityID != post.FacilityID {
		return false, ErrNotMember
	}

	active, err := s.reactionRepo.HasReaction(postID, userID, kind)
	if err != nil {
		return false, err
	}

	if active {
		if err := s.reactionRepo.DeleteReaction(postID, userID, kind); err != nil {
			// Deleted underneath us; already in the desired state.
			if strings.Contains(err.Error(), "not found") {
				return false, nil
			}
			return true, err
		}
		return false, nil
	}

	reaction := &models.Reaction{PostID: postID, UserID: userID, Kind: kind}
	if err := s.reactionRepo.CreateReaction(reaction); err != nil {
		// A duplicate insert racing past the existence check hits the
		// unique index; treat it as already in the desired state.
		if isUniqueViolation(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// isUniqueViolation matches the unique-constraint errors gorm surfaces from
// both the postgres and sqlite drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
