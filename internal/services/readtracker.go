package services

import (
	"context"
	"log"
	"time"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
)

// ReadTracker is the read-tracking ledger: idempotent per-user read markers
// and unread counts across heterogeneous scopes.
type ReadTracker struct {
	markerRepo repositories.ReadMarkerRepository
	postRepo   repositories.PostRepository
}

// NewReadTracker creates a new ReadTracker
func NewReadTracker(markerRepo repositories.ReadMarkerRepository, postRepo repositories.PostRepository) *ReadTracker {
	return &ReadTracker{markerRepo: markerRepo, postRepo: postRepo}
}

// MarkRead records that the viewer has seen the given posts. Posts already
// marked are skipped via one batched lookup; the remainder is inserted in a
// single statement that tolerates duplicate rows, so repeated calls on the
// same set are no-ops. Returns the number of newly marked posts. Errors are
// logged and swallowed: failing to write this side effect must never break
// the read path that triggered it.
func (t *ReadTracker) MarkRead(viewerID uint, postIDs []string) int64 {
	if len(postIDs) == 0 {
		return 0
	}

	already, err := t.markerRepo.GetMarkedPostIDs(viewerID, postIDs)
	if err != nil {
		log.Printf("WARN: read-marker lookup failed for user %d: %v", viewerID, err)
		return 0
	}

	now := time.Now()
	var markers []models.ReadMarker
	for _, pid := range postIDs {
		if already[pid] {
			continue
		}
		markers = append(markers, models.ReadMarker{PostID: pid, UserID: viewerID, ReadAt: now})
	}
	if len(markers) == 0 {
		return 0
	}

	inserted, err := t.markerRepo.CreateMarkers(markers)
	if err != nil {
		log.Printf("WARN: marking %d posts read for user %d failed: %v", len(markers), viewerID, err)
		return 0
	}
	return inserted
}

// CountUnread counts the posts the viewer has not read across the given
// scopes. Scopes are independent; the counts sum.
func (t *ReadTracker) CountUnread(ctx context.Context, viewerID uint, scopes []models.Scope) (int64, error) {
	var total int64
	for _, scope := range scopes {
		postIDs, err := t.postRepo.GetPostIDsByScope(ctx, scope)
		if err != nil {
			return 0, err
		}
		if len(postIDs) == 0 {
			continue
		}
		marked, err := t.markerRepo.CountMarked(viewerID, postIDs)
		if err != nil {
			return 0, err
		}
		total += int64(len(postIDs)) - marked
	}
	return total, nil
}
