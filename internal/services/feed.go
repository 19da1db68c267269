package services

import (
	"context"
	"log"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
)

// DefaultFeedLimit caps a feed page when the caller does not say otherwise.
const DefaultFeedLimit = 50

// FeedEntry is a post joined with everything the timeline needs to render it.
type FeedEntry struct {
	models.Post
	Author        models.UserCompact  `json:"author"`
	Reactions     []models.Reaction   `json:"reactions"`
	ReadCount     int                 `json:"read_count"`
	ViewerHasRead bool                `json:"viewer_has_read"`
	IsBookmarked  bool                `json:"is_bookmarked"`
	Attachments   []models.Attachment `json:"attachments"`
}

// FeedResult is an aggregated feed page. Suspect is set when a scope that
// has posts on record comes back empty, which historically meant an
// authorization layer silently dropped the rows rather than a genuinely
// empty feed; callers should keep their last-known-good copy in that case.
type FeedResult struct {
	Entries []FeedEntry `json:"entries"`
	Suspect bool        `json:"suspect,omitempty"`
}

// Feed aggregates posts with authors, reactions, read state, bookmarks and
// freshly signed attachment URLs. Every enrichment step is independently
// degradable: a failing join leaves its fields zeroed and the feed loads.
type Feed struct {
	postRepo       repositories.PostRepository
	userRepo       repositories.UserRepository
	reactionRepo   repositories.ReactionRepository
	markerRepo     repositories.ReadMarkerRepository
	bookmarkRepo   repositories.BookmarkRepository
	attachmentRepo repositories.AttachmentRepository
	readTracker    *ReadTracker
	urlSigner      *URLSigner // nil when no object store is configured

	// tests flip this to observe read-marking deterministically
	syncMarkRead bool
}

// NewFeed creates a new Feed aggregator
func NewFeed(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	reactionRepo repositories.ReactionRepository,
	markerRepo repositories.ReadMarkerRepository,
	bookmarkRepo repositories.BookmarkRepository,
	attachmentRepo repositories.AttachmentRepository,
	readTracker *ReadTracker,
	urlSigner *URLSigner,
) *Feed {
	return &Feed{
		postRepo:       postRepo,
		userRepo:       userRepo,
		reactionRepo:   reactionRepo,
		markerRepo:     markerRepo,
		bookmarkRepo:   bookmarkRepo,
		attachmentRepo: attachmentRepo,
		readTracker:    readTracker,
		urlSigner:      urlSigner,
	}
}

// LoadFeed returns the newest non-deleted posts in scope, enriched, capped
// at limit. On success every returned post is marked read for the viewer,
// fire-and-forget: rendering neither waits on nor fails from it.
func (f *Feed) LoadFeed(ctx context.Context, scope models.Scope, viewerID uint, limit int64) (*FeedResult, error) {
	if limit < 1 || limit > DefaultFeedLimit {
		limit = DefaultFeedLimit
	}

	posts, err := f.postRepo.GetPostsByScope(ctx, scope, limit)
	if err != nil {
		return nil, err
	}

	result := &FeedResult{Entries: make([]FeedEntry, len(posts))}

	if len(posts) == 0 {
		seeded, err := f.postRepo.HasPosts(ctx, scope)
		if err != nil {
			log.Printf("WARN: existence check for scope %s/%d failed: %v", scope.Kind, scope.ID, err)
		} else if seeded {
			log.Printf("WARN: scope %s/%d has posts on record but the feed came back empty; possible authorization issue", scope.Kind, scope.ID)
			result.Suspect = true
		}
		return result, nil
	}

	postIDs := make([]string, len(posts))
	authorSet := make(map[uint]bool)
	for i, p := range posts {
		postIDs[i] = p.ID.Hex()
		authorSet[p.AuthorID] = true
	}
	authorIDs := make([]uint, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}

	authorMap, err := f.userRepo.GetUsersByIDs(authorIDs)
	if err != nil {
		log.Printf("WARN: author join failed: %v", err)
		authorMap = map[uint]models.User{}
	}

	reactionMap, err := f.reactionRepo.GetReactionsByPostIDs(postIDs)
	if err != nil {
		log.Printf("WARN: reaction join failed: %v", err)
		reactionMap = map[string][]models.Reaction{}
	}

	markerMap, err := f.markerRepo.GetMarkersByPostIDs(postIDs)
	if err != nil {
		log.Printf("WARN: read-marker join failed: %v", err)
		markerMap = map[string][]models.ReadMarker{}
	}

	bookmarkMap, err := f.bookmarkRepo.GetBookmarkedPostIDs(viewerID, postIDs)
	if err != nil {
		log.Printf("WARN: bookmark join failed: %v", err)
		bookmarkMap = map[string]bool{}
	}

	attachmentMap, err := f.attachmentRepo.GetAttachmentsByPostIDs(ctx, postIDs)
	if err != nil {
		log.Printf("WARN: attachment join failed: %v", err)
		attachmentMap = map[string][]models.Attachment{}
	}

	for i, p := range posts {
		pid := p.ID.Hex()
		entry := FeedEntry{
			Post:         p,
			Reactions:    reactionMap[pid],
			IsBookmarked: bookmarkMap[pid],
		}
		if author, ok := authorMap[p.AuthorID]; ok {
			entry.Author = author.ToCompact()
		}
		markers := markerMap[pid]
		entry.ReadCount = len(markers)
		for _, m := range markers {
			if m.UserID == viewerID {
				entry.ViewerHasRead = true
				break
			}
		}
		entry.Attachments = f.resolveAttachments(ctx, attachmentMap[pid])
		result.Entries[i] = entry
	}

	if f.syncMarkRead {
		f.readTracker.MarkRead(viewerID, postIDs)
	} else {
		go f.readTracker.MarkRead(viewerID, postIDs)
	}

	return result, nil
}

// resolveAttachments normalizes stale signed-URL locators to durable paths
// and signs each attachment fresh. A failed signature degrades that one
// attachment, never the feed.
func (f *Feed) resolveAttachments(ctx context.Context, attachments []models.Attachment) []models.Attachment {
	if len(attachments) == 0 {
		return nil
	}
	resolved := make([]models.Attachment, len(attachments))
	for i, a := range attachments {
		if durable := DurablePath(a.StoragePath); durable != a.StoragePath {
			a.StoragePath = durable
			if err := f.attachmentRepo.UpdateStoragePath(ctx, a.ID.Hex(), durable); err != nil {
				log.Printf("WARN: persisting durable path for attachment %s failed: %v", a.ID.Hex(), err)
			}
		}
		if f.urlSigner != nil {
			signed, err := f.urlSigner.SignedURL(ctx, a.StoragePath)
			if err != nil {
				log.Printf("WARN: signing attachment %s failed: %v", a.ID.Hex(), err)
			} else {
				a.SignedURL = signed
			}
		}
		resolved[i] = a
	}
	return resolved
}
