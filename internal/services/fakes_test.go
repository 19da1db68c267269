package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
)

// setupTestDB opens an in-memory SQLite database with the relational models
// migrated, standing in for PostgreSQL.
func setupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.CareGroup{},
		&models.Client{},
		&models.Reaction{},
		&models.ReadMarker{},
		&models.Bookmark{},
		&models.PushSubscription{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// fakePostRepo is an in-memory stand-in for the MongoDB post repository.
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]models.Post)}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	if !post.HasValidScope() {
		return fmt.Errorf("post must target exactly one of group or client")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	r.posts[post.ID.Hex()] = *post
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post not found")
	}
	return &post, nil
}

func (r *fakePostRepo) inScope(post models.Post, scope models.Scope) bool {
	if post.Deleted {
		return false
	}
	if scope.Kind == models.ScopeGroup {
		return post.GroupID == scope.ID
	}
	return post.ClientID == scope.ID
}

func (r *fakePostRepo) GetPostsByScope(_ context.Context, scope models.Scope, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []models.Post
	for _, p := range r.posts {
		if r.inScope(p, scope) {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	if int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *fakePostRepo) GetPostIDsByScope(_ context.Context, scope models.Scope) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, p := range r.posts {
		if r.inScope(p, scope) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakePostRepo) HasPosts(_ context.Context, scope models.Scope) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if scope.Kind == models.ScopeGroup && p.GroupID == scope.ID {
			return true, nil
		}
		if scope.Kind == models.ScopeClient && p.ClientID == scope.ID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) SoftDeletePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return fmt.Errorf("post not found")
	}
	post.Deleted = true
	r.posts[id] = post
	return nil
}

// fakeAttachmentRepo is an in-memory stand-in for the MongoDB attachment
// repository.
type fakeAttachmentRepo struct {
	mu          sync.Mutex
	attachments map[string]models.Attachment
	failCreate  bool
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: make(map[string]models.Attachment)}
}

func (r *fakeAttachmentRepo) CreateAttachment(_ context.Context, a *models.Attachment) error {
	if r.failCreate {
		return fmt.Errorf("insert rejected")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now()
	r.attachments[a.ID.Hex()] = *a
	return nil
}

func (r *fakeAttachmentRepo) GetAttachmentByID(_ context.Context, id string) (*models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attachments[id]
	if !ok {
		return nil, fmt.Errorf("attachment not found")
	}
	return &a, nil
}

func (r *fakeAttachmentRepo) GetAttachmentsByPostIDs(_ context.Context, postIDs []string) (map[string][]models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	result := make(map[string][]models.Attachment)
	for _, a := range r.attachments {
		if want[a.PostID] && !a.Deleted {
			result[a.PostID] = append(result[a.PostID], a)
		}
	}
	return result, nil
}

func (r *fakeAttachmentRepo) SoftDeleteAttachment(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attachments[id]
	if !ok {
		return fmt.Errorf("attachment not found")
	}
	a.Deleted = true
	r.attachments[id] = a
	return nil
}

func (r *fakeAttachmentRepo) UpdateStoragePath(_ context.Context, id string, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attachments[id]
	if !ok {
		return fmt.Errorf("attachment not found")
	}
	a.StoragePath = path
	r.attachments[id] = a
	return nil
}

// fakeSender records deliveries and answers with a per-endpoint status,
// defaulting to 201.
type fakeSender struct {
	mu       sync.Mutex
	statuses map[string]int
	sentTo   []string
}

func newFakeSender() *fakeSender {
	return &fakeSender{statuses: make(map[string]int)}
}

func (s *fakeSender) Send(_ context.Context, sub models.PushSubscription, _ []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sentTo = append(s.sentTo, sub.Endpoint)
	if status, ok := s.statuses[sub.Endpoint]; ok {
		return status, nil
	}
	return 201, nil
}

// fakeSigner scripts Exists/PresignGet outcomes and records attempt times.
type fakeSigner struct {
	mu           sync.Mutex
	missing      bool
	failuresLeft int
	attempts     []time.Time
}

func (s *fakeSigner) Exists(_ context.Context, _ string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, time.Now())
	if s.failuresLeft > 0 {
		s.failuresLeft--
		return false, fmt.Errorf("storage temporarily unavailable")
	}
	return !s.missing, nil
}

func (s *fakeSigner) PresignGet(_ context.Context, path string, _ time.Duration) (string, error) {
	return "https://storage.example/signed/" + path + "?token=abc", nil
}
