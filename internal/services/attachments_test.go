package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
)

// fakeStore is an in-memory object store recording uploads and removals.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Upload(_ context.Context, path string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return nil
}

func (s *fakeStore) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	s.removed = append(s.removed, path)
	return nil
}

func TestUploadCreatesObjectAndRecord(t *testing.T) {
	repo := newFakeAttachmentRepo()
	store := newFakeStore()
	svc := NewAttachments(repo, store)

	post := &models.Post{ID: primitive.NewObjectID(), FacilityID: 1, ClientID: 4}

	attachment, err := svc.Upload(context.Background(), post, "plan.pdf", "application/pdf", strings.NewReader("%PDF"), 4)
	require.NoError(t, err)

	assert.Equal(t, models.AttachmentPDF, attachment.Kind)
	assert.Equal(t, post.ID.Hex(), attachment.PostID)
	assert.Contains(t, store.objects, attachment.StoragePath)
	stored, err := repo.GetAttachmentByID(context.Background(), attachment.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, attachment.StoragePath, stored.StoragePath)
}

func TestUploadRemovesObjectWhenRecordInsertFails(t *testing.T) {
	repo := newFakeAttachmentRepo()
	repo.failCreate = true
	store := newFakeStore()
	svc := NewAttachments(repo, store)

	post := &models.Post{ID: primitive.NewObjectID(), FacilityID: 1, GroupID: 2}

	_, err := svc.Upload(context.Background(), post, "photo.png", "image/png", strings.NewReader("png"), 3)
	require.Error(t, err)

	assert.Empty(t, store.objects, "a failed record insert must not leave the object behind")
	require.Len(t, store.removed, 1)
	assert.Contains(t, store.removed[0], post.ID.Hex())
}

func TestUploadWithoutStoreIsRejected(t *testing.T) {
	svc := NewAttachments(newFakeAttachmentRepo(), nil)
	post := &models.Post{ID: primitive.NewObjectID(), FacilityID: 1, ClientID: 4}

	_, err := svc.Upload(context.Background(), post, "a.pdf", "application/pdf", strings.NewReader("x"), 1)
	assert.Error(t, err)
}
