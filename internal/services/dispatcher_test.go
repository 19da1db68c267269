package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
)

func newDispatcher(t *testing.T, sender PushSender) (*Dispatcher, repositories.PushSubscriptionRepository) {
	t.Helper()
	db, err := setupTestDB()
	require.NoError(t, err)
	subRepo := repositories.NewPostgresPushSubscriptionRepository(db)
	return NewDispatcher(subRepo, sender), subRepo
}

func subscribe(t *testing.T, repo repositories.PushSubscriptionRepository, userID, facilityID uint, endpoint string) {
	t.Helper()
	require.NoError(t, repo.UpsertSubscription(&models.PushSubscription{
		UserID:     userID,
		FacilityID: facilityID,
		Endpoint:   endpoint,
		P256dh:     "p256dh-key",
		Auth:       "auth-secret",
	}))
}

func TestNotifyFacilityExcludesAuthor(t *testing.T) {
	sender := newFakeSender()
	dispatcher, subRepo := newDispatcher(t, sender)

	subscribe(t, subRepo, 1, 10, "https://push.example/author")
	subscribe(t, subRepo, 2, 10, "https://push.example/b")
	subscribe(t, subRepo, 3, 10, "https://push.example/c")

	summary, err := dispatcher.NotifyFacility(context.Background(), 10, 1, models.PushPayload{Title: "t"})
	require.NoError(t, err)

	assert.Equal(t, Summary{Success: 2}, summary)
	assert.NotContains(t, sender.sentTo, "https://push.example/author")
	assert.Len(t, sender.sentTo, 2)
}

func TestNotifyFacilityIgnoresOtherFacilities(t *testing.T) {
	sender := newFakeSender()
	dispatcher, subRepo := newDispatcher(t, sender)

	subscribe(t, subRepo, 2, 10, "https://push.example/member")
	subscribe(t, subRepo, 5, 11, "https://push.example/neighbor")

	summary, err := dispatcher.NotifyFacility(context.Background(), 10, 1, models.PushPayload{Title: "t"})
	require.NoError(t, err)

	assert.Equal(t, Summary{Success: 1}, summary)
	assert.Equal(t, []string{"https://push.example/member"}, sender.sentTo)
}

func TestNotifyFacilityPrunesGoneEndpointsPrecisely(t *testing.T) {
	sender := newFakeSender()
	dispatcher, subRepo := newDispatcher(t, sender)

	// N = 5 subscriptions, K = 2 confirmed gone
	for i := uint(2); i <= 6; i++ {
		subscribe(t, subRepo, i, 10, fmt.Sprintf("https://push.example/%d", i))
	}
	sender.statuses["https://push.example/3"] = http.StatusGone
	sender.statuses["https://push.example/5"] = http.StatusNotFound

	summary, err := dispatcher.NotifyFacility(context.Background(), 10, 1, models.PushPayload{Title: "t"})
	require.NoError(t, err)

	assert.Equal(t, Summary{Success: 3, Failed: 0, Deleted: 2}, summary)

	// Exactly the pruned rows are gone from the store
	remaining, err := subRepo.GetByFacilityExcluding(10, 0)
	require.NoError(t, err)
	endpoints := make([]string, len(remaining))
	for i, sub := range remaining {
		endpoints[i] = sub.Endpoint
	}
	assert.ElementsMatch(t, []string{
		"https://push.example/2",
		"https://push.example/4",
		"https://push.example/6",
	}, endpoints)
}

func TestNotifyFacilityKeepsRowsOnTransientFailure(t *testing.T) {
	sender := newFakeSender()
	dispatcher, subRepo := newDispatcher(t, sender)

	subscribe(t, subRepo, 2, 10, "https://push.example/flaky")
	subscribe(t, subRepo, 3, 10, "https://push.example/ok")
	sender.statuses["https://push.example/flaky"] = http.StatusInternalServerError

	summary, err := dispatcher.NotifyFacility(context.Background(), 10, 1, models.PushPayload{Title: "t"})
	require.NoError(t, err)

	assert.Equal(t, Summary{Success: 1, Failed: 1}, summary)

	remaining, err := subRepo.GetByFacilityExcluding(10, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 2, "transient failures must not prune subscriptions")
}

func TestNotifyFacilityWithoutCredentialsIsSoftDisabled(t *testing.T) {
	dispatcher, subRepo := newDispatcher(t, nil)
	subscribe(t, subRepo, 2, 10, "https://push.example/b")

	summary, err := dispatcher.NotifyFacility(context.Background(), 10, 1, models.PushPayload{Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

func TestNotifyFacilityEmptyMembership(t *testing.T) {
	sender := newFakeSender()
	dispatcher, _ := newDispatcher(t, sender)

	summary, err := dispatcher.NotifyFacility(context.Background(), 10, 1, models.PushPayload{Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
	assert.Empty(t, sender.sentTo)
}
