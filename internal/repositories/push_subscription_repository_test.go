package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
)

func TestUpsertSubscriptionRefreshesExistingEndpoint(t *testing.T) {
	repo := NewPostgresPushSubscriptionRepository(setupTestDB(t))

	require.NoError(t, repo.UpsertSubscription(&models.PushSubscription{
		UserID: 1, FacilityID: 1, Endpoint: "https://push.example/ep", P256dh: "old-key", Auth: "old-auth",
	}))

	// Same endpoint registered again, now by another user with fresh keys
	require.NoError(t, repo.UpsertSubscription(&models.PushSubscription{
		UserID: 2, FacilityID: 1, Endpoint: "https://push.example/ep", P256dh: "new-key", Auth: "new-auth",
	}))

	subs, err := repo.GetByFacilityExcluding(1, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1, "an endpoint maps to exactly one row")
	assert.EqualValues(t, 2, subs[0].UserID)
	assert.Equal(t, "new-key", subs[0].P256dh)
	assert.Equal(t, "new-auth", subs[0].Auth)
}

func TestGetByFacilityExcludingFiltersAuthorAndForeignFacilities(t *testing.T) {
	repo := NewPostgresPushSubscriptionRepository(setupTestDB(t))

	require.NoError(t, repo.UpsertSubscription(&models.PushSubscription{
		UserID: 1, FacilityID: 1, Endpoint: "https://push.example/a", P256dh: "k", Auth: "a",
	}))
	require.NoError(t, repo.UpsertSubscription(&models.PushSubscription{
		UserID: 2, FacilityID: 1, Endpoint: "https://push.example/b", P256dh: "k", Auth: "a",
	}))
	require.NoError(t, repo.UpsertSubscription(&models.PushSubscription{
		UserID: 3, FacilityID: 2, Endpoint: "https://push.example/c", P256dh: "k", Auth: "a",
	}))

	subs, err := repo.GetByFacilityExcluding(1, 1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://push.example/b", subs[0].Endpoint)
}

func TestDeleteByEndpointForUserIsOwnerOnly(t *testing.T) {
	repo := NewPostgresPushSubscriptionRepository(setupTestDB(t))

	require.NoError(t, repo.UpsertSubscription(&models.PushSubscription{
		UserID: 1, FacilityID: 1, Endpoint: "https://push.example/ep", P256dh: "k", Auth: "a",
	}))

	err := repo.DeleteByEndpointForUser("https://push.example/ep", 2)
	require.Error(t, err, "another user's endpoint must not be deletable")

	require.NoError(t, repo.DeleteByEndpointForUser("https://push.example/ep", 1))

	subs, err := repo.GetByFacilityExcluding(1, 0)
	require.NoError(t, err)
	assert.Empty(t, subs)
}
