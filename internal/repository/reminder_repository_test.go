package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/mongodb"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/timezone"
)

// setupTestMongoDB connects to the instance named by MONGODB_TEST_URI and
// skips the test when it is unset.
func setupTestMongoDB(t *testing.T) *mongodb.MongoClient {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("Requires MongoDB - set MONGODB_TEST_URI to run with the integration test suite")
	}

	client, err := mongodb.NewMongoClient(uri, "reminder_bot_test")
	require.NoError(t, err)
	return client
}

func teardownTestMongoDB(t *testing.T, client *mongodb.MongoClient) {
	t.Helper()

	ctx := context.Background()
	_ = client.Database().Drop(ctx)
	_ = client.Disconnect(ctx)
}

func futureReminder(owner string, in time.Duration, label string) *domain.Reminder {
	fireAt := time.Now().Add(in).Truncate(time.Second).UTC()
	return &domain.Reminder{
		ID:              domain.ReminderID(owner, fireAt),
		OwnerID:         owner,
		DeliveryChannel: "42",
		FireAt:          fireAt,
		Label:           label,
		OriginTimezone:  "Europe/Moscow",
		CreatedAt:       time.Now().Truncate(time.Second).UTC(),
	}
}

// TestReminderRoundTrip verifies a stored reminder survives Put + LoadAll.
func TestReminderRoundTrip(t *testing.T) {
	client := setupTestMongoDB(t)
	defer teardownTestMongoDB(t, client)

	repo := NewReminderRepository(client)
	ctx := context.Background()

	rem := futureReminder("u1", 2*time.Hour, "Dentist")
	require.NoError(t, repo.Put(ctx, rem))

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got := all[0]
	assert.Equal(t, rem.ID, got.ID)
	assert.Equal(t, rem.OwnerID, got.OwnerID)
	assert.Equal(t, rem.DeliveryChannel, got.DeliveryChannel)
	assert.True(t, got.FireAt.Equal(rem.FireAt))
	assert.Equal(t, rem.Label, got.Label)
	assert.Equal(t, rem.OriginTimezone, got.OriginTimezone)
}

// TestRemoveIsIdempotent verifies remove reports true then false, never an
// error on the second call.
func TestRemoveIsIdempotent(t *testing.T) {
	client := setupTestMongoDB(t)
	defer teardownTestMongoDB(t, client)

	repo := NewReminderRepository(client)
	ctx := context.Background()

	rem := futureReminder("u1", time.Hour, "Dentist")
	require.NoError(t, repo.Put(ctx, rem))

	removed, err := repo.Remove(ctx, rem.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, rem.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

// TestPutOverwritesSameID documents the duplicate-id choice: resubmitting the
// same (owner, fire time) pair overwrites idempotently instead of failing.
func TestPutOverwritesSameID(t *testing.T) {
	client := setupTestMongoDB(t)
	defer teardownTestMongoDB(t, client)

	repo := NewReminderRepository(client)
	ctx := context.Background()

	rem := futureReminder("u1", time.Hour, "Dentist")
	require.NoError(t, repo.Put(ctx, rem))

	updated := *rem
	updated.Label = "Dentist (bring insurance card)"
	require.NoError(t, repo.Put(ctx, &updated))

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "overwrite must not create a second record")
	assert.Equal(t, updated.Label, all[0].Label)
}

func TestListByOwnerOrdersByFireAt(t *testing.T) {
	client := setupTestMongoDB(t)
	defer teardownTestMongoDB(t, client)

	repo := NewReminderRepository(client)
	ctx := context.Background()

	later := futureReminder("u1", 3*time.Hour, "later")
	sooner := futureReminder("u1", time.Hour, "sooner")
	other := futureReminder("u2", 2*time.Hour, "other owner")
	for _, r := range []*domain.Reminder{later, sooner, other} {
		require.NoError(t, repo.Put(ctx, r))
	}

	got, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "sooner", got[0].Label)
	assert.Equal(t, "later", got[1].Label)
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	client := setupTestMongoDB(t)
	defer teardownTestMongoDB(t, client)

	repo := NewReminderRepository(client)

	got, err := repo.FindByID(context.Background(), "u1-0")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPreferencesDefaultAndUpsert(t *testing.T) {
	client := setupTestMongoDB(t)
	defer teardownTestMongoDB(t, client)

	repo := NewPreferencesRepository(client)
	ctx := context.Background()

	tz, err := repo.GetTimezone(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, timezone.Default, tz)

	require.NoError(t, repo.SetTimezone(ctx, "u1", "Europe/Moscow"))
	require.NoError(t, repo.SetTimezone(ctx, "u1", "Asia/Tokyo"))

	tz, err = repo.GetTimezone(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", tz)
}
