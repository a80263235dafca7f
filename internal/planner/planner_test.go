package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
)

func testReminder(fireAt time.Time) *domain.Reminder {
	return &domain.Reminder{
		ID:              domain.ReminderID("u1", fireAt),
		OwnerID:         "u1",
		DeliveryChannel: "100200300",
		FireAt:          fireAt,
		Label:           "Dentist",
	}
}

func TestPlanBothOffsetsAhead(t *testing.T) {
	fireAt := time.Date(2025, 8, 29, 11, 30, 0, 0, time.UTC)
	now := fireAt.Add(-90 * time.Minute)

	plan := Plan(testReminder(fireAt), now)

	require.Len(t, plan, 2)
	assert.Equal(t, domain.OffsetOneHour, plan[0].Offset)
	assert.True(t, plan[0].FireAt.Equal(fireAt.Add(-time.Hour)))
	assert.Equal(t, domain.OffsetThirtyMin, plan[1].Offset)
	assert.True(t, plan[1].FireAt.Equal(fireAt.Add(-30*time.Minute)))
}

func TestPlanOneHourAlreadyPassed(t *testing.T) {
	fireAt := time.Date(2025, 8, 29, 11, 30, 0, 0, time.UTC)
	now := fireAt.Add(-45 * time.Minute)

	plan := Plan(testReminder(fireAt), now)

	require.Len(t, plan, 1)
	assert.Equal(t, domain.OffsetThirtyMin, plan[0].Offset)
	assert.True(t, plan[0].FireAt.Equal(fireAt.Add(-30*time.Minute)))
}

func TestPlanBothOffsetsPassed(t *testing.T) {
	fireAt := time.Date(2025, 8, 29, 11, 30, 0, 0, time.UTC)
	now := fireAt.Add(-10 * time.Minute)

	plan := Plan(testReminder(fireAt), now)

	assert.Empty(t, plan)
}

func TestPlanBoundaryIsExclusive(t *testing.T) {
	fireAt := time.Date(2025, 8, 29, 11, 30, 0, 0, time.UTC)

	// now exactly at the one-hour instant: that offset is no longer pending.
	plan := Plan(testReminder(fireAt), fireAt.Add(-time.Hour))

	require.Len(t, plan, 1)
	assert.Equal(t, domain.OffsetThirtyMin, plan[0].Offset)
}

func TestPlanIsDeterministic(t *testing.T) {
	fireAt := time.Date(2025, 8, 29, 11, 30, 0, 0, time.UTC)
	now := fireAt.Add(-2 * time.Hour)
	rem := testReminder(fireAt)

	first := Plan(rem, now)
	second := Plan(rem, now)

	assert.Equal(t, first, second)
}

func TestPlanCarriesReminderID(t *testing.T) {
	fireAt := time.Date(2025, 8, 29, 11, 30, 0, 0, time.UTC)
	rem := testReminder(fireAt)

	for _, n := range Plan(rem, fireAt.Add(-2*time.Hour)) {
		assert.Equal(t, rem.ID, n.ReminderID)
	}
}
