package catalog

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisislens/gdacs-viewer/internal/models"
)

func frozenClock(t *testing.T, at time.Time) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })
}

func TestRecencyFilter(t *testing.T) {
	frozenClock(t, time.Date(2024, time.January, 10, 18, 30, 0, 0, time.UTC))

	eventOn := func(day int) models.Event {
		return models.Event{Date: dateUTC(2024, time.January, day)}
	}

	t.Run("zero window matches today only", func(t *testing.T) {
		pred, err := RecencyFilter(0)
		require.NoError(t, err)
		assert.True(t, pred(eventOn(10)))
		assert.False(t, pred(eventOn(9)))
	})

	t.Run("window boundary is inclusive", func(t *testing.T) {
		pred, err := RecencyFilter(3)
		require.NoError(t, err)
		assert.True(t, pred(eventOn(7)))
		assert.False(t, pred(eventOn(6)))
	})

	t.Run("future dates pass", func(t *testing.T) {
		pred, err := RecencyFilter(0)
		require.NoError(t, err)
		assert.True(t, pred(eventOn(11)))
	})

	t.Run("negative window is rejected", func(t *testing.T) {
		_, err := RecencyFilter(-1)
		assert.Error(t, err)
	})
}

func TestRecencyFilter_TodayCapturedOnce(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2024, time.January, 10, 23, 59, 0, 0, time.UTC))
	SetClock(fake)
	defer SetClock(nil)

	pred, err := RecencyFilter(0)
	require.NoError(t, err)

	// The clock crossing midnight mid-pass must not change the outcome.
	fake.Advance(2 * time.Hour)
	assert.True(t, pred(models.Event{Date: dateUTC(2024, time.January, 10)}))
}

func TestCategoryFilter(t *testing.T) {
	pred, err := CategoryFilter(models.CategoryFlood)
	require.NoError(t, err)

	assert.True(t, pred(models.Event{Category: models.CategoryFlood}))
	assert.False(t, pred(models.Event{Category: models.CategoryEarthquake}))

	_, err = CategoryFilter("TS")
	assert.Error(t, err, "category outside the closed set is a contract violation")
	_, err = CategoryFilter("")
	assert.Error(t, err)
}

func TestCategoryFilter_RoundTrip(t *testing.T) {
	events := []models.Event{
		{ID: 1, Category: models.CategoryEarthquake},
		{ID: 2, Category: models.CategoryFlood},
		{ID: 3, Category: models.CategoryEarthquake},
		{ID: 4, Category: models.CategoryVolcano},
	}
	c := FromEvents(events)

	pred, err := CategoryFilter(models.CategoryEarthquake)
	require.NoError(t, err)
	filtered := c.Filter(pred)

	var wantIDs []int64
	for _, e := range events {
		if e.Category == models.CategoryEarthquake {
			wantIDs = append(wantIDs, e.ID)
		}
	}
	var gotIDs []int64
	for _, e := range filtered.All() {
		assert.Equal(t, models.CategoryEarthquake, e.Category)
		gotIDs = append(gotIDs, e.ID)
	}
	assert.Equal(t, wantIDs, gotIDs, "no matching record may be excluded")
}

func TestAlertFilter(t *testing.T) {
	pred, err := AlertFilter("GREEN")
	require.NoError(t, err)

	assert.True(t, pred(models.Event{AlertLevel: "Green"}))
	assert.True(t, pred(models.Event{AlertLevel: "green"}))
	assert.False(t, pred(models.Event{AlertLevel: "Orange"}))
	assert.False(t, pred(models.Event{AlertLevel: ""}))

	for _, bad := range []string{"", "violet", "Greenish"} {
		if _, err := AlertFilter(bad); err == nil {
			t.Errorf("AlertFilter(%q): expected contract violation", bad)
		}
	}
}
