package itinerary

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleEvents() []Event {
	return []Event{
		{ID: "a", Name: "Museum", Cost: 20, Date: "2024-05-01", Time: "10:00", Type: EventTypeManual},
		{ID: "b", Name: "Flight LHR - JFK", Cost: 300, Date: "2024-05-03", Time: "08:30", Type: EventTypeFlight},
		{ID: "c", Name: "Flight JFK - SFO", Cost: 0, Date: "2024-05-03", Time: "14:45", Type: EventTypeFlight},
		{ID: "d", Name: "Check-in: Hotel Mira", Cost: 540, Date: "2024-05-03", Time: "15:00", Type: EventTypeHotel},
		{ID: "e", Name: "Dinner", Cost: 45.5, Date: "2024-05-01", Time: "19:30", Type: EventTypeManual},
	}
}

func TestGroup_OrdersByDateThenTime(t *testing.T) {
	schedule := Group(sampleEvents())

	assert.Len(t, schedule.Days, 2)
	assert.Equal(t, "2024-05-01", schedule.Days[0].Date)
	assert.Equal(t, "2024-05-03", schedule.Days[1].Date)

	assert.Equal(t, []string{"a", "e"}, eventIds(schedule.Days[0].Events))
	assert.Equal(t, []string{"b", "c", "d"}, eventIds(schedule.Days[1].Events))
}

func TestGroup_TotalIncludesZeroCostLegs(t *testing.T) {
	schedule := Group(sampleEvents())

	assert.InDelta(t, 905.5, schedule.TotalCost, 0.001)
}

func TestGroup_IsPermutationInvariant(t *testing.T) {
	expected := Group(sampleEvents())

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := sampleEvents()
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		schedule := Group(shuffled)

		assert.Equal(t, expected, schedule)
	}
}

func TestGroup_StableOnEqualDateAndTime(t *testing.T) {
	events := []Event{
		{ID: "first", Date: "2024-05-01", Time: "10:00"},
		{ID: "second", Date: "2024-05-01", Time: "10:00"},
	}

	schedule := Group(events)

	assert.Equal(t, []string{"first", "second"}, eventIds(schedule.Days[0].Events))
}

func TestGroup_DoesNotModifyInput(t *testing.T) {
	events := []Event{
		{ID: "later", Date: "2024-05-02", Time: "10:00"},
		{ID: "earlier", Date: "2024-05-01", Time: "10:00"},
	}

	Group(events)

	assert.Equal(t, "later", events[0].ID)
}

func TestGroup_EmptyInput(t *testing.T) {
	schedule := Group(nil)

	assert.Empty(t, schedule.Days)
	assert.Zero(t, schedule.TotalCost)
}

func eventIds(events []Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}
