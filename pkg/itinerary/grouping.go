package itinerary

import "sort"

// Day is one calendar day of the derived schedule view.
type Day struct {
	Date   string
	Events []Event
}

// Schedule is the day-grouped, time-ordered view of an event collection.
type Schedule struct {
	Days      []Day
	TotalCost float64
}

// Group derives the schedule view from a flat event collection.
//
// Events are ordered by date, then time; events sharing the same date and
// time keep their relative input order. Grouping is by exact date string, no
// timezone normalization. The total is the sum of every event's cost,
// zero-cost flight legs included. The input slice is not modified and the
// result depends only on the multiset of events, not their order.
func Group(events []Event) Schedule {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].sortKey() < sorted[j].sortKey()
	})

	var schedule Schedule
	for _, event := range sorted {
		schedule.TotalCost += event.Cost
		if n := len(schedule.Days); n > 0 && schedule.Days[n-1].Date == event.Date {
			schedule.Days[n-1].Events = append(schedule.Days[n-1].Events, event)
			continue
		}
		schedule.Days = append(schedule.Days, Day{Date: event.Date, Events: []Event{event}})
	}
	return schedule
}
