package libfi

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// A FilterState holds the optional filters of the feed.
// A nil field does not filter. It is always replaced as a whole.
type FilterState struct {
	Category *string
	Location *string
	DaysAgo  *int
}

// NewFilterState builds a FilterState from raw text inputs.
// Empty texts, non integer days and negative days are ignored.
func NewFilterState(category, location, daysAgo string) FilterState {
	var f FilterState
	if category = strings.TrimSpace(category); category != "" {
		f.Category = &category
	}
	if location = strings.TrimSpace(location); location != "" {
		f.Location = &location
	}
	if days, err := strconv.Atoi(strings.TrimSpace(daysAgo)); err == nil && days >= 0 {
		f.DaysAgo = &days
	}
	return f
}

// Active returns true if at least one filter is set.
func (f FilterState) Active() bool {
	return f.Category != nil || f.Location != nil || f.DaysAgo != nil
}

// Filter returns the items matching the search query and the filters, in input order.
//
// An item matches when:
//   - query is empty or is contained in its title, description or address;
//   - Category is unset or is contained in its category;
//   - Location is unset or is contained in its address;
//   - DaysAgo is unset or it was created less than DaysAgo days before now.
//
// Text comparisons ignore case.
func Filter(items []Item, query string, filters FilterState, now time.Time) []Item {
	query = strings.ToLower(query)

	var category, location string
	if filters.Category != nil {
		category = strings.ToLower(*filters.Category)
	}
	if filters.Location != nil {
		location = strings.ToLower(*filters.Location)
	}

	var threshold int64
	if filters.DaysAgo != nil {
		threshold = recency(now, *filters.DaysAgo)
	}

	matches := make([]Item, 0, len(items))
	for _, item := range items {
		address := strings.ToLower(item.LastSeenLocation.Address)

		if query != "" &&
			!strings.Contains(strings.ToLower(item.Title), query) &&
			!strings.Contains(strings.ToLower(item.Description), query) &&
			!strings.Contains(address, query) {
			continue
		}

		if filters.Category != nil && !strings.Contains(strings.ToLower(item.Category), category) {
			continue
		}

		if filters.Location != nil && !strings.Contains(address, location) {
			continue
		}

		if filters.DaysAgo != nil && item.CreatedAt < threshold {
			continue
		}

		matches = append(matches, item)
	}

	return matches
}

// recency returns the oldest creation date kept by a DaysAgo filter.
// It saturates instead of overflowing on huge values.
func recency(now time.Time, days int) int64 {
	if int64(days) > math.MaxInt64/DayMillisecond {
		return math.MinInt64
	}

	ms := UnixMillisecond(now)
	span := int64(days) * DayMillisecond
	if ms < 0 && span > ms-math.MinInt64 {
		return math.MinInt64
	}
	return ms - span
}
