package libfi

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// An ItemSource provides the items of a feed lane.
// *ItemRepository is an ItemSource.
type ItemSource interface {
	GetItemsByStatus(ctx context.Context, status Status) <-chan Resource[[]Item]
}

// A Lane is the observable state of the items of one status.
// Its value is replaced atomically and subscribers are notified of every change.
type Lane struct {
	status     Status
	value      atomic.Pointer[Resource[[]Item]]
	generation atomic.Uint64

	mu          sync.Mutex
	subscribers map[uint64]chan Resource[[]Item]
	next        uint64
}

func newLane(status Status) *Lane {
	l := &Lane{
		status:      status,
		subscribers: map[uint64]chan Resource[[]Item]{},
	}
	idle := Idle[[]Item]()
	l.value.Store(&idle)
	return l
}

// Status returns the status of the items of the lane.
func (l *Lane) Status() Status {
	return l.status
}

// Value returns the current state of the lane.
func (l *Lane) Value() Resource[[]Item] {
	return *l.value.Load()
}

// Subscribe returns a stream of the lane changes and a function to stop listening.
// A slow subscriber only misses intermediate states, it always gets the latest one.
func (l *Lane) Subscribe() (<-chan Resource[[]Item], func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.next
	l.next++
	ch := make(chan Resource[[]Item], 1)
	l.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.subscribers, id)
			close(ch)
		})
	}
}

// publish stores r if generation is still the current one.
func (l *Lane) publish(generation uint64, r Resource[[]Item]) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.generation.Load() != generation {
		return false
	}

	l.value.Store(&r)
	for _, ch := range l.subscribers {
		select {
		case ch <- r:
		default:
			// Replace the pending state by the latest one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- r:
			default:
			}
		}
	}
	return true
}

// A Feed holds the LOST and FOUND lanes and the filters applied on them.
type Feed struct {
	source  ItemSource
	lanes   map[Status]*Lane
	filters atomic.Pointer[FilterState]
}

// NewFeed returns a Feed with idle lanes and no filters.
func NewFeed(source ItemSource) *Feed {
	f := &Feed{
		source: source,
		lanes: map[Status]*Lane{
			StatusLost:  newLane(StatusLost),
			StatusFound: newLane(StatusFound),
		},
	}
	f.filters.Store(&FilterState{})
	return f
}

// Lane returns the lane of the given status.
// It returns nil for an unknown status.
func (f *Feed) Lane(status Status) *Lane {
	return f.lanes[status]
}

// FetchItems fetches both lanes concurrently.
// A new call supersedes the previous one and nothing is written once ctx is canceled.
// A deadline is not a teardown: the failure it causes is published.
// The returned channel is closed when both lanes settled.
func (f *Feed) FetchItems(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	var wg sync.WaitGroup
	for _, status := range Statuses {
		lane := f.lanes[status]
		generation := lane.generation.Add(1)

		wg.Add(1)
		go func() {
			defer wg.Done()

			for r := range f.source.GetItemsByStatus(ctx, lane.status) {
				if errors.Is(ctx.Err(), context.Canceled) {
					return
				}
				lane.publish(generation, r)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	return done
}

// ApplyFilters replaces the filters. Items are not fetched again.
func (f *Feed) ApplyFilters(category, location *string, daysAgo *int) {
	f.filters.Store(&FilterState{
		Category: category,
		Location: location,
		DaysAgo:  daysAgo,
	})
}

// Filters returns the current filters.
func (f *Feed) Filters() FilterState {
	return *f.filters.Load()
}

// View returns the state of the lane with the search query and the filters applied on its items.
func (f *Feed) View(status Status, query string, now time.Time) Resource[[]Item] {
	lane := f.Lane(status)
	if lane == nil {
		return Error[[]Item]("unknown status: " + string(status))
	}

	filters := f.Filters()
	return Map(lane.Value(), func(items []Item) []Item {
		return Filter(items, query, filters, now)
	})
}
