package event

import (
	"container/heap"
	"maps"
	"math"
)

// EntryID is the enqueue sequence number of a scheduled event.
type EntryID uint64

// Entry is an event scheduled on the queue.
type Entry struct {
	ID    EntryID
	Due   uint64
	Event Event
}

// Queue releases events ordered by due tick, then by enqueue order.
// It is not safe for concurrent use.
type Queue struct {
	entries entryHeap
	nextID  EntryID
}

func NewQueue() *Queue {
	return &Queue{}
}

// Add schedules ev to become due Delay ticks after now. Delays past the
// end of the clock saturate at math.MaxUint64. The queue keeps its own
// copy of the event's messages.
func (q *Queue) Add(ev Event, now uint64) EntryID {
	id := q.nextID
	q.nextID++

	due := now + ev.Delay
	if ev.Delay > math.MaxUint64-now {
		due = math.MaxUint64
	}
	ev.messages = maps.Clone(ev.messages)

	heap.Push(&q.entries, Entry{
		ID:    id,
		Due:   due,
		Event: ev,
	})

	return id
}

// NextEligible removes and returns the earliest event due at or before now.
func (q *Queue) NextEligible(now uint64) (Event, bool) {
	e, ok := q.PopEligible(now)
	return e.Event, ok
}

// PopEligible is NextEligible returning the whole scheduled entry.
func (q *Queue) PopEligible(now uint64) (Entry, bool) {
	head, ok := q.Peek()
	if !ok || head.Due > now {
		return Entry{}, false
	}

	return heap.Pop(&q.entries).(Entry), true
}

// Peek returns the next entry to be released without removing it.
func (q *Queue) Peek() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return q.entries[0], true
}

func (q *Queue) Len() int {
	return len(q.entries)
}

type entryHeap []Entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].Due != h[j].Due {
		return h[i].Due < h[j].Due
	}
	return h[i].ID < h[j].ID
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(Entry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = Entry{}
	*h = old[:n-1]
	return e
}
