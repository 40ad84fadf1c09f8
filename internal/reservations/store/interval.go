// Package store owns the authoritative set of confirmed reservation
// intervals and enforces the non-overlap invariant. Admission and removal
// are single critical sections under a per-resource mutex, so the
// check-then-insert gap that lets overlapping bookings race each other
// cannot exist here. Resources never share a lock; bookings on different
// resources proceed fully in parallel.
package store

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Interval is one confirmed half-open slot [Start, End) on a resource.
type Interval struct {
	ID         int64
	ResourceID int64
	Start      time.Time
	End        time.Time
}

// Overlaps reports whether two half-open intervals share any instant.
// Adjacent intervals (one ends exactly where the other starts) do not.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

type resourceIntervals struct {
	mu        sync.Mutex
	intervals []Interval // sorted by Start
}

// IntervalStore holds per-resource interval sets plus a process-wide id
// counter. Lock order is always store mutex before resource mutex; the id
// index may be touched while a resource mutex is held because nothing
// acquires a resource mutex under the index lock.
type IntervalStore struct {
	mu        sync.RWMutex
	resources map[int64]*resourceIntervals

	idxMu sync.RWMutex
	byID  map[int64]int64 // reservation id -> resource id

	nextID atomic.Int64
}

func NewIntervalStore() *IntervalStore {
	return &IntervalStore{
		resources: make(map[int64]*resourceIntervals),
		byID:      make(map[int64]int64),
	}
}

func (s *IntervalStore) resource(resourceID int64) *resourceIntervals {
	s.mu.RLock()
	ri, ok := s.resources[resourceID]
	s.mu.RUnlock()
	if ok {
		return ri
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ri, ok = s.resources[resourceID]; ok {
		return ri
	}
	ri = &resourceIntervals{}
	s.resources[resourceID] = ri
	return ri
}

// AdmitIfFree atomically checks [start, end) against every confirmed
// interval on the resource and inserts it only when no overlap exists. The
// returned id is unique process-wide. ok=false means an overlap blocked
// admission and nothing was mutated.
func (s *IntervalStore) AdmitIfFree(resourceID int64, start, end time.Time) (int64, bool) {
	if !end.After(start) {
		return 0, false
	}

	ri := s.resource(resourceID)

	ri.mu.Lock()
	defer ri.mu.Unlock()

	for _, iv := range ri.intervals {
		if Overlaps(start, end, iv.Start, iv.End) {
			return 0, false
		}
		if !iv.Start.Before(end) {
			break // sorted by start; nothing later can overlap
		}
	}

	id := s.nextID.Add(1)
	ri.insert(Interval{ID: id, ResourceID: resourceID, Start: start, End: end})

	s.idxMu.Lock()
	s.byID[id] = resourceID
	s.idxMu.Unlock()

	return id, true
}

// Remove deletes the interval with the given reservation id. A second call
// for the same id returns ok=false; removal is an expected absence, never
// an error. The removed interval is returned so callers can re-admit it if
// a later step of their transaction fails.
func (s *IntervalStore) Remove(reservationID int64) (Interval, bool) {
	s.idxMu.RLock()
	resourceID, ok := s.byID[reservationID]
	s.idxMu.RUnlock()
	if !ok {
		return Interval{}, false
	}

	ri := s.resource(resourceID)

	ri.mu.Lock()
	defer ri.mu.Unlock()

	for i, iv := range ri.intervals {
		if iv.ID == reservationID {
			ri.intervals = append(ri.intervals[:i], ri.intervals[i+1:]...)

			s.idxMu.Lock()
			delete(s.byID, reservationID)
			s.idxMu.Unlock()

			return iv, true
		}
	}

	return Interval{}, false
}

// ListByResource returns a copy of the resource's intervals ordered by
// start time. A fresh call always reflects current state.
func (s *IntervalStore) ListByResource(resourceID int64) []Interval {
	ri := s.resource(resourceID)

	ri.mu.Lock()
	defer ri.mu.Unlock()

	out := make([]Interval, len(ri.intervals))
	copy(out, ri.intervals)
	return out
}

// FindOverlapping returns the intervals on the resource that overlap
// [start, end). Diagnostic only: admission must go through AdmitIfFree.
func (s *IntervalStore) FindOverlapping(resourceID int64, start, end time.Time) []Interval {
	ri := s.resource(resourceID)

	ri.mu.Lock()
	defer ri.mu.Unlock()

	var out []Interval
	for _, iv := range ri.intervals {
		if Overlaps(start, end, iv.Start, iv.End) {
			out = append(out, iv)
		}
	}
	return out
}

// Restore seeds the store from durable state at startup. Existing ids are
// kept and the id counter advances past the largest restored id so new
// admissions never collide. Overlapping input means the durable state has
// already violated the invariant and is rejected.
func (s *IntervalStore) Restore(intervals []Interval) error {
	for _, iv := range intervals {
		if !iv.End.After(iv.Start) {
			return fmt.Errorf("restore reservation %d: end is not after start", iv.ID)
		}

		ri := s.resource(iv.ResourceID)

		ri.mu.Lock()
		for _, existing := range ri.intervals {
			if Overlaps(iv.Start, iv.End, existing.Start, existing.End) {
				ri.mu.Unlock()
				return fmt.Errorf("restore reservation %d: overlaps reservation %d on resource %d",
					iv.ID, existing.ID, iv.ResourceID)
			}
		}
		ri.insert(iv)
		ri.mu.Unlock()

		s.idxMu.Lock()
		s.byID[iv.ID] = iv.ResourceID
		s.idxMu.Unlock()

		for {
			current := s.nextID.Load()
			if iv.ID <= current || s.nextID.CompareAndSwap(current, iv.ID) {
				break
			}
		}
	}
	return nil
}

// insert keeps the slice sorted by start. Caller holds ri.mu.
func (ri *resourceIntervals) insert(iv Interval) {
	pos := sort.Search(len(ri.intervals), func(i int) bool {
		return ri.intervals[i].Start.After(iv.Start)
	})
	ri.intervals = append(ri.intervals, Interval{})
	copy(ri.intervals[pos+1:], ri.intervals[pos:])
	ri.intervals[pos] = iv
}
