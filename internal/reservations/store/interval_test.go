package store

import (
	"sync"
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 6, 1, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"contained", at(10, 0), at(11, 0), at(10, 15), at(10, 45), true},
		{"partial front", at(10, 0), at(11, 0), at(9, 30), at(10, 30), true},
		{"partial back", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"adjacent before", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"adjacent after", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"disjoint", at(10, 0), at(11, 0), at(12, 0), at(13, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdmitIfFreeRejectsOverlap(t *testing.T) {
	s := NewIntervalStore()

	id, ok := s.AdmitIfFree(1, at(10, 0), at(11, 0))
	if !ok {
		t.Fatal("first admission should succeed")
	}
	if id == 0 {
		t.Fatal("expected a nonzero reservation id")
	}

	if _, ok := s.AdmitIfFree(1, at(10, 30), at(11, 30)); ok {
		t.Error("overlapping admission should be rejected")
	}
	if got := s.ListByResource(1); len(got) != 1 {
		t.Errorf("rejected admission must not mutate: have %d intervals", len(got))
	}
}

func TestAdmitIfFreeAllowsAdjacent(t *testing.T) {
	s := NewIntervalStore()

	if _, ok := s.AdmitIfFree(1, at(10, 0), at(11, 0)); !ok {
		t.Fatal("first admission should succeed")
	}
	if _, ok := s.AdmitIfFree(1, at(11, 0), at(12, 0)); !ok {
		t.Error("slot starting exactly at the previous end must be admissible")
	}
	if _, ok := s.AdmitIfFree(1, at(9, 0), at(10, 0)); !ok {
		t.Error("slot ending exactly at the next start must be admissible")
	}
}

func TestAdmitIfFreeRejectsEmptyInterval(t *testing.T) {
	s := NewIntervalStore()

	if _, ok := s.AdmitIfFree(1, at(10, 0), at(10, 0)); ok {
		t.Error("zero-length interval should be rejected")
	}
	if _, ok := s.AdmitIfFree(1, at(11, 0), at(10, 0)); ok {
		t.Error("inverted interval should be rejected")
	}
}

func TestResourcesAreIndependent(t *testing.T) {
	s := NewIntervalStore()

	if _, ok := s.AdmitIfFree(1, at(10, 0), at(11, 0)); !ok {
		t.Fatal("admission on resource 1 should succeed")
	}
	if _, ok := s.AdmitIfFree(2, at(10, 0), at(11, 0)); !ok {
		t.Error("identical slot on another resource must be admissible")
	}
}

func TestReservationIDsAreUnique(t *testing.T) {
	s := NewIntervalStore()

	seen := make(map[int64]bool)
	for i := 0; i < 50; i++ {
		id, ok := s.AdmitIfFree(int64(i%5)+1, at(10, 0).Add(time.Duration(i)*2*time.Hour), at(11, 0).Add(time.Duration(i)*2*time.Hour))
		if !ok {
			t.Fatalf("admission %d should succeed", i)
		}
		if seen[id] {
			t.Fatalf("duplicate reservation id %d", id)
		}
		seen[id] = true
	}
}

func TestRemoveIsIdempotentInEffect(t *testing.T) {
	s := NewIntervalStore()

	id, _ := s.AdmitIfFree(1, at(10, 0), at(11, 0))

	iv, ok := s.Remove(id)
	if !ok {
		t.Fatal("first removal should succeed")
	}
	if iv.ID != id || !iv.Start.Equal(at(10, 0)) {
		t.Errorf("unexpected removed interval: %+v", iv)
	}

	if _, ok := s.Remove(id); ok {
		t.Error("second removal of the same id should report ok=false")
	}

	// The slot is free again.
	if _, ok := s.AdmitIfFree(1, at(10, 0), at(11, 0)); !ok {
		t.Error("slot should be admissible after removal")
	}
}

func TestRemoveUnknownID(t *testing.T) {
	s := NewIntervalStore()
	if _, ok := s.Remove(12345); ok {
		t.Error("removing an unknown id should report ok=false")
	}
}

func TestListByResourceOrdering(t *testing.T) {
	s := NewIntervalStore()

	// Insert out of order.
	s.AdmitIfFree(1, at(14, 0), at(15, 0))
	s.AdmitIfFree(1, at(10, 0), at(11, 0))
	s.AdmitIfFree(1, at(12, 0), at(13, 0))

	got := s.ListByResource(1)
	if len(got) != 3 {
		t.Fatalf("expected 3 intervals, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Start.Before(got[i-1].Start) {
			t.Errorf("intervals out of order at %d: %v before %v", i, got[i].Start, got[i-1].Start)
		}
	}
}

func TestFindOverlapping(t *testing.T) {
	s := NewIntervalStore()

	s.AdmitIfFree(1, at(10, 0), at(11, 0))
	s.AdmitIfFree(1, at(12, 0), at(13, 0))

	hits := s.FindOverlapping(1, at(10, 30), at(12, 30))
	if len(hits) != 2 {
		t.Errorf("expected 2 overlapping intervals, got %d", len(hits))
	}

	if hits := s.FindOverlapping(1, at(11, 0), at(12, 0)); len(hits) != 0 {
		t.Errorf("gap between reservations should have no overlaps, got %d", len(hits))
	}
}

func TestRestoreSeedsCounterAndState(t *testing.T) {
	s := NewIntervalStore()

	err := s.Restore([]Interval{
		{ID: 7, ResourceID: 1, Start: at(10, 0), End: at(11, 0)},
		{ID: 3, ResourceID: 2, Start: at(10, 0), End: at(11, 0)},
	})
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if _, ok := s.AdmitIfFree(1, at(10, 30), at(11, 30)); ok {
		t.Error("restored interval should block overlapping admission")
	}

	id, ok := s.AdmitIfFree(1, at(11, 0), at(12, 0))
	if !ok {
		t.Fatal("free slot should be admissible after restore")
	}
	if id <= 7 {
		t.Errorf("new id %d must exceed the largest restored id", id)
	}

	if _, ok := s.Remove(3); !ok {
		t.Error("restored reservation should be removable")
	}
}

func TestRestoreRejectsOverlappingInput(t *testing.T) {
	s := NewIntervalStore()

	err := s.Restore([]Interval{
		{ID: 1, ResourceID: 1, Start: at(10, 0), End: at(11, 0)},
		{ID: 2, ResourceID: 1, Start: at(10, 30), End: at(11, 30)},
	})
	if err == nil {
		t.Fatal("expected restore to reject overlapping durable state")
	}
}

func TestConcurrentOverlappingAdmissionsExactlyOneWins(t *testing.T) {
	const attempts = 64
	s := NewIntervalStore()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var admitted int

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := s.AdmitIfFree(1, at(10, 0), at(11, 0)); ok {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	if admitted != 1 {
		t.Errorf("expected exactly one admission, got %d", admitted)
	}
	if got := s.ListByResource(1); len(got) != 1 {
		t.Errorf("expected exactly one stored interval, got %d", len(got))
	}
}

func TestConcurrentDisjointAdmissionsAllSucceed(t *testing.T) {
	const attempts = 64
	s := NewIntervalStore()

	var wg sync.WaitGroup
	errCh := make(chan int, attempts)

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			slotStart := at(0, 0).Add(time.Duration(i) * time.Hour)
			if _, ok := s.AdmitIfFree(1, slotStart, slotStart.Add(time.Hour)); !ok {
				errCh <- i
			}
		}()
	}
	close(start)
	wg.Wait()
	close(errCh)

	for i := range errCh {
		t.Errorf("disjoint admission %d was rejected", i)
	}
	if got := s.ListByResource(1); len(got) != attempts {
		t.Errorf("expected %d intervals, got %d", attempts, len(got))
	}
}

func TestConcurrentAdmitAndRemoveHoldInvariant(t *testing.T) {
	const workers = 32
	s := NewIntervalStore()

	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			slotStart := at(10, 0)
			for j := 0; j < 20; j++ {
				if id, ok := s.AdmitIfFree(int64(i%4), slotStart, slotStart.Add(time.Hour)); ok {
					s.Remove(id)
				}
			}
		}()
	}
	close(start)
	wg.Wait()

	// Whatever survived, no resource may hold overlapping intervals.
	for res := int64(0); res < 4; res++ {
		intervals := s.ListByResource(res)
		for i := 0; i < len(intervals); i++ {
			for j := i + 1; j < len(intervals); j++ {
				if Overlaps(intervals[i].Start, intervals[i].End, intervals[j].Start, intervals[j].End) {
					t.Fatalf("resource %d holds overlapping intervals %+v and %+v", res, intervals[i], intervals[j])
				}
			}
		}
	}
}
