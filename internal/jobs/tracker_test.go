package jobs

import (
	"sync"
	"testing"
)

func TestMarkCheckingRejectsDuplicate(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()

	if !tracker.MarkChecking("p1") {
		t.Fatalf("first mark should succeed")
	}
	if tracker.MarkChecking("p1") {
		t.Fatalf("second mark for the same plan should be rejected")
	}
	if !tracker.IsChecking("p1") {
		t.Fatalf("p1 should still be tracked")
	}

	if !tracker.MarkChecking("p2") {
		t.Fatalf("independent plan should be trackable")
	}
}

func TestClearAllowsRemark(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()

	tracker.MarkChecking("p1")
	tracker.Clear("p1")

	if tracker.IsChecking("p1") {
		t.Fatalf("p1 should not be tracked after clear")
	}
	if !tracker.MarkChecking("p1") {
		t.Fatalf("mark after clear should succeed")
	}
}

func TestMarkCheckingIsAtomic(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()

	const attempts = 64
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tracker.MarkChecking("p1") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	var count int
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one successful mark, got %d", count)
	}
}

func TestTrackedReturnsSortedIDs(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	tracker.MarkChecking("b")
	tracker.MarkChecking("a")
	tracker.MarkChecking("c")

	ids := tracker.Tracked()
	if len(ids) != 3 {
		t.Fatalf("expected 3 tracked ids, got %d", len(ids))
	}
	if ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Fatalf("unexpected order: %v", ids)
	}
}
