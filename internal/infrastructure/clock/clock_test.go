package clock

import (
	"testing"
	"time"
)

func TestManualAdvanceFiresInDeadlineOrder(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManual(start)

	var order []string
	c.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	c.AfterFunc(time.Second, func() { order = append(order, "a") })
	c.AfterFunc(time.Second, func() { order = append(order, "b") })

	c.Advance(2 * time.Second)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("expected [a b], got %v", order)
	}
	if !c.Now().Equal(start.Add(2 * time.Second)) {
		t.Fatalf("unexpected now %v", c.Now())
	}

	c.Advance(time.Second)
	if len(order) != 3 || order[2] != "c" {
		t.Fatalf("expected c to fire at 3s, got %v", order)
	}
}

func TestManualCallbackSeesDeadlineAndChains(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManual(start)

	var seen []time.Time
	c.AfterFunc(time.Second, func() {
		seen = append(seen, c.Now())
		c.AfterFunc(3*time.Second, func() { seen = append(seen, c.Now()) })
	})

	c.Advance(10 * time.Second)

	if len(seen) != 2 {
		t.Fatalf("expected chained timer to fire, got %d calls", len(seen))
	}
	if !seen[0].Equal(start.Add(time.Second)) || !seen[1].Equal(start.Add(4*time.Second)) {
		t.Fatalf("unexpected callback times %v", seen)
	}
}

func TestManualStop(t *testing.T) {
	c := NewManual(time.Now())
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("expected first Stop to report true")
	}
	if timer.Stop() {
		t.Fatal("expected second Stop to report false")
	}
	c.Advance(time.Minute)
	if fired {
		t.Fatal("stopped timer must not fire")
	}
	if c.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", c.Pending())
	}
}
