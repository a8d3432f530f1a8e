package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() returned time outside expected range: got %v, expected between %v and %v", actual, before, after)
	}
}

func TestFakeClock(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("fixed clock does not move", func(t *testing.T) {
		clock := NewFakeClock(base)
		if first, second := clock.Now(), clock.Now(); !first.Equal(second) {
			t.Errorf("FakeClock.Now() should be stable: first=%v, second=%v", first, second)
		}
	})

	t.Run("set and advance", func(t *testing.T) {
		clock := NewFakeClock(base)
		clock.Advance(2 * time.Hour)
		if got := clock.Now(); !got.Equal(base.Add(2 * time.Hour)) {
			t.Errorf("After Advance, Now() = %v", got)
		}

		past := base.Add(-24 * time.Hour)
		clock.Set(past)
		if got := clock.Now(); !got.Equal(past) {
			t.Errorf("After Set, Now() = %v, want %v", got, past)
		}
	})

	t.Run("stepping clock yields increasing nanos", func(t *testing.T) {
		clock := NewSteppingClock(base, time.Nanosecond)

		prev := clock.Now().UnixNano()
		for i := 0; i < 5; i++ {
			next := clock.Now().UnixNano()
			if next != prev+1 {
				t.Fatalf("step %d: got %d, want %d", i, next, prev+1)
			}
			prev = next
		}
	})
}
