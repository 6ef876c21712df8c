package store

import (
	"sync"
	"testing"
)

func TestGetSet(t *testing.T) {
	s := New(1)
	if s.Get() != 1 {
		t.Fatalf("Get() = %d", s.Get())
	}
	if !s.Set(2) || s.Get() != 2 {
		t.Errorf("Set(2) -> %d", s.Get())
	}
}

func TestSubscribe(t *testing.T) {
	s := New("a")
	var got []string
	unsub := s.Subscribe(func(v string) { got = append(got, v) })

	s.Set("b")
	s.Update(func(v string) string { return v + "c" })
	unsub()
	unsub()
	s.Set("z")

	if len(got) != 2 || got[0] != "b" || got[1] != "bc" {
		t.Errorf("notifications = %v", got)
	}
	if s.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", s.Subscribers())
	}
}

func TestSubscribeOrderAndRemoval(t *testing.T) {
	s := New(0)
	var order []string
	s.Subscribe(func(int) { order = append(order, "first") })
	unsubSecond := s.Subscribe(func(int) { order = append(order, "second") })
	s.Subscribe(func(int) { order = append(order, "third") })

	unsubSecond()
	s.Set(1)

	if len(order) != 2 || order[0] != "first" || order[1] != "third" {
		t.Errorf("order = %v", order)
	}
}

func TestComparableSkipsNoOps(t *testing.T) {
	s := NewComparable("light")
	calls := 0
	s.Subscribe(func(string) { calls++ })

	if s.Set("light") {
		t.Error("Set of equal value should report no change")
	}
	s.Update(func(v string) string { return v })
	s.Set("dark")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSubscriberMaySetAgain(t *testing.T) {
	s := NewComparable(0)
	s.Subscribe(func(v int) {
		if v < 3 {
			s.Set(v + 1)
		}
	})
	s.Set(1)
	if s.Get() != 3 {
		t.Errorf("Get() = %d, want 3", s.Get())
	}
}

func TestConcurrentUpdate(t *testing.T) {
	s := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()
	if s.Get() != 100 {
		t.Errorf("Get() = %d, want 100", s.Get())
	}
}
