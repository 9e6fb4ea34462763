package download

import (
	"sync"
	"testing"
	"time"
)

func TestQueue_FIFO(t *testing.T) {
	q := newQueue()
	a, b, c := &Job{ID: "a"}, &Job{ID: "b"}, &Job{ID: "c"}
	for _, j := range []*Job{a, b, c} {
		if !q.push(j) {
			t.Fatalf("push(%s) rejected on an open queue", j.ID)
		}
	}

	if q.len() != 3 {
		t.Fatalf("len = %d, expected 3", q.len())
	}
	for _, want := range []*Job{a, b, c} {
		got, ok := q.pop()
		if !ok || got != want {
			t.Fatalf("pop = %v/%v, expected %s", got, ok, want.ID)
		}
	}
}

func TestQueue_CloseUnblocksPop(t *testing.T) {
	q := newQueue()
	done := make(chan bool, 1)
	go func() {
		_, ok := q.pop()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	q.close()

	select {
	case ok := <-done:
		if ok {
			t.Error("pop on a closed empty queue returned ok = true")
		}
	case <-time.After(time.Second):
		t.Fatal("close did not unblock pop")
	}
}

func TestQueue_CloseDrainsRemaining(t *testing.T) {
	q := newQueue()
	q.push(&Job{ID: "a"})
	q.close()

	if j, ok := q.pop(); !ok || j.ID != "a" {
		t.Fatalf("pop after close = %v/%v, expected queued job to drain", j, ok)
	}
	if _, ok := q.pop(); ok {
		t.Error("pop on drained closed queue returned ok = true")
	}
	if q.push(&Job{ID: "b"}) {
		t.Error("push on a closed queue was accepted")
	}
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := newQueue()
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.push(&Job{})
		}()
	}
	wg.Wait()
	if q.len() != n {
		t.Fatalf("len = %d, expected %d", q.len(), n)
	}
}
