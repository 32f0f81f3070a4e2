package queue_test

import (
	"testing"
	"time"

	"github.com/amylase/rime-judge/internal/contest/queue"
)

func TestEnqueueDequeueOrder(t *testing.T) {
	t.Parallel()
	q := queue.New(8)
	for _, id := range []int64{3, 1, 2} {
		if err := q.Enqueue(id); err != nil {
			t.Fatalf("enqueue %d failed: %v", id, err)
		}
	}
	if got := q.Len(); got != 3 {
		t.Fatalf("expected len 3, got %d", got)
	}
	for _, want := range []int64{3, 1, 2} {
		id, ok := q.Dequeue()
		if !ok {
			t.Fatalf("expected dequeue ok")
		}
		if id != want {
			t.Fatalf("expected %d, got %d", want, id)
		}
	}
}

func TestDequeueBlocksUntilEnqueue(t *testing.T) {
	t.Parallel()
	q := queue.New(1)
	got := make(chan int64, 1)
	go func() {
		id, ok := q.Dequeue()
		if !ok {
			got <- -1
			return
		}
		got <- id
	}()

	time.Sleep(20 * time.Millisecond)
	if err := q.Enqueue(42); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	select {
	case id := <-got:
		if id != 42 {
			t.Fatalf("expected 42, got %d", id)
		}
	case <-time.After(time.Second):
		t.Fatalf("dequeue did not wake up")
	}
}

func TestCloseDrainsPendingThenStops(t *testing.T) {
	t.Parallel()
	q := queue.New(4)
	if err := q.Enqueue(7); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	q.Close()

	if err := q.Enqueue(8); err != queue.ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	id, ok := q.Dequeue()
	if !ok || id != 7 {
		t.Fatalf("expected pending id 7, got %d ok=%v", id, ok)
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatalf("expected dequeue to report shutdown")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()
	q := queue.New(1)
	q.Close()
	q.Close()
	if _, ok := q.Dequeue(); ok {
		t.Fatalf("expected dequeue to report shutdown")
	}
}

func TestEnqueueNeverBlocksPastCapacityHint(t *testing.T) {
	t.Parallel()
	q := queue.New(1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Far past the initial buffer size, with no consumer running.
		for i := int64(0); i < 100; i++ {
			if err := q.Enqueue(i); err != nil {
				t.Errorf("enqueue %d failed: %v", i, err)
				return
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("enqueue blocked on a full backlog")
	}
	if got := q.Len(); got != 100 {
		t.Fatalf("expected len 100, got %d", got)
	}
	for want := int64(0); want < 100; want++ {
		id, ok := q.Dequeue()
		if !ok || id != want {
			t.Fatalf("expected %d, got %d ok=%v", want, id, ok)
		}
	}
}

func TestDefaultCapacity(t *testing.T) {
	t.Parallel()
	q := queue.New(0)
	// A fresh queue with default capacity accepts writes without blocking.
	for i := int64(0); i < 100; i++ {
		if err := q.Enqueue(i); err != nil {
			t.Fatalf("enqueue %d failed: %v", i, err)
		}
	}
	if got := q.Len(); got != 100 {
		t.Fatalf("expected len 100, got %d", got)
	}
}
