package store

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

// The record methods must never block the calling board loop: they enqueue
// and return, and drop when the queue is full. No database needed; the writer
// goroutine is simply not started.
func TestRecordWritesAreQueuedNonBlocking(t *testing.T) {
	s := &Store{log: zap.NewNop(), writes: make(chan any, 1)}

	s.RecordTurn("board-a", "m-1", 0, "Alice", 45, 3, false)

	select {
	case rec := <-s.writes:
		turn, ok := rec.(*TurnRecord)
		if !ok {
			t.Fatalf("queued %T, want *TurnRecord", rec)
		}
		if turn.BoardID != "board-a" || turn.Score != 45 || turn.Darts != 3 || turn.Busted {
			t.Fatalf("TurnRecord = %+v", turn)
		}
	default:
		t.Fatal("RecordTurn queued nothing")
	}

	// Fill the queue, then overflow it; the overflowing call must return
	// instead of blocking.
	s.RecordLeg("board-a", "m-1", 1, "Bob")
	done := make(chan struct{})
	go func() {
		s.RecordMatch("board-a", "m-1", 1)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RecordMatch blocked on a full queue")
	}

	rec := <-s.writes
	if _, ok := rec.(*LegRecord); !ok {
		t.Fatalf("queued %T, want *LegRecord (overflow must be dropped)", rec)
	}
	select {
	case rec := <-s.writes:
		t.Fatalf("queue held an extra record: %T", rec)
	default:
	}
}
