package server

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestBackpressureAcquireUpToMax(t *testing.T) {
	bp := NewBackpressure(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := bp.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d should succeed: %v", i+1, err)
		}
	}

	if bp.InUse() != 3 {
		t.Errorf("InUse() = %d, want 3", bp.InUse())
	}
}

func TestBackpressureBlocksAtCapacity(t *testing.T) {
	bp := NewBackpressure(1)
	ctx := context.Background()

	if err := bp.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire should succeed: %v", err)
	}

	ctx2, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := bp.Acquire(ctx2); err == nil {
		t.Fatal("second Acquire should block until ctx is done, not succeed")
	}
}

func TestBackpressureReleaseAllowsNewAcquire(t *testing.T) {
	bp := NewBackpressure(1)
	ctx := context.Background()

	if err := bp.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire should succeed: %v", err)
	}
	bp.Release()

	if err := bp.Acquire(ctx); err != nil {
		t.Fatalf("Acquire after Release should succeed: %v", err)
	}
}

func TestBackpressureConcurrentAccess(t *testing.T) {
	bp := NewBackpressure(100)
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := bp.Acquire(ctx); err != nil {
				t.Errorf("Acquire should succeed: %v", err)
			}
		}()
	}
	wg.Wait()

	if bp.InUse() != 100 {
		t.Errorf("InUse() = %d, want 100", bp.InUse())
	}
}

func TestBackpressureNthPlusOneBlocksUntilRelease(t *testing.T) {
	bp := NewBackpressure(2)
	ctx := context.Background()
	if err := bp.Acquire(ctx); err != nil {
		t.Fatal(err)
	}
	if err := bp.Acquire(ctx); err != nil {
		t.Fatal(err)
	}

	acquired := make(chan struct{})
	go func() {
		if err := bp.Acquire(ctx); err != nil {
			t.Errorf("Acquire should eventually succeed: %v", err)
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("third Acquire should block while at capacity")
	case <-time.After(50 * time.Millisecond):
	}

	bp.Release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("third Acquire should succeed after Release")
	}
}
