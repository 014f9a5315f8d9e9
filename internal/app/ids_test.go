package app

import (
	"sync"
	"testing"
)

func TestSequenceIDGeneratorIsDistinctUnderConcurrency(t *testing.T) {
	gen := SequenceIDGenerator()
	var (
		mu   sync.Mutex
		seen = map[string]struct{}{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := gen()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != 800 {
		t.Fatalf("expected 800 distinct ids, got %d", len(seen))
	}
}

func TestUUIDGeneratorIsDistinct(t *testing.T) {
	gen := UUIDGenerator()
	if a, b := gen(), gen(); a == "" || a == b {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a, b)
	}
}
