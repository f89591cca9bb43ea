package suggest

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.ErrorLevel)
	goleak.VerifyTestMain(m)
}

var longPatterns = [][]string{
	{"a", "ab", "abx", "abxd", "abxde"},
	{"e", "ed", "edz", "edzc"},
	{"c", "cq", "cqa", "cqab", "cqabe"},
	{"d", "dd", "ddd", "dddd", "ddddd", "dddddd"},
}

func TestMemoryConcurrent(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 200},
		{workers: 2, iterationsPerWorker: 100},
		{workers: 4, iterationsPerWorker: 50},
		{workers: 8, iterationsPerWorker: 25},
	}

	d := generatedDictionary(t)
	for _, config := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", config.workers, config.iterationsPerWorker), func(t *testing.T) {
			c := NewWithDictionary(d, WithWorkers(4), WithParallelThreshold(64), WithChunkRecords(32))
			runConcurrentMemoryTest(t, c, config.workers, config.iterationsPerWorker)
		})
	}
}

func runConcurrentMemoryTest(t *testing.T, c *Checker, workers, iterationsPerWorker int) {
	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	var wg sync.WaitGroup
	var mu sync.Mutex
	totalOps := 0

	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ops := 0
			for iter := 0; iter < iterationsPerWorker; iter++ {
				for _, pattern := range longPatterns {
					for _, word := range pattern {
						_ = c.Suggest(word, 10)
						ops++
					}
				}
			}
			mu.Lock()
			totalOps += ops
			mu.Unlock()
		}()
	}

	wg.Wait()

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.HeapAlloc) - int64(baseline.HeapAlloc)
	goroutineDelta := finalGoroutines - baselineGoroutines
	memPerOp := float64(memDelta) / float64(totalOps)

	t.Logf("workers=%d iter_per_worker=%d total_ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		workers, iterationsPerWorker, totalOps, memDelta, memPerOp, goroutineDelta)

	if memPerOp > 1000 {
		t.Errorf("excessive retained memory per operation: %.2f bytes", memPerOp)
	}

	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}
