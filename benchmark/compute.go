package benchmark

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"

	"example.com/ecwindow/core/fuzzy"
)

// SampleInputs draws n input assignments uniformly from the universes of
// the engine's antecedent variables.
func SampleInputs(e *fuzzy.Engine, n int, seed int64) []map[string]float64 {
	r := rand.New(rand.NewSource(seed))
	var vs []*fuzzy.Variable
	for _, v := range e.Variables() {
		if v.Role() == fuzzy.Antecedent {
			vs = append(vs, v)
		}
	}
	samples := make([]map[string]float64, n)
	for i := range samples {
		m := make(map[string]float64, len(vs))
		for _, v := range vs {
			u := v.Universe()
			m[v.Name()] = u.Min + r.Float64()*(u.Max-u.Min)
		}
		samples[i] = m
	}
	return samples
}

// RunComputeBenchmark calls e.Compute from numGoroutine goroutines,
// numRequest times each, cycling through samples, and writes the latency
// distribution in microseconds to w.
func RunComputeBenchmark(log *zap.Logger, w io.Writer, e *fuzzy.Engine,
	samples []map[string]float64, numGoroutine, numRequest int) error {
	if len(samples) == 0 {
		panic("unexpected number of samples")
	}
	if numGoroutine <= 0 || numRequest <= 0 {
		return fmt.Errorf("invalid benchmark size: %d goroutines, %d requests", numGoroutine, numRequest)
	}
	var mu sync.Mutex
	hg := hdrhistogram.New(1, 10_000_000, 3)
	var numFailed int
	sg := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(numGoroutine)
	for i := numGoroutine; i > 0; i-- {
		go func(offset int) {
			defer wg.Done()
			lhg := hdrhistogram.New(1, 10_000_000, 3)
			var failed int
			<-sg
			for j := 0; j < numRequest; j++ {
				in := samples[(offset+j)%len(samples)]
				t0 := time.Now()
				_, err := e.Compute(in)
				d := time.Since(t0)
				if err != nil {
					failed++
					continue
				}
				err = lhg.RecordValue(d.Nanoseconds())
				if err != nil {
					log.Info("failed to record histogram value", zap.Error(err))
				}
			}
			mu.Lock()
			defer mu.Unlock()
			hg.Merge(lhg)
			numFailed += failed
		}(i * numRequest)
	}
	t0 := time.Now()
	close(sg)
	wg.Wait()
	elapsed := time.Since(t0)

	log.Info("benchmark finished",
		zap.Int("goroutines", numGoroutine),
		zap.Int("requests", numGoroutine*numRequest),
		zap.Int("failed", numFailed),
		zap.Duration("elapsed", elapsed),
	)
	_, err := fmt.Fprintf(w, "requests: %d, failed: %d, elapsed: %v\n",
		numGoroutine*numRequest, numFailed, elapsed)
	if err != nil {
		return err
	}
	_, err = hg.PercentilesPrint(w, 1, 1000.0)
	return err
}
