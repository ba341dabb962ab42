package features

import (
	"context"
	"sync"
)

// MaxBatch is the most URLs one ExtractAll call processes.
const MaxBatch = 1000

// Result pairs an input URL with its vector.
type Result struct {
	URL    string
	Vector Vector
}

// vectorizer is what Batch needs from an Extractor.
type vectorizer interface {
	Extract(ctx context.Context, rawURL string) Vector
}

// Batch extracts vectors for many URLs through a bounded worker pool.
type Batch struct {
	extractor   vectorizer
	concurrency int
}

// NewBatch returns a Batch running at most concurrency extractions at once.
func NewBatch(extractor vectorizer, concurrency int) *Batch {
	return &Batch{extractor: extractor, concurrency: max(concurrency, 1)}
}

// ExtractAll returns one Result per input URL, in input order. It processes at
// most MaxBatch URLs; callers must reject or split larger inputs.
func (b *Batch) ExtractAll(ctx context.Context, urls []string) []Result {
	limit := min(len(urls), MaxBatch)
	urls = urls[:limit]

	if limit == 0 {
		return nil
	}

	results := make([]Result, limit)
	jobs := make(chan int, limit)

	numWorkers := min(limit, b.concurrency)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for i := range jobs {
				results[i] = Result{URL: urls[i], Vector: b.extractor.Extract(ctx, urls[i])}
			}
		})
	}

	for i := range urls {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}
