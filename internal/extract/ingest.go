package extract

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"inkwell/atlas/internal/logger"
)

// DefaultParallel is the default number of concurrent extractions.
const DefaultParallel = 4

// Result is the outcome of extracting one source.
type Result struct {
	Source   Source    `json:"source"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Err      error     `json:"-"`
	Error    string    `json:"error,omitempty"`
}

// IngestAll runs extractor over sources with at most parallel extractions
// in flight. Results come back in source order. A failed source records its
// error and does not stop the others; once ctx is done, sources that have
// not started are marked with the context error.
func IngestAll(ctx context.Context, extractor Extractor, sources []Source, parallel int) []Result {
	if parallel <= 0 {
		parallel = DefaultParallel
	}
	results := make([]Result, len(sources))

	// Workers never return errors, so the group context is only ever
	// canceled by the caller.
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, src := range sources {
		results[i].Source = src
		if err := gCtx.Err(); err != nil {
			results[i].fail(err)
			continue
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				results[i].fail(err)
				return nil
			}
			start := time.Now()
			meta, err := extractor.Extract(gCtx, src)
			if err != nil {
				logger.Error("Extraction failed", "source", src, "error", err)
				results[i].fail(err)
				return nil
			}
			logger.Info("Extracted document",
				"source", src,
				"category", meta.Category,
				"keywords", len(meta.Keywords),
				"duration", time.Since(start).Round(time.Millisecond),
			)
			results[i].Metadata = meta
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Result) fail(err error) {
	r.Err = err
	r.Error = err.Error()
}

// Succeeded returns the results that produced metadata.
func Succeeded(results []Result) []Result {
	var ok []Result
	for _, r := range results {
		if r.Err == nil && r.Metadata != nil {
			ok = append(ok, r)
		}
	}
	return ok
}
