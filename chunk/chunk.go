package chunk

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// DefaultChunkSize is the number of items processed between yields when the
// caller does not choose one.
const DefaultChunkSize = 200

// ErrCancelled reports cooperative cancellation of a chunked run. The partial,
// order-preserving output accumulated so far is still returned alongside it.
var ErrCancelled = errors.New("chunked processing cancelled")

// Progress reports how far a chunked run has advanced.
type Progress struct {
	Completed int
	Total     int
}

// Fraction returns completion in [0,1]. An empty run reports 1.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	return float64(p.Completed) / float64(p.Total)
}

// Options customises a chunked run.
type Options struct {
	// ChunkSize is the number of items processed before yielding control.
	// Values < 1 fall back to DefaultChunkSize.
	ChunkSize int
	// OnProgress, when set, is invoked after every chunk with cumulative progress.
	OnProgress func(Progress)
	// Yield hands control back to the host scheduler between chunks. The
	// default is runtime.Gosched; a UI host can substitute its own re-entry
	// hook here.
	Yield func()
}

// Process applies fn to every item in order, working through fixed-size
// chunks so a single cooperative scheduler is never blocked by a very large
// input. Output order always matches input order regardless of chunk
// boundaries, and no item is processed twice.
//
// Cancellation is cooperative: the context is checked between chunks, not
// preemptively, and a cancelled run returns the partial output together with
// an error wrapping ErrCancelled. A per-item error likewise stops the run and
// returns the output accumulated before the failing item.
func Process[In, Out any](ctx context.Context, items []In, fn func(In) (Out, error), opts Options) ([]Out, error) {
	if fn == nil {
		return nil, errors.New("chunk: nil item function")
	}

	size := opts.ChunkSize
	if size < 1 {
		size = DefaultChunkSize
	}
	yield := opts.Yield
	if yield == nil {
		yield = runtime.Gosched
	}

	out := make([]Out, 0, len(items))
	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("%w after %d of %d items: %v", ErrCancelled, len(out), len(items), err)
		}
		if start > 0 {
			yield()
		}

		end := start + size
		if end > len(items) {
			end = len(items)
		}
		for _, item := range items[start:end] {
			res, err := fn(item)
			if err != nil {
				return out, fmt.Errorf("chunk: item %d: %w", len(out), err)
			}
			out = append(out, res)
		}

		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Completed: len(out), Total: len(items)})
		}
	}

	return out, nil
}
