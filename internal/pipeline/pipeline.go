// Package pipeline runs the normalization and derivation passes over a
// repository's pull requests in parallel. Work is split into contiguous
// chunks by pull number, so results are identical for any worker count, and
// a failing pull request only loses itself, never its chunk.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/derive"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/normalize"
)

// Input is one pull request's raw material: its record, its raw timeline,
// and its commit set keyed by SHA.
type Input struct {
	PullNumber int
	Pull       json.RawMessage
	Events     []json.RawMessage
	Commits    map[string]json.RawMessage
}

// PullError records a pull request that could not be processed.
type PullError struct {
	PullNumber int
	Err        error
}

func (e PullError) Error() string {
	return fmt.Sprintf("pull %d: %v", e.PullNumber, e.Err)
}

func (e PullError) Unwrap() error { return e.Err }

// Workers returns the effective worker count: requested if positive,
// otherwise one per CPU.
func Workers(requested int) int {
	if requested > 0 {
		return requested
	}
	return runtime.NumCPU()
}

// chunk is a half-open index range into a sorted input slice.
type chunk struct{ lo, hi int }

// split divides n items into at most workers contiguous chunks of
// near-equal size.
func split(n, workers int) []chunk {
	if workers > n {
		workers = n
	}
	chunks := make([]chunk, 0, workers)
	for i := 0; i < workers; i++ {
		lo := i * n / workers
		hi := (i + 1) * n / workers
		if lo < hi {
			chunks = append(chunks, chunk{lo: lo, hi: hi})
		}
	}
	return chunks
}

// NormalizeAll normalizes every input into a canonical timeline. Inputs are
// sorted by pull number first, so the returned timelines are in pull-number
// order regardless of worker count. Pulls that fail to normalize are
// reported in the second return value and omitted from the first.
func NormalizeAll(ctx context.Context, inputs []Input, workers int) ([]model.Timeline, []PullError, error) {
	sort.Slice(inputs, func(i, j int) bool {
		return inputs[i].PullNumber < inputs[j].PullNumber
	})

	timelines := make([][]model.Timeline, len(inputs))
	failures := make([][]PullError, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range split(len(inputs), Workers(workers)) {
		c := c
		g.Go(func() error {
			for i := c.lo; i < c.hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				in := inputs[i]
				tl, err := normalize.Timeline(in.Pull, in.Events, in.Commits)
				if err != nil {
					failures[i] = []PullError{{PullNumber: in.PullNumber, Err: err}}
					continue
				}
				timelines[i] = []model.Timeline{tl}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	merged := make([]model.Timeline, 0, len(inputs))
	var failed []PullError
	for i := range inputs {
		merged = append(merged, timelines[i]...)
		failed = append(failed, failures[i]...)
	}
	return merged, failed, nil
}

// DeriveAll runs the derivation passes on every timeline in place. Each
// pass is a pure per-timeline transform, so chunks never observe each
// other. Timelines that fail to derive are reported and left undisturbed.
func DeriveAll(ctx context.Context, timelines []model.Timeline, opts derive.Options, workers int) ([]PullError, error) {
	failures := make([][]PullError, len(timelines))

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range split(len(timelines), Workers(workers)) {
		c := c
		g.Go(func() error {
			for i := c.lo; i < c.hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := derive.Apply(&timelines[i], opts); err != nil {
					failures[i] = []PullError{{PullNumber: timelines[i].PullNumber, Err: err}}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failed []PullError
	for i := range timelines {
		failed = append(failed, failures[i]...)
	}
	return failed, nil
}
