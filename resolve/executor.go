// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"context"

	"github.com/sdboyer/constext"
	"golang.org/x/sync/errgroup"
)

// taskResult carries a future's outcome as a value rather than a channel of
// (T, error), per spec.md §9's "futures and cancellation" note: the driver
// decides for itself when to observe and abort, instead of a task panicking
// or blocking indefinitely on a send.
type taskResult struct {
	deps []Dep
	err  error
}

// pendingTask is a single in-flight child-fetch, submitted to the pool by
// Executor.Submit. ppath is the ancestry path that produced it, carried
// alongside so the expander can build each child's full path once the
// fetch completes (spec.md §4.5's pending-node record).
type pendingTask struct {
	ppath  Path
	result chan taskResult
}

// await blocks until the task completes and returns its result. Safe to
// call exactly once per pendingTask.
func (p *pendingTask) await() taskResult {
	return <-p.result
}

// Executor is the bounded worker pool backing spec.md §4.5/§5's "Task
// executor": a driver goroutine submits child-fetch tasks, which run
// concurrently up to a configured concurrency limit, and the first failure
// cancels every other in-flight and future task. Built on
// golang.org/x/sync/errgroup, which provides exactly this bounded-fan-out,
// first-error-wins shape natively - a closer fit than hand-rolling a
// channel/WaitGroup pair as the teacher's solver does for its single-
// threaded SAT search (the teacher never needed a pool; gps's version
// fetches all happen synchronously on the one solver goroutine).
//
// Executor is not reentrant: each Expand call builds its own, and an
// Executor is not reused once Wait has returned.
type Executor struct {
	g   *errgroup.Group
	ctx context.Context
}

// NewExecutor builds an Executor bounded to threads concurrent tasks,
// joining callerCtx (the caller's deadline/cancellation) with the pool's
// own first-failure cancellation via constext.Cons, so that either source
// of cancellation propagates to every task (spec.md §5 "Cancellation").
func NewExecutor(callerCtx context.Context, threads int) (*Executor, context.Context) {
	g, gctx := errgroup.WithContext(callerCtx)
	joined, _ := constext.Cons(callerCtx, gctx)
	if threads > 0 {
		g.SetLimit(threads)
	}
	return &Executor{g: g, ctx: joined}, joined
}

// Submit schedules a child-fetch task that runs fn(ctx, baseDir) on a
// worker goroutine, returning a pendingTask the driver can await later.
// baseDir is the coord's resolved root, threaded explicitly into fn rather
// than mutating a process-wide working directory (spec.md §5/§9).
func (ex *Executor) Submit(ppath Path, baseDir string, fn func(ctx context.Context, baseDir string) ([]Dep, error)) *pendingTask {
	pt := &pendingTask{ppath: ppath, result: make(chan taskResult, 1)}
	ex.g.Go(func() error {
		deps, err := fn(ex.ctx, baseDir)
		pt.result <- taskResult{deps: deps, err: err}
		// Returning the error here, rather than swallowing it, is what
		// makes errgroup cancel ex.ctx for every other in-flight/future
		// task - the pool-wide shutdown spec.md §5 requires on first
		// failure.
		return err
	})
	return pt
}

// Wait blocks until every submitted task has completed, returning the
// first error observed (if any). Expand calls this on every return path
// to guarantee no goroutine leaks past Expand returning, even though
// individual failures are normally already consumed
// via pendingTask.await along the way.
func (ex *Executor) Wait() error {
	return ex.g.Wait()
}
