package worker

import (
	"fmt"
	"runtime"

	"github.com/getsentry/sentry-go"
	"github.com/velutils/climb/cerror"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	defer sentry.Recover()

	for {
		f, ok := <-workerQueue
		if !ok {
			return
		}

		run(f)
	}
}

// run calls f, reporting a panic to sentry instead of letting it kill the worker.
func run(f func()) {
	hub := sentry.CurrentHub().Clone()
	defer func() {
		if err := recover(); err != nil {
			hub.Recover(err)
		}
	}()
	f()
}

// To be used by a function that may be CPU intensive, such as replaying a recording.
func Submit(f func()) {
	workerQueue <- f
}

// Do runs f on a worker. The channel returned receives the error f returned, or an error if f
// panicked, and is then closed.
func Do(f func() error) <-chan error {
	res := make(chan error, 1)
	Submit(func() {
		defer close(res)
		defer func() {
			if err := recover(); err != nil {
				res <- cerror.New("worker job panicked: %v", err)
				panic(err)
			}
		}()
		res <- f()
	})
	return res
}

// Wait waits for all channels returned by Do and returns the first error any of them received.
func Wait(results ...<-chan error) error {
	var first error
	for i, res := range results {
		if err := <-res; err != nil && first == nil {
			first = fmt.Errorf("job %d: %w", i, err)
		}
	}
	return first
}
