// Package commandtest provides a scripted command.Runner for tests.
package commandtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sznuper/updavail/internal/command"
)

// Response is what the fake returns for one call.
type Response struct {
	Stdout string
	Stderr string
	Code   int
	Err    error
}

// Fake replays queued responses per program name (argv[0]) and records
// every call. A program with no queued response fails with an error.
type Fake struct {
	mu        sync.Mutex
	responses map[string][]Response
	Calls     [][]string
}

func New() *Fake {
	return &Fake{responses: make(map[string][]Response)}
}

// On queues responses for program. The last response repeats once the
// queue is drained.
func (f *Fake) On(program string, rs ...Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[program] = append(f.responses[program], rs...)
	return f
}

// CallCount returns how many times program was run.
func (f *Fake) CallCount(program string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c[0] == program {
			n++
		}
	}
	return n
}

func (f *Fake) Run(_ context.Context, argv []string) (*command.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, append([]string(nil), argv...))
	queue := f.responses[argv[0]]
	if len(queue) == 0 {
		return nil, fmt.Errorf("running %s: executable file not found", argv[0])
	}
	r := queue[0]
	if len(queue) > 1 {
		f.responses[argv[0]] = queue[1:]
	}

	res := &command.Result{Stdout: r.Stdout, Stderr: r.Stderr, ExitCode: r.Code}
	if r.Err != nil {
		return res, r.Err
	}
	if r.Code != 0 {
		return res, &command.ExitError{Argv: argv, Code: r.Code, Stderr: strings.TrimSpace(r.Stderr)}
	}
	return res, nil
}
