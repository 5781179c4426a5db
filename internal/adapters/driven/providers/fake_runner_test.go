package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// exitStatus mimics *exec.ExitError for canned failures.
type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func (e exitStatus) ExitCode() int { return int(e) }

type cannedResult struct {
	out string
	err error
}

// fakeRunner answers commands from a table keyed by "name arg1 arg2".
type fakeRunner struct {
	mu        sync.Mutex
	results   map[string]cannedResult
	installed map[string]bool
	calls     []string
}

func newFakeRunner(installed ...string) *fakeRunner {
	r := &fakeRunner{
		results:   make(map[string]cannedResult),
		installed: make(map[string]bool),
	}
	for _, name := range installed {
		r.installed[name] = true
	}
	return r
}

func (r *fakeRunner) on(cmd string, out string, err error) *fakeRunner {
	r.results[cmd] = cannedResult{out: out, err: err}
	return r
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")

	r.mu.Lock()
	r.calls = append(r.calls, key)
	res, ok := r.results[key]
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrToolMissing, name)
	}
	return []byte(res.out), res.err
}

func (r *fakeRunner) LookPath(name string) (string, error) {
	if !r.installed[name] {
		return "", fmt.Errorf("%w: %s", domain.ErrToolMissing, name)
	}
	return "/usr/bin/" + name, nil
}

func (r *fakeRunner) callCount(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}
