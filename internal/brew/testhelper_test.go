package brew

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type response struct {
	out string
	err error
}

// fakeRunner answers brew invocations from a table keyed by the joined args.
type fakeRunner struct {
	mu        sync.Mutex
	responses map[string]response
	calls     []string
}

func (f *fakeRunner) Output(ctx context.Context, args ...string) ([]byte, error) {
	return f.run(args)
}

func (f *fakeRunner) CombinedOutput(ctx context.Context, args ...string) ([]byte, error) {
	return f.run(args)
}

func (f *fakeRunner) run(args []string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	r, ok := f.responses[key]
	if !ok {
		return nil, &ExitError{Args: args, Code: 1, Stderr: "unexpected invocation"}
	}
	return []byte(r.out), r.err
}

func (f *fakeRunner) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == key {
			n++
		}
	}
	return n
}

func newTestClient(t *testing.T, responses map[string]response) (*Client, *fakeRunner) {
	t.Helper()
	runner := &fakeRunner{responses: responses}
	c, err := NewClient(runner, ClientConfig{Prefix: t.TempDir()})
	require.NoError(t, err)
	return c, runner
}
