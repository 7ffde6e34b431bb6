package sourceenv

import (
	"context"
	"os"
	"strings"

	"github.com/croback/envgraft"
)

// Options configures environment source behavior.
type Options struct {
	// Environ overrides the entry list, in "NAME=value" form.
	// Nil = read os.Environ at every Load.
	Environ func() []string
}

type envSource struct {
	opts Options
}

// New creates a process environment source. Each Load call takes a fresh
// snapshot of the environment; the engine never re-reads mid-call.
func New(opts Options) envgraft.Source {
	if opts.Environ == nil {
		opts.Environ = os.Environ
	}
	return &envSource{opts: opts}
}

// Load scans environment entries into a name→value map.
func (e *envSource) Load(ctx context.Context) (map[string]string, error) {
	entries := e.opts.Environ()
	result := make(map[string]string, len(entries))

	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		result[name] = value
	}

	return result, nil
}
