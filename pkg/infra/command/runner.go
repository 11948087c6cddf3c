package command

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/kuroba-ex/shipper/pkg/domain/interfaces"
)

// Runner executes external programs, streaming their output to the
// configured writers
type Runner struct {
	stdout io.Writer
	stderr io.Writer
}

var _ interfaces.CommandRunner = (*Runner)(nil)

// Option configures Runner
type Option func(*Runner)

// WithOutput sets the writers the child's stdout and stderr are copied to
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// New creates a Runner that forwards output to os.Stderr
func New(opts ...Option) *Runner {
	r := &Runner{
		stdout: os.Stderr,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes name with args in dir and waits for it to exit
func (r *Runner) Run(ctx context.Context, dir string, env []string, name string, args ...string) error {
	ctxlog.From(ctx).Debug("Running command",
		"name", name,
		"args", args,
		"dir", dir,
	)

	// keep the tail of stderr for the error value
	var tail bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = r.stdout
	cmd.Stderr = io.MultiWriter(r.stderr, &tail)

	if err := cmd.Run(); err != nil {
		return goerr.Wrap(err, "command failed",
			goerr.V("name", name),
			goerr.V("args", strings.Join(args, " ")),
			goerr.V("dir", dir),
			goerr.V("stderr", lastLines(tail.String(), 20)),
		)
	}
	return nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
