package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/kuroba-ex/shipper/pkg/domain/interfaces"
)

// History reads commit history with the git CLI
type History struct {
	repoPath string
	gitPath  string
}

var _ interfaces.GitHistory = (*History)(nil)

// Option configures History
type Option func(*History)

// WithGitPath overrides the git executable
func WithGitPath(path string) Option {
	return func(h *History) {
		h.gitPath = path
	}
}

// New creates a History for the repository at repoPath
func New(repoPath string, opts ...Option) *History {
	h := &History{
		repoPath: repoPath,
		gitPath:  "git",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SubjectsSince returns the subject line of every commit in ref..HEAD, newest
// first as git log reports them. A non-zero exit is returned as an error that
// carries the captured stderr.
func (h *History) SubjectsSince(ctx context.Context, ref string) ([]string, error) {
	rangeSpec := ref + "..HEAD"

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, h.gitPath, "-C", h.repoPath, "log", "--pretty=format:%s", rangeSpec)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, goerr.Wrap(err, "git log failed",
			goerr.V("range", rangeSpec),
			goerr.V("repo_path", h.repoPath),
			goerr.V("stderr", strings.TrimSpace(stderr.String())),
		)
	}

	var subjects []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			subjects = append(subjects, line)
		}
	}
	return subjects, nil
}
