package git_test

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/kuroba-ex/shipper/pkg/infra/git"
)

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(cmd.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func setupRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "commit", "-q", "--allow-empty", "-m", "initial commit")
	return dir
}

func TestHistory_SubjectsSince(t *testing.T) {
	dir := setupRepo(t)
	base := runGit(t, dir, "rev-parse", "HEAD")

	runGit(t, dir, "commit", "-q", "--allow-empty", "-m", "fix bug")
	runGit(t, dir, "commit", "-q", "--allow-empty", "-m", "Merge pull request #1")
	runGit(t, dir, "commit", "-q", "--allow-empty", "-m", "add feature\n\nlong description")

	subjects, err := git.New(dir).SubjectsSince(context.Background(), base)
	gt.NoError(t, err)
	gt.Value(t, subjects).Equal([]string{"add feature", "Merge pull request #1", "fix bug"})
}

func TestHistory_SubjectsSince_NoNewCommits(t *testing.T) {
	dir := setupRepo(t)
	head := runGit(t, dir, "rev-parse", "HEAD")

	subjects, err := git.New(dir).SubjectsSince(context.Background(), head)
	gt.NoError(t, err)
	gt.A(t, subjects).Length(0)
}

func TestHistory_SubjectsSince_UnknownRef(t *testing.T) {
	dir := setupRepo(t)

	subjects, err := git.New(dir).SubjectsSince(context.Background(), "0000000000000000000000000000000000000000")
	gt.Error(t, err)
	gt.A(t, subjects).Length(0)
}

func TestHistory_SubjectsSince_MissingBinary(t *testing.T) {
	h := git.New(t.TempDir(), git.WithGitPath("/nonexistent/git"))

	_, err := h.SubjectsSince(context.Background(), "HEAD~1")
	gt.Error(t, err)
}
