package config

import (
	"github.com/urfave/cli/v3"

	"github.com/kuroba-ex/shipper/pkg/infra/git"
)

// Git holds configuration of the local repository the changelog is read from
type Git struct {
	RepoPath string
}

// Flags returns CLI flags for Git configuration
func (c *Git) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo-path",
			Usage:       "Path to the local git checkout",
			Value:       ".",
			Destination: &c.RepoPath,
			Sources:     cli.EnvVars("SHIPPER_REPO_PATH"),
		},
	}
}

// NewHistory creates a git history reader for the configured checkout
func (c *Git) NewHistory() *git.History {
	return git.New(c.RepoPath)
}
