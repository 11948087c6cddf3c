package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/kuroba-ex/shipper/pkg/domain/interfaces"
	"github.com/kuroba-ex/shipper/pkg/domain/model"
	"github.com/kuroba-ex/shipper/pkg/domain/types"
	githubinfra "github.com/kuroba-ex/shipper/pkg/infra/github"
)

// GitHub holds GitHub configuration
type GitHub struct {
	Token      string `masq:"secret"`
	Repository string
	APIURL     string
	UploadURL  string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token used to create releases",
			Destination: &c.Token,
			Sources:     cli.EnvVars("SHIPPER_GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-repository",
			Aliases:     []string{"repo"},
			Usage:       "Repository to release, as owner/name",
			Required:    true,
			Destination: &c.Repository,
			Sources:     cli.EnvVars("SHIPPER_GITHUB_REPOSITORY", "GITHUB_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API endpoint (GitHub Enterprise)",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("SHIPPER_GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-upload-url",
			Usage:       "GitHub asset upload endpoint (GitHub Enterprise)",
			Destination: &c.UploadURL,
			Sources:     cli.EnvVars("SHIPPER_GITHUB_UPLOAD_URL"),
		},
	}
}

// NewClient validates the configuration and creates a GitHub client. An empty
// token fails before any request is made.
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	if c.Token == "" {
		return nil, goerr.Wrap(model.ErrMissingToken, "set --github-token or SHIPPER_GITHUB_TOKEN")
	}

	repo, err := githubinfra.ParseRepository(c.Repository)
	if err != nil {
		return nil, err
	}

	var opts []githubinfra.Option
	if c.APIURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.APIURL))
	}
	if c.UploadURL != "" {
		opts = append(opts, githubinfra.WithUploadURL(c.UploadURL))
	}

	return githubinfra.NewClient(types.GitHubToken(c.Token), repo, opts...)
}
