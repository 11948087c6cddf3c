package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/kuroba-ex/shipper/pkg/cli/config"
	"github.com/kuroba-ex/shipper/pkg/usecase"
)

func cmdRelease() *cli.Command {
	var (
		githubCfg config.GitHub
		gitCfg    config.Git
		assetCfg  config.Asset
		slackCfg  config.Slack
	)

	var flags []cli.Flag
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, gitCfg.Flags()...)
	flags = append(flags, assetCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "release",
		Aliases: []string{"r"},
		Usage:   "Create the next beta release and upload the asset",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			githubClient, err := githubCfg.NewClient()
			if err != nil {
				return err
			}

			asset, err := assetCfg.Build()
			if err != nil {
				return err
			}

			logger.Info("Starting release",
				"github", githubCfg,
				"repo_path", gitCfg.RepoPath,
				"asset", asset.Path,
			)

			releaseUC := usecase.NewRelease(githubClient, gitCfg.NewHistory(),
				usecase.WithNotifier(slackCfg.NewNotifier()),
			)

			release, err := releaseUC.Publish(ctx, asset)
			if err != nil {
				return goerr.Wrap(err, "release failed")
			}

			w := c.Root().Writer
			color.New(color.FgGreen, color.Bold).Fprintf(w, "Released %s\n", release.TagName)
			if release.HTMLURL != "" {
				color.New(color.FgCyan).Fprintln(w, release.HTMLURL)
			}
			return nil
		},
	}
}
