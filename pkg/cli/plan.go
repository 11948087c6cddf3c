package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/kuroba-ex/shipper/pkg/cli/config"
	"github.com/kuroba-ex/shipper/pkg/usecase"
)

func cmdPlan() *cli.Command {
	var (
		githubCfg config.GitHub
		gitCfg    config.Git
	)

	flags := append(githubCfg.Flags(), gitCfg.Flags()...)

	return &cli.Command{
		Name:  "plan",
		Usage: "Show the next tag and changelog without releasing",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			githubClient, err := githubCfg.NewClient()
			if err != nil {
				return err
			}

			plan, err := usecase.NewRelease(githubClient, gitCfg.NewHistory()).Plan(ctx)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			label := color.New(color.Bold)

			label.Fprint(w, "Latest: ")
			fmt.Fprintf(w, "%s (%s)\n", plan.LatestTag, plan.CommitSHA)
			label.Fprint(w, "Next:   ")
			color.New(color.FgGreen).Fprintln(w, plan.NextTag)

			if plan.Changelog == "" {
				color.New(color.FgYellow).Fprintln(w, "No changes")
				return nil
			}
			fmt.Fprintln(w)
			fmt.Fprint(w, plan.Changelog)
			return nil
		},
	}
}
