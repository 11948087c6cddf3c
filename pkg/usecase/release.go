package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/kuroba-ex/shipper/pkg/domain/interfaces"
	"github.com/kuroba-ex/shipper/pkg/domain/model"
)

type releaseUseCase struct {
	githubClient interfaces.GitHubClient
	history      interfaces.GitHistory
	notifier     interfaces.Notifier
}

// ReleaseOption configures the release use case
type ReleaseOption func(*releaseUseCase)

// WithNotifier announces published releases through n
func WithNotifier(n interfaces.Notifier) ReleaseOption {
	return func(uc *releaseUseCase) {
		uc.notifier = n
	}
}

// NewRelease creates a new instance of ReleaseUseCase
func NewRelease(githubClient interfaces.GitHubClient, history interfaces.GitHistory, opts ...ReleaseOption) interfaces.ReleaseUseCase {
	uc := &releaseUseCase{
		githubClient: githubClient,
		history:      history,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Plan computes the next tag and the changelog since the latest release
func (uc *releaseUseCase) Plan(ctx context.Context) (*model.Plan, error) {
	logger := ctxlog.From(ctx)

	latest, err := uc.githubClient.LatestReleaseTag(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest release tag")
	}

	next, err := model.NextTag(latest)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compute next tag", goerr.V("latest", latest))
	}

	logger.Info("Planned next tag",
		"latest", latest,
		"next", next,
	)

	sha, err := uc.githubClient.ResolveTag(ctx, latest)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve latest tag", goerr.V("tag", latest))
	}
	if sha == "" {
		return nil, goerr.Wrap(model.ErrMissingCommit, "latest tag resolved to empty commit", goerr.V("tag", latest))
	}

	return &model.Plan{
		LatestTag: latest,
		NextTag:   next,
		CommitSHA: sha,
		Changelog: CollectSince(ctx, uc.history, sha),
	}, nil
}

// Publish creates the next release and uploads asset to it
func (uc *releaseUseCase) Publish(ctx context.Context, asset *model.Asset) (*model.Release, error) {
	logger := ctxlog.From(ctx)

	plan, err := uc.Plan(ctx)
	if err != nil {
		return nil, err
	}

	release, err := uc.githubClient.CreateRelease(ctx, &model.ReleaseSpec{
		TagName:    plan.NextTag,
		Name:       plan.NextTag,
		Body:       plan.Changelog,
		Draft:      false,
		Prerelease: false,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create release", goerr.V("tag", plan.NextTag))
	}

	logger.Info("Created release",
		"id", release.ID,
		"tag", release.TagName,
		"url", release.HTMLURL,
	)

	uploaded, err := uc.githubClient.UploadAsset(ctx, release, asset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload asset",
			goerr.V("tag", release.TagName),
			goerr.V("path", asset.Path),
		)
	}

	logger.Info("Uploaded asset",
		"name", uploaded.Name,
		"size", uploaded.Size,
		"download_url", uploaded.DownloadURL,
	)

	if uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, release); err != nil {
			logger.Warn("Failed to announce release", "error", err, "tag", release.TagName)
		}
	}

	return release, nil
}

// CollectSince returns the changelog of commits after commitRef. Any failure
// of the underlying history query is logged and yields an empty changelog.
func CollectSince(ctx context.Context, history interfaces.GitHistory, commitRef string) string {
	logger := ctxlog.From(ctx)

	subjects, err := history.SubjectsSince(ctx, commitRef)
	if err != nil {
		logger.Error("Failed to collect commit history, continuing without changelog",
			"error", err,
			"ref", commitRef,
		)
		return ""
	}

	changelog := model.BuildChangelog(subjects)
	logger.Debug("Collected changelog",
		"ref", commitRef,
		"commit_count", len(subjects),
	)
	return changelog
}
