package interfaces

import (
	"context"

	"github.com/kuroba-ex/shipper/pkg/domain/model"
)

// GitHubClient defines the release operations used against the GitHub API
type GitHubClient interface {
	// LatestReleaseTag returns the tag name of the latest published release
	LatestReleaseTag(ctx context.Context) (string, error)

	// ResolveTag returns the commit SHA a tag points to
	ResolveTag(ctx context.Context, tag string) (string, error)

	// CreateRelease creates a new release
	CreateRelease(ctx context.Context, spec *model.ReleaseSpec) (*model.Release, error)

	// UploadAsset attaches a file to an existing release
	UploadAsset(ctx context.Context, release *model.Release, asset *model.Asset) (*model.UploadedAsset, error)
}
