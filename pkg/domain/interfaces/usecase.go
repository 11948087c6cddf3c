package interfaces

import (
	"context"

	"github.com/kuroba-ex/shipper/pkg/domain/model"
)

// ReleaseUseCase defines operations of a release run
type ReleaseUseCase interface {
	// Plan computes the next tag and changelog without changing anything
	Plan(ctx context.Context) (*model.Plan, error)

	// Publish creates the next release and uploads asset to it
	Publish(ctx context.Context, asset *model.Asset) (*model.Release, error)
}

// NativeUseCase builds native libraries for the Android targets
type NativeUseCase interface {
	Build(ctx context.Context, cfg model.NativeConfig) error
}
