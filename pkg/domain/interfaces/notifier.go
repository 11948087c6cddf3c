package interfaces

import (
	"context"

	"github.com/kuroba-ex/shipper/pkg/domain/model"
)

// Notifier announces a published release
type Notifier interface {
	Notify(ctx context.Context, release *model.Release) error
}
