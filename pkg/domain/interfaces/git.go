package interfaces

import "context"

// GitHistory reads commit history from a local repository
type GitHistory interface {
	// SubjectsSince returns commit subjects in (ref, HEAD], newest first
	SubjectsSince(ctx context.Context, ref string) ([]string, error)
}
