package interfaces

import "context"

// CommandRunner executes external programs
type CommandRunner interface {
	// Run executes name with args in dir. env entries (KEY=VALUE) are added to
	// the current environment.
	Run(ctx context.Context, dir string, env []string, name string, args ...string) error
}

// ToolchainFetcher downloads and unpacks toolchain archives
type ToolchainFetcher interface {
	// Fetch downloads the archive at url and extracts it into destDir
	Fetch(ctx context.Context, url, destDir string) error
}
