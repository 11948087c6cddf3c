package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/kuroba-ex/shipper/pkg/domain/interfaces"
	"github.com/kuroba-ex/shipper/pkg/domain/model"
)

type nativeUseCase struct {
	runner  interfaces.CommandRunner
	fetcher interfaces.ToolchainFetcher
	hostTag string
}

// NativeOption configures the native build use case
type NativeOption func(*nativeUseCase)

// WithHostTag overrides the NDK prebuilt host directory, e.g. "linux-x86_64"
func WithHostTag(tag string) NativeOption {
	return func(uc *nativeUseCase) {
		uc.hostTag = tag
	}
}

// NewNative creates a new instance of NativeUseCase
func NewNative(runner interfaces.CommandRunner, fetcher interfaces.ToolchainFetcher, opts ...NativeOption) interfaces.NativeUseCase {
	uc := &nativeUseCase{
		runner:  runner,
		fetcher: fetcher,
		hostTag: hostTag(runtime.GOOS),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// NDK only ships x86_64 prebuilts; Apple silicon runs them through Rosetta
func hostTag(goos string) string {
	switch goos {
	case "darwin":
		return "darwin-x86_64"
	case "windows":
		return "windows-x86_64"
	default:
		return "linux-x86_64"
	}
}

// Build prepares the NDK, compiles the crate for every target and copies the
// libraries into the jniLibs tree. Targets are built one after another and
// the first failure stops the build.
func (uc *nativeUseCase) Build(ctx context.Context, cfg model.NativeConfig) error {
	logger := ctxlog.From(ctx)

	if err := cfg.Validate(); err != nil {
		return goerr.Wrap(err, "invalid native build configuration")
	}

	if err := uc.prepareToolchain(ctx, cfg.Toolchain); err != nil {
		return err
	}

	for _, target := range cfg.Targets {
		logger.Info("Building native library",
			"triple", target.Triple,
			"abi", target.ABI,
			"profile", cfg.Crate.Profile,
		)

		if err := uc.buildTarget(ctx, cfg, target); err != nil {
			return err
		}

		dest := filepath.Join(cfg.JNILibs, target.ABI, cfg.Crate.LibraryFile())
		if err := copyFile(cfg.Crate.Artifact(target), dest); err != nil {
			return goerr.Wrap(err, "failed to copy native library",
				goerr.V("triple", target.Triple),
				goerr.V("dest", dest),
			)
		}

		logger.Info("Copied native library", "abi", target.ABI, "dest", dest)
	}

	return nil
}

func (uc *nativeUseCase) prepareToolchain(ctx context.Context, tc model.Toolchain) error {
	logger := ctxlog.From(ctx)

	root := tc.RootPath()
	info, err := os.Stat(root)
	switch {
	case err == nil && info.IsDir():
		logger.Debug("Toolchain already present", "path", root)
		return nil
	case err == nil:
		return goerr.New("toolchain path is not a directory", goerr.V("path", root))
	case !errors.Is(err, fs.ErrNotExist):
		return goerr.Wrap(err, "failed to stat toolchain", goerr.V("path", root))
	}

	if tc.URL == "" {
		return goerr.New("toolchain is missing and no download URL is configured", goerr.V("path", root))
	}

	if err := uc.fetcher.Fetch(ctx, tc.URL, tc.Dir); err != nil {
		return goerr.Wrap(err, "failed to fetch toolchain", goerr.V("url", tc.URL))
	}

	if _, err := os.Stat(root); err != nil {
		return goerr.Wrap(err, "toolchain archive does not contain the expected root", goerr.V("path", root))
	}
	return nil
}

func (uc *nativeUseCase) buildTarget(ctx context.Context, cfg model.NativeConfig, target model.NativeTarget) error {
	args := []string{"build", "--target", target.Triple}
	if cfg.Crate.Profile == "release" {
		args = append(args, "--release")
	}

	if err := uc.runner.Run(ctx, cfg.Crate.Path, uc.targetEnv(cfg.Toolchain, target), "cargo", args...); err != nil {
		return goerr.Wrap(err, "cargo build failed", goerr.V("triple", target.Triple))
	}
	return nil
}

// targetEnv points cargo and the cc crate at the NDK LLVM toolchain
func (uc *nativeUseCase) targetEnv(tc model.Toolchain, target model.NativeTarget) []string {
	binDir, err := filepath.Abs(filepath.Join(tc.RootPath(), "toolchains", "llvm", "prebuilt", uc.hostTag, "bin"))
	if err != nil {
		binDir = filepath.Join(tc.RootPath(), "toolchains", "llvm", "prebuilt", uc.hostTag, "bin")
	}

	clang := filepath.Join(binDir, fmt.Sprintf("%s%d-clang", target.ClangPrefix(), tc.APILevel))
	ar := filepath.Join(binDir, "llvm-ar")
	if uc.hostTag == "windows-x86_64" {
		clang += ".cmd"
		ar += ".exe"
	}

	return []string{
		"CARGO_TARGET_" + target.EnvSuffix() + "_LINKER=" + clang,
		"CC_" + target.Triple + "=" + clang,
		"AR_" + target.Triple + "=" + ar,
	}
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(dest), err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dest, err)
	}
	return out.Close()
}
