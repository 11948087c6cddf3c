package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/kuroba-ex/shipper/pkg/domain/model"
	"github.com/kuroba-ex/shipper/pkg/usecase"
)

type runCall struct {
	dir  string
	env  []string
	name string
	args []string
}

// MockRunner records commands and simulates cargo by writing the artifact
type MockRunner struct {
	calls []runCall
	runFn func(call runCall) error
}

func (m *MockRunner) Run(ctx context.Context, dir string, env []string, name string, args ...string) error {
	call := runCall{dir: dir, env: env, name: name, args: args}
	m.calls = append(m.calls, call)
	if m.runFn != nil {
		return m.runFn(call)
	}
	return nil
}

// MockFetcher creates the toolchain root instead of downloading it
type MockFetcher struct {
	root    string
	err     error
	fetched []string
}

func (m *MockFetcher) Fetch(ctx context.Context, url, destDir string) error {
	m.fetched = append(m.fetched, url)
	if m.err != nil {
		return m.err
	}
	return os.MkdirAll(filepath.Join(destDir, m.root), 0o755)
}

func newNativeConfig(t *testing.T) model.NativeConfig {
	t.Helper()
	base := t.TempDir()

	cfg := model.DefaultNativeConfig()
	cfg.Toolchain.URL = "https://example.com/ndk.zip"
	cfg.Toolchain.Dir = filepath.Join(base, "toolchain")
	cfg.Toolchain.Root = "android-ndk"
	cfg.Crate.Path = filepath.Join(base, "native")
	cfg.Crate.LibName = "parser"
	cfg.JNILibs = filepath.Join(base, "app", "src", "main", "jniLibs")
	return cfg
}

// cargoSimulator writes the library cargo would produce for the requested target
func cargoSimulator(cfg model.NativeConfig) func(call runCall) error {
	return func(call runCall) error {
		var triple string
		for i, arg := range call.args {
			if arg == "--target" && i+1 < len(call.args) {
				triple = call.args[i+1]
			}
		}
		out := cfg.Crate.Artifact(model.NativeTarget{Triple: triple})
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		return os.WriteFile(out, []byte("ELF "+triple), 0o755)
	}
}

func envValue(env []string, key string) string {
	for _, kv := range env {
		if strings.HasPrefix(kv, key+"=") {
			return strings.TrimPrefix(kv, key+"=")
		}
	}
	return ""
}

func TestNativeUseCase_Build(t *testing.T) {
	ctx := context.Background()
	cfg := newNativeConfig(t)

	runner := &MockRunner{runFn: cargoSimulator(cfg)}
	fetcher := &MockFetcher{root: "android-ndk"}

	uc := usecase.NewNative(runner, fetcher, usecase.WithHostTag("linux-x86_64"))
	gt.NoError(t, uc.Build(ctx, cfg)).Required()

	gt.Value(t, fetcher.fetched).Equal([]string{"https://example.com/ndk.zip"})
	gt.A(t, runner.calls).Length(4)

	for i, target := range model.DefaultNativeTargets() {
		call := runner.calls[i]
		gt.Value(t, call.name).Equal("cargo")
		gt.Value(t, call.dir).Equal(cfg.Crate.Path)
		gt.Value(t, call.args).Equal([]string{"build", "--target", target.Triple, "--release"})

		linker := envValue(call.env, "CARGO_TARGET_"+target.EnvSuffix()+"_LINKER")
		gt.String(t, linker).Contains(filepath.Join("toolchains", "llvm", "prebuilt", "linux-x86_64", "bin"))
		gt.String(t, linker).Contains(target.ClangPrefix() + "21-clang")
		gt.Value(t, envValue(call.env, "CC_"+target.Triple)).Equal(linker)
		gt.String(t, envValue(call.env, "AR_"+target.Triple)).Contains("llvm-ar")

		content, err := os.ReadFile(filepath.Join(cfg.JNILibs, target.ABI, "libparser.so"))
		gt.NoError(t, err)
		gt.Value(t, string(content)).Equal("ELF " + target.Triple)
	}
}

func TestNativeUseCase_Build_ArmUsesClangPrefix(t *testing.T) {
	ctx := context.Background()
	cfg := newNativeConfig(t)
	cfg.Targets = []model.NativeTarget{{Triple: "armv7-linux-androideabi", ABI: "armeabi-v7a", Clang: "armv7a-linux-androideabi"}}
	cfg.Toolchain.APILevel = 24

	runner := &MockRunner{runFn: cargoSimulator(cfg)}
	uc := usecase.NewNative(runner, &MockFetcher{root: "android-ndk"}, usecase.WithHostTag("linux-x86_64"))
	gt.NoError(t, uc.Build(ctx, cfg)).Required()

	linker := envValue(runner.calls[0].env, "CARGO_TARGET_ARMV7_LINUX_ANDROIDEABI_LINKER")
	gt.Value(t, filepath.Base(linker)).Equal("armv7a-linux-androideabi24-clang")
}

func TestNativeUseCase_Build_DebugProfile(t *testing.T) {
	ctx := context.Background()
	cfg := newNativeConfig(t)
	cfg.Crate.Profile = "debug"
	cfg.Targets = cfg.Targets[:1]

	runner := &MockRunner{runFn: cargoSimulator(cfg)}
	uc := usecase.NewNative(runner, &MockFetcher{root: "android-ndk"})
	gt.NoError(t, uc.Build(ctx, cfg)).Required()

	gt.Value(t, runner.calls[0].args).Equal([]string{"build", "--target", "aarch64-linux-android"})
	_, err := os.Stat(filepath.Join(cfg.JNILibs, "arm64-v8a", "libparser.so"))
	gt.NoError(t, err)
}

func TestNativeUseCase_Build_ExistingToolchainSkipsDownload(t *testing.T) {
	ctx := context.Background()
	cfg := newNativeConfig(t)
	gt.NoError(t, os.MkdirAll(cfg.Toolchain.RootPath(), 0o755)).Required()

	fetcher := &MockFetcher{root: "android-ndk"}
	uc := usecase.NewNative(&MockRunner{runFn: cargoSimulator(cfg)}, fetcher)
	gt.NoError(t, uc.Build(ctx, cfg))
	gt.A(t, fetcher.fetched).Length(0)
}

func TestNativeUseCase_Build_FetchFailure(t *testing.T) {
	ctx := context.Background()
	cfg := newNativeConfig(t)

	runner := &MockRunner{}
	uc := usecase.NewNative(runner, &MockFetcher{err: errors.New("connection refused")})

	err := uc.Build(ctx, cfg)
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to fetch toolchain")
	gt.A(t, runner.calls).Length(0)
}

func TestNativeUseCase_Build_ArchiveWithoutRoot(t *testing.T) {
	ctx := context.Background()
	cfg := newNativeConfig(t)

	uc := usecase.NewNative(&MockRunner{}, &MockFetcher{root: "android-ndk-r99"})

	err := uc.Build(ctx, cfg)
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("expected root")
}

func TestNativeUseCase_Build_CargoFailureStops(t *testing.T) {
	ctx := context.Background()
	cfg := newNativeConfig(t)

	runner := &MockRunner{runFn: func(call runCall) error {
		return errors.New("linker not found")
	}}
	uc := usecase.NewNative(runner, &MockFetcher{root: "android-ndk"})

	err := uc.Build(ctx, cfg)
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("cargo build failed")
	gt.A(t, runner.calls).Length(1)

	_, statErr := os.Stat(cfg.JNILibs)
	gt.Value(t, os.IsNotExist(statErr)).Equal(true)
}

func TestNativeUseCase_Build_MissingArtifact(t *testing.T) {
	ctx := context.Background()
	cfg := newNativeConfig(t)

	uc := usecase.NewNative(&MockRunner{}, &MockFetcher{root: "android-ndk"})

	err := uc.Build(ctx, cfg)
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to copy native library")
}

func TestNativeUseCase_Build_InvalidConfig(t *testing.T) {
	ctx := context.Background()
	cfg := newNativeConfig(t)
	cfg.Targets = nil

	fetcher := &MockFetcher{root: "android-ndk"}
	err := usecase.NewNative(&MockRunner{}, fetcher).Build(ctx, cfg)
	gt.Error(t, err)
	gt.A(t, fetcher.fetched).Length(0)
}
