package model_test

import (
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/kuroba-ex/shipper/pkg/domain/model"
)

func TestNativeTarget(t *testing.T) {
	arm := model.NativeTarget{Triple: "armv7-linux-androideabi", ABI: "armeabi-v7a", Clang: "armv7a-linux-androideabi"}
	gt.Value(t, arm.ClangPrefix()).Equal("armv7a-linux-androideabi")
	gt.Value(t, arm.EnvSuffix()).Equal("ARMV7_LINUX_ANDROIDEABI")

	x86 := model.NativeTarget{Triple: "x86_64-linux-android", ABI: "x86_64"}
	gt.Value(t, x86.ClangPrefix()).Equal("x86_64-linux-android")
	gt.Value(t, x86.EnvSuffix()).Equal("X86_64_LINUX_ANDROID")
}

func TestCrate_Artifact(t *testing.T) {
	crate := model.Crate{Path: "native", LibName: "parser", Profile: "release"}
	target := model.NativeTarget{Triple: "aarch64-linux-android", ABI: "arm64-v8a"}

	gt.Value(t, crate.LibraryFile()).Equal("libparser.so")
	gt.Value(t, crate.Artifact(target)).Equal(filepath.Join("native", "target", "aarch64-linux-android", "release", "libparser.so"))
}

func TestNativeConfig_Validate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		gt.NoError(t, model.DefaultNativeConfig().Validate())
	})

	t.Run("unknown profile", func(t *testing.T) {
		cfg := model.DefaultNativeConfig()
		cfg.Crate.Profile = "bench"
		gt.Error(t, cfg.Validate())
	})

	t.Run("no targets", func(t *testing.T) {
		cfg := model.DefaultNativeConfig()
		cfg.Targets = nil
		gt.Error(t, cfg.Validate())
	})

	t.Run("target without abi", func(t *testing.T) {
		cfg := model.DefaultNativeConfig()
		cfg.Targets = []model.NativeTarget{{Triple: "aarch64-linux-android"}}
		gt.Error(t, cfg.Validate())
	})

	t.Run("zero api level", func(t *testing.T) {
		cfg := model.DefaultNativeConfig()
		cfg.Toolchain.APILevel = 0
		gt.Error(t, cfg.Validate())
	})
}

func TestAsset_FileName(t *testing.T) {
	gt.Value(t, model.Asset{Path: "out/app-release.apk"}.FileName()).Equal("app-release.apk")
	gt.Value(t, model.Asset{Path: "out/app-release.apk", Name: "Kuroba.apk"}.FileName()).Equal("Kuroba.apk")
}
