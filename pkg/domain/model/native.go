package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NativeTarget maps a Rust target triple to an Android ABI directory
type NativeTarget struct {
	Triple string `toml:"triple"`
	ABI    string `toml:"abi"`

	// Clang is the prefix of the NDK clang wrapper, e.g. "armv7a-linux-androideabi".
	// Defaults to Triple.
	Clang string `toml:"clang,omitempty"`
}

// ClangPrefix returns the NDK clang wrapper prefix for the target
func (t NativeTarget) ClangPrefix() string {
	if t.Clang != "" {
		return t.Clang
	}
	return t.Triple
}

// EnvSuffix returns the triple in the form used by CARGO_TARGET_<TRIPLE>_LINKER
func (t NativeTarget) EnvSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(t.Triple, "-", "_"))
}

// Toolchain describes where the NDK comes from and where it lives
type Toolchain struct {
	URL      string `toml:"url"`
	Dir      string `toml:"dir"`
	Root     string `toml:"root"`
	APILevel int    `toml:"api_level"`
}

// RootPath returns the extracted NDK directory
func (t Toolchain) RootPath() string {
	return filepath.Join(t.Dir, t.Root)
}

// Crate describes the Rust crate to build
type Crate struct {
	Path    string `toml:"path"`
	LibName string `toml:"lib_name"`
	Profile string `toml:"profile"`
}

// LibraryFile returns the shared library file name, e.g. libfoo.so
func (c Crate) LibraryFile() string {
	return "lib" + c.LibName + ".so"
}

// Artifact returns the path cargo writes the library to for target
func (c Crate) Artifact(target NativeTarget) string {
	return filepath.Join(c.Path, "target", target.Triple, c.Profile, c.LibraryFile())
}

// NativeConfig is the configuration of a native library build
type NativeConfig struct {
	Toolchain Toolchain      `toml:"toolchain"`
	Crate     Crate          `toml:"crate"`
	JNILibs   string         `toml:"jni_libs"`
	Targets   []NativeTarget `toml:"targets"`
}

// DefaultNativeTargets are the Android ABIs shipped with the app
func DefaultNativeTargets() []NativeTarget {
	return []NativeTarget{
		{Triple: "aarch64-linux-android", ABI: "arm64-v8a"},
		{Triple: "armv7-linux-androideabi", ABI: "armeabi-v7a", Clang: "armv7a-linux-androideabi"},
		{Triple: "i686-linux-android", ABI: "x86"},
		{Triple: "x86_64-linux-android", ABI: "x86_64"},
	}
}

// DefaultNativeConfig returns the configuration used when no file is given
func DefaultNativeConfig() NativeConfig {
	return NativeConfig{
		Toolchain: Toolchain{
			URL:      "https://dl.google.com/android/repository/android-ndk-r26d-linux.zip",
			Dir:      ".toolchain",
			Root:     "android-ndk-r26d",
			APILevel: 21,
		},
		Crate: Crate{
			Path:    "kuroba_ex_native",
			LibName: "kuroba_ex_native",
			Profile: "release",
		},
		JNILibs: filepath.Join("app", "src", "main", "jniLibs"),
		Targets: DefaultNativeTargets(),
	}
}

// Validate checks that the configuration can drive a build
func (c NativeConfig) Validate() error {
	switch {
	case c.Toolchain.Dir == "" || c.Toolchain.Root == "":
		return fmt.Errorf("toolchain dir and root are required")
	case c.Toolchain.APILevel <= 0:
		return fmt.Errorf("toolchain api_level must be positive: %d", c.Toolchain.APILevel)
	case c.Crate.Path == "" || c.Crate.LibName == "":
		return fmt.Errorf("crate path and lib_name are required")
	case c.Crate.Profile != "release" && c.Crate.Profile != "debug":
		return fmt.Errorf("crate profile must be release or debug: %q", c.Crate.Profile)
	case c.JNILibs == "":
		return fmt.Errorf("jni_libs is required")
	case len(c.Targets) == 0:
		return fmt.Errorf("at least one target is required")
	}

	for _, t := range c.Targets {
		if t.Triple == "" || t.ABI == "" {
			return fmt.Errorf("target triple and abi are required: %+v", t)
		}
	}
	return nil
}
