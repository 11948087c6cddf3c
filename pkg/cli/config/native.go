package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/kuroba-ex/shipper/pkg/domain/model"
)

// Native holds native library build configuration
type Native struct {
	ConfigPath string
	NDKURL     string
	JNILibs    string
}

// Flags returns CLI flags for native build configuration
func (c *Native) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "native-config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML native build configuration (built-in defaults if empty)",
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("SHIPPER_NATIVE_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "ndk-url",
			Usage:       "Override the NDK archive URL",
			Destination: &c.NDKURL,
			Sources:     cli.EnvVars("SHIPPER_NDK_URL"),
		},
		&cli.StringFlag{
			Name:        "jni-libs",
			Usage:       "Override the jniLibs output directory",
			Destination: &c.JNILibs,
			Sources:     cli.EnvVars("SHIPPER_JNI_LIBS"),
		},
	}
}

// Load reads the configuration file, if any, on top of the defaults and
// applies flag overrides
func (c *Native) Load() (model.NativeConfig, error) {
	cfg := model.DefaultNativeConfig()

	if c.ConfigPath != "" {
		raw, err := os.ReadFile(c.ConfigPath)
		if err != nil {
			return model.NativeConfig{}, goerr.Wrap(err, "failed to read native config", goerr.V("path", c.ConfigPath))
		}

		var file model.NativeConfig
		if err := toml.Unmarshal(raw, &file); err != nil {
			return model.NativeConfig{}, goerr.Wrap(err, "failed to parse native config", goerr.V("path", c.ConfigPath))
		}
		cfg = mergeNative(cfg, file)
	}

	if c.NDKURL != "" {
		cfg.Toolchain.URL = c.NDKURL
	}
	if c.JNILibs != "" {
		cfg.JNILibs = c.JNILibs
	}

	if err := cfg.Validate(); err != nil {
		return model.NativeConfig{}, goerr.Wrap(err, "invalid native config", goerr.V("path", c.ConfigPath))
	}
	return cfg, nil
}

// mergeNative overwrites fields of base that are set in file
func mergeNative(base, file model.NativeConfig) model.NativeConfig {
	if file.Toolchain.URL != "" {
		base.Toolchain.URL = file.Toolchain.URL
	}
	if file.Toolchain.Dir != "" {
		base.Toolchain.Dir = file.Toolchain.Dir
	}
	if file.Toolchain.Root != "" {
		base.Toolchain.Root = file.Toolchain.Root
	}
	if file.Toolchain.APILevel != 0 {
		base.Toolchain.APILevel = file.Toolchain.APILevel
	}
	if file.Crate.Path != "" {
		base.Crate.Path = file.Crate.Path
	}
	if file.Crate.LibName != "" {
		base.Crate.LibName = file.Crate.LibName
	}
	if file.Crate.Profile != "" {
		base.Crate.Profile = file.Crate.Profile
	}
	if file.JNILibs != "" {
		base.JNILibs = file.JNILibs
	}
	if len(file.Targets) > 0 {
		base.Targets = file.Targets
	}
	return base
}
