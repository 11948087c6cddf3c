package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/kuroba-ex/shipper/pkg/cli/config"
	"github.com/kuroba-ex/shipper/pkg/infra/command"
	"github.com/kuroba-ex/shipper/pkg/infra/toolchain"
	"github.com/kuroba-ex/shipper/pkg/usecase"
)

func cmdNative() *cli.Command {
	var nativeCfg config.Native

	return &cli.Command{
		Name:    "native",
		Aliases: []string{"n"},
		Usage:   "Build native libraries for every Android ABI and copy them into jniLibs",
		Flags:   nativeCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := nativeCfg.Load()
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Starting native build",
				"crate", cfg.Crate.Path,
				"targets", len(cfg.Targets),
				"jni_libs", cfg.JNILibs,
			)

			nativeUC := usecase.NewNative(command.New(), toolchain.New())
			if err := nativeUC.Build(ctx, cfg); err != nil {
				return err
			}

			w := c.Root().Writer
			for _, target := range cfg.Targets {
				color.New(color.FgGreen).Fprintf(w, "%-12s %s\n", target.ABI, cfg.Crate.LibraryFile())
			}
			return nil
		},
	}
}
