package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/kuroba-ex/shipper/pkg/domain/model"
)

// Asset holds the file uploaded to the release
type Asset struct {
	Path string
	Name string
}

// Flags returns CLI flags for asset configuration
func (c *Asset) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "asset",
			Usage:       "Path of the file attached to the release",
			Required:    true,
			Destination: &c.Path,
			Sources:     cli.EnvVars("SHIPPER_ASSET"),
		},
		&cli.StringFlag{
			Name:        "asset-name",
			Usage:       "Name of the uploaded asset (default: base name of --asset)",
			Destination: &c.Name,
			Sources:     cli.EnvVars("SHIPPER_ASSET_NAME"),
		},
	}
}

// Build checks that the asset exists and returns it
func (c *Asset) Build() (*model.Asset, error) {
	info, err := os.Stat(c.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "asset not found", goerr.V("path", c.Path))
	}
	if info.IsDir() {
		return nil, goerr.New("asset is a directory", goerr.V("path", c.Path))
	}

	return &model.Asset{Path: c.Path, Name: c.Name}, nil
}
