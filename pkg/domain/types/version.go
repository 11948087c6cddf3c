package types

// Version is overwritten at build time via -ldflags "-X github.com/kuroba-ex/shipper/pkg/domain/types.Version=<value>"
var Version = "dev"
