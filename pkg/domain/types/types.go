package types

// Version is the application version, overridden at build time via
// -ldflags "-X github.com/traackr/relver/pkg/domain/types.Version=...".
var Version = "v0.1.0"
