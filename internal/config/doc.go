// Package config defines the provisioning configuration for hostprep.
//
// [Default] returns the built-in Debian setup. A YAML file (usually
// hostprep.yaml) is decoded on top of the defaults, so it only needs to
// list the values it changes. Environment variables and CLI flags are
// applied last; see [Config.ResolveUser].
package config
