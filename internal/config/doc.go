// Package config defines the format-agnostic configuration model for the
// application: the set of build targets declared in build files, along with
// the Loader interface for reading them from various sources.
//
// The `config.Model` is the single source of truth for the `graph` and
// `analyzer` packages. Concrete implementations of the Loader interface,
// such as for HCL, are provided in separate packages.
package config
