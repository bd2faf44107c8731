// Package config defines the format-agnostic build declaration model and the
// Loader interface for reading it from a concrete format.
//
// The `config.Model` is the single source of truth for the `pipeline`
// package, which turns it into a task graph. Concrete loaders, such as the
// HCL one, live in separate packages.
package config
