// Package image builds container images from a recipe file and a build
// context by invoking the container engine CLI through a process.Runner.
//
// A build never starts unless the artifact it packages exists. Engine
// failures are reported verbatim as *process.ExternalToolError and are not
// retried.
package image
