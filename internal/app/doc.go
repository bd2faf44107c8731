// Package app wires the build tool together. It owns the resolved
// configuration, the logger, the loaded declaration and its task graph, and
// drives one executor run, decoupled from any specific entrypoint like a CLI.
package app
