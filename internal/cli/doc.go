// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates flags and the settings file into the application's
// configuration and maps run failures to exit codes.
package cli
