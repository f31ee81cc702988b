// Package cli parses command-line arguments into the application's
// configuration and defines the error type carrying process exit codes.
package cli
