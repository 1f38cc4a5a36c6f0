// Package cli carries the shared plumbing for hearsay command-line tools:
// context-based configuration with per-provider credentials, request file
// loading, output rendering (YAML, JSON, raw), and the terminal UI building
// blocks (framed panels, log capture).
//
// Configuration lives in ~/.hearsay/<app>/ and supports multiple named
// contexts, similar to kubectl:
//
//	cfg, err := cli.LoadConfig("hearsay")
//	ctx, err := cfg.GetCurrentContext()
//
// Results render through Output, to stdout or a file:
//
//	err = cli.Output(result, cli.OutputOptions{Format: cli.FormatJSON})
package cli
