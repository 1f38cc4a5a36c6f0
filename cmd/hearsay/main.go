// Package main provides the hearsay CLI tool.
//
// Usage:
//
//	hearsay [flags] <command> [args]
//
// Commands:
//
//	transcribe - Recognize a complete audio file
//	realtime   - Stream audio through a realtime recognition session
//	probe      - Verify provider credentials and connectivity
//	config     - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.hearsay/hearsay/
//	Use 'hearsay config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/hearsay-ai/hearsay/go/cmd/hearsay/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
