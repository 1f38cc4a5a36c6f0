package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hearsay-ai/hearsay/go/pkg/cli"
)

const appName = "hearsay"

// Persistent flag values. Bound once in init, read by every subcommand.
var flags struct {
	configFile string
	context    string
	output     string
	request    string
	json       bool
	verbose    bool
}

var (
	globalConfig  *cli.Config
	configLoadErr error
)

var rootCmd = &cobra.Command{
	Use:   "hearsay",
	Short: "Multi-provider speech recognition CLI",
	Long: `hearsay - A command line interface for multi-provider speech recognition.

This tool recognizes speech through qwen (DashScope), doubao (Volcengine)
and sensevoice (SiliconFlow), with retry and fallback orchestration:
  - transcribe: one-shot recognition of a complete audio file
  - realtime:   streaming recognition over WebSocket
  - probe:      connectivity and credential check

Configuration is stored in ~/.hearsay/hearsay/ and supports multiple contexts,
similar to kubectl's context management.

Examples:
  # Set up a new context
  hearsay config add-context myctx --qwen-api-key sk-xxxxx --provider qwen

  # Transcribe a WAV file
  hearsay -c myctx transcribe speech.wav

  # Stream a WAV file through a realtime session
  hearsay -c myctx realtime --audio speech.wav --tui
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default is ~/.hearsay/hearsay/config.yaml)")
	pf.StringVarP(&flags.context, "context", "c", "", "configuration context")
	pf.StringVarP(&flags.output, "output", "o", "", "write the result to a file or s3:// URI instead of stdout")
	pf.StringVarP(&flags.request, "file", "f", "", "request file with recognition parameters (YAML or JSON)")
	pf.BoolVar(&flags.json, "json", false, "print the result as JSON")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(configCmd, transcribeCmd, realtimeCmd, probeCmd)
}

func initConfig() {
	// Engine internals log through slog at debug level; keep normal runs quiet.
	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	globalConfig, configLoadErr = cli.LoadConfigWithPath(appName, flags.configFile)
	if configLoadErr != nil {
		// 配置损坏时不直接退出，help 等不读配置的命令仍可运行
		fmt.Fprintf(os.Stderr, "Warning: %s config: %v\n", appName, configLoadErr)
	}
}

// requireConfig hands subcommands the configuration loaded at startup.
// A failed load surfaces here as the command's error rather than a nil
// dereference deep inside it.
func requireConfig() (*cli.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, configLoadErr
		}
		return nil, fmt.Errorf("configuration not initialized")
	}
	return globalConfig, nil
}

// getContext resolves the context selected by -c, or the config default.
func getContext() (*cli.Context, error) {
	cfg, err := requireConfig()
	if err != nil {
		return nil, err
	}
	ctx, err := cfg.ResolveContext(flags.context)
	if err != nil && flags.context == "" {
		return nil, fmt.Errorf("no context selected: pass -c or run 'hearsay config use-context'")
	}
	return ctx, err
}

// outputResult renders result to the -o destination, YAML unless --json is
// set. Destinations starting with s3:// upload to object storage instead of
// the local filesystem.
func outputResult(result any) error {
	format := cli.FormatYAML
	if flags.json {
		format = cli.FormatJSON
	}
	if strings.HasPrefix(flags.output, "s3://") {
		return writeS3Output(context.Background(), result, flags.output, format)
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   flags.output,
	})
}

func printVerbose(format string, args ...any) {
	cli.PrintVerbose(flags.verbose, format, args...)
}
