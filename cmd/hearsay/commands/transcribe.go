package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearsay-ai/hearsay/go/pkg/asr"
	"github.com/hearsay-ai/hearsay/go/pkg/audio/pcm"
	"github.com/hearsay-ai/hearsay/go/pkg/cli"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio>",
	Short: "Recognize a complete audio file",
	Long: `Recognize a complete WAV audio file in one shot.

The audio is decoded, converted to 16kHz mono PCM, and sent through the
configured orchestration strategy: the primary provider runs its retry
schedule, then the fallback provider takes over if one is configured.

The audio argument is a local path or an s3://bucket/key URI. S3 access
uses the standard AWS credential chain (environment, shared config).

Examples:
  hearsay -c myctx transcribe speech.wav
  hearsay -c myctx transcribe s3://recordings/call-0142.wav --json
  hearsay -c myctx transcribe speech.wav --provider doubao --fallback sensevoice --strategy race
  hearsay -c myctx transcribe speech.wav -f recognize.yaml -o result.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		var req RecognizeRequest
		if flags.request != "" {
			if err := cli.LoadRequest(flags.request, &req); err != nil {
				return err
			}
		}
		if v, _ := cmd.Flags().GetString("provider"); v != "" {
			req.Provider = v
		}
		if v, _ := cmd.Flags().GetString("fallback"); v != "" {
			req.Fallback = v
		}
		if v, _ := cmd.Flags().GetString("strategy"); v != "" {
			req.Strategy = v
		}
		if v, _ := cmd.Flags().GetString("model"); v != "" {
			req.Model = v
		}
		resolveRequest(cliCtx, &req)
		if noFallback, _ := cmd.Flags().GetBool("no-fallback"); noFallback {
			req.Fallback = ""
		}

		printVerbose("Using context: %s", cliCtx.Name)
		printVerbose("Provider: %s, fallback: %s, strategy: %s", req.Provider, req.Fallback, req.Strategy)

		reqCtx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		audio, err := loadWAVMono16k(reqCtx, args[0])
		if err != nil {
			return err
		}
		printVerbose("Audio: %s (%s)", args[0], audio.Duration())

		return runTranscribe(reqCtx, cliCtx, &req, audio)
	},
}

func runTranscribe(ctx context.Context, cliCtx *cli.Context, req *RecognizeRequest, audio *pcm.Buffer) error {
	cfg, err := buildOrchestrationConfig(cliCtx, req, asr.ModeHTTP)
	if err != nil {
		return err
	}

	strategy, err := newStrategy(req.Strategy, cfg, cliCtx)
	if err != nil {
		return err
	}

	result, err := strategy.Transcribe(ctx, audio)
	if err != nil {
		return err
	}

	if result.UsedFallback {
		printVerbose("Primary engine failed, result produced by fallback")
	}
	printVerbose("Engine: %s, duration: %s", result.Engine, result.Duration.Round(time.Millisecond))

	return outputResult(result)
}

func init() {
	transcribeCmd.Flags().String("provider", "", "Primary provider (qwen, doubao, sensevoice)")
	transcribeCmd.Flags().String("fallback", "", "Fallback provider")
	transcribeCmd.Flags().Bool("no-fallback", false, "Disable the fallback path")
	transcribeCmd.Flags().String("strategy", "", "Orchestration strategy (sequential, parallel, race)")
	transcribeCmd.Flags().String("model", "", "Model name override for the primary provider")
}
