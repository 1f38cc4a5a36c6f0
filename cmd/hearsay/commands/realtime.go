package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hearsay-ai/hearsay/go/pkg/asr"
	"github.com/hearsay-ai/hearsay/go/pkg/audio/pcm"
	"github.com/hearsay-ai/hearsay/go/pkg/cli"
)

var realtimeCmd = &cobra.Command{
	Use:   "realtime",
	Short: "Stream audio through a realtime recognition session",
	Long: `Stream a WAV file through a realtime recognition session.

The audio is decoded, converted to 16kHz mono, split into fixed-size
chunks and pushed over the provider's WebSocket protocol at realtime
pace. Interim transcripts arrive while audio is still being sent; the
final transcript is printed when the stream ends.

Realtime mode drives a single engine; fallback orchestration applies
only to one-shot recognition. qwen and doubao support realtime,
sensevoice does not.

Examples:
  hearsay -c myctx realtime --audio speech.wav
  hearsay -c myctx realtime --audio speech.wav --provider doubao --chunk-ms 200
  hearsay -c myctx realtime --audio s3://recordings/call-0142.wav --tui
  hearsay -c myctx realtime --audio speech.wav --no-pace --json`,
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
		if v, _ := cmd.Flags().GetString("model"); v != "" {
			req.Model = v
		}
		resolveRequest(cliCtx, &req)
		if req.Provider == "" {
			return fmt.Errorf("no provider specified. Use --provider or set one with 'hearsay config add-context --provider'")
		}

		audioFile, _ := cmd.Flags().GetString("audio")
		if audioFile == "" {
			return fmt.Errorf("audio file is required, use --audio")
		}
		chunkMS, _ := cmd.Flags().GetInt("chunk-ms")
		if chunkMS <= 0 {
			chunkMS = 100
		}
		noPace, _ := cmd.Flags().GetBool("no-pace")
		tuiMode, _ := cmd.Flags().GetBool("tui")

		engineCfg, err := buildEngineConfig(cliCtx, req.Provider, asr.ModeRealtime, req.Model)
		if err != nil {
			return err
		}
		engine, err := asr.NewEngine(engineCfg)
		if err != nil {
			return err
		}

		printVerbose("Using context: %s", cliCtx.Name)
		printVerbose("Provider: %s, chunk: %dms", req.Provider, chunkMS)

		reqCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		audio, err := loadWAVMono16k(reqCtx, audioFile)
		if err != nil {
			return err
		}
		printVerbose("Audio: %s (%s, %s)", audioFile, audio.Duration(),
			cli.FormatBytes(int64(len(audio.Samples)*2)))

		pace := time.Duration(chunkMS) * time.Millisecond
		chunkSamples := int(pcm.L16Mono16K.SamplesInDuration(pace))
		if noPace {
			pace = 0
		}

		if tuiMode {
			return runRealtimeTUI(reqCtx, engine, audio.Int16(), chunkSamples, pace, req.Provider)
		}
		return runRealtime(reqCtx, engine, audio.Int16(), chunkSamples, pace)
	},
}

// feedChunks splits samples into fixed-size chunks and delivers them on the
// returned channel, waiting pace between chunks to simulate live capture.
func feedChunks(ctx context.Context, samples []int16, chunkSamples int, pace time.Duration) <-chan []int16 {
	ch := make(chan []int16)
	go func() {
		defer close(ch)
		for start := 0; start < len(samples); start += chunkSamples {
			end := min(start+chunkSamples, len(samples))
			select {
			case ch <- samples[start:end]:
			case <-ctx.Done():
				return
			}
			if pace > 0 && end < len(samples) {
				select {
				case <-time.After(pace):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch
}

func runRealtime(ctx context.Context, engine asr.Engine, samples []int16, chunkSamples int, pace time.Duration) error {
	chunks := feedChunks(ctx, samples, chunkSamples, pace)

	task, stop := asr.StartRealtime(ctx, engine, chunks, func(text string) {
		printVerbose("[interim] %s", text)
	})
	defer stop()

	res := task.Wait()
	if res.Err != nil {
		return fmt.Errorf("realtime recognition failed after %d chunks: %w", res.ChunksSent, res.Err)
	}

	printVerbose("Engine: %s, chunks sent: %d", res.Engine, res.ChunksSent)
	return outputResult(res.Result)
}

func runRealtimeTUI(ctx context.Context, engine asr.Engine, samples []int16, chunkSamples int, pace time.Duration, provider string) error {
	// Route engine logs into the TUI's log section instead of stderr
	logWriter := cli.NewLogWriter(200)
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
	defer slog.SetDefault(prev)

	partialCh := make(chan string, 16)
	chunks := feedChunks(ctx, samples, chunkSamples, pace)
	task, stop := asr.StartRealtime(ctx, engine, chunks, func(text string) {
		// Drop rather than block: the receive goroutine must not stall
		select {
		case partialCh <- text:
		default:
		}
	})
	defer stop()

	model := NewTUIModel(task, stop, partialCh, logWriter, provider)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	stop()
	res := task.Wait()
	if res.Err != nil {
		return fmt.Errorf("realtime recognition failed after %d chunks: %w", res.ChunksSent, res.Err)
	}
	return outputResult(res.Result)
}

func init() {
	realtimeCmd.Flags().String("audio", "", "WAV file to stream (local path or s3:// URI)")
	realtimeCmd.Flags().Int("chunk-ms", 100, "Chunk size in milliseconds")
	realtimeCmd.Flags().Bool("no-pace", false, "Send chunks as fast as possible instead of realtime pace")
	realtimeCmd.Flags().Bool("tui", false, "Show a terminal UI with interim transcripts and logs")
	realtimeCmd.Flags().String("provider", "", "Realtime provider (qwen, doubao)")
	realtimeCmd.Flags().String("model", "", "Model name override")
}
