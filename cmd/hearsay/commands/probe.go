package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearsay-ai/hearsay/go/pkg/asr"
	"github.com/hearsay-ai/hearsay/go/pkg/audio/pcm"
	"github.com/hearsay-ai/hearsay/go/pkg/cli"
)

type probeResult struct {
	Provider  string `yaml:"provider" json:"provider"`
	OK        bool   `yaml:"ok" json:"ok"`
	LatencyMS int64  `yaml:"latency_ms" json:"latency_ms"`
	Error     string `yaml:"error,omitempty" json:"error,omitempty"`
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check provider connectivity and credentials",
	Long: `Check that configured providers are reachable and the stored
credentials are accepted.

Realtime providers are probed by opening (and immediately tearing down)
a streaming session. sensevoice has no streaming endpoint, so it is
probed with a short one-shot request instead.

Without --provider, every provider with credentials in the current
context is probed.

Examples:
  hearsay -c myctx probe
  hearsay -c myctx probe --provider doubao
  hearsay -c myctx probe --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		var providers []string
		if v, _ := cmd.Flags().GetString("provider"); v != "" {
			providers = []string{v}
		} else {
			providers = configuredProviders(cliCtx)
		}
		if len(providers) == 0 {
			return fmt.Errorf("no providers configured, run: hearsay config add-context")
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		results := make([]probeResult, 0, len(providers))
		failed := 0
		for _, name := range providers {
			res := probeProvider(reqCtx, cliCtx, name)
			results = append(results, res)
			if res.OK {
				cli.PrintSuccess("%s: ok (%dms)", res.Provider, res.LatencyMS)
			} else {
				failed++
				cli.PrintError("%s: %s", res.Provider, res.Error)
			}
		}

		if flags.json || flags.output != "" {
			if err := outputResult(results); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d providers failed", failed, len(providers))
		}
		return nil
	},
}

// configuredProviders returns the providers the context has credentials for,
// in a stable order.
func configuredProviders(cliCtx *cli.Context) []string {
	var out []string
	if cliCtx.Qwen != nil {
		out = append(out, "qwen")
	}
	if cliCtx.Doubao != nil {
		out = append(out, "doubao")
	}
	if cliCtx.SenseVoice != nil {
		out = append(out, "sensevoice")
	}
	return out
}

func probeProvider(ctx context.Context, cliCtx *cli.Context, name string) probeResult {
	res := probeResult{Provider: name}

	mode := asr.ModeRealtime
	if name == string(asr.ProviderSenseVoice) {
		mode = asr.ModeHTTP
	}
	cfg, err := buildEngineConfig(cliCtx, name, mode, "")
	if err != nil {
		res.Error = err.Error()
		return res
	}
	engine, err := asr.NewEngine(cfg)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	start := time.Now()
	if mode == asr.ModeHTTP {
		// 160ms 静音，只验证鉴权与连通性，空文本也算通过
		n := pcm.L16Mono16K.SamplesInDuration(160 * time.Millisecond)
		silence := pcm.NewBuffer(make([]float32, n), 16000, 1)
		if _, err := engine.Transcribe(ctx, silence); err != nil {
			res.Error = err.Error()
			return res
		}
	} else {
		sessCtx, cancel := context.WithCancel(ctx)
		session, err := engine.OpenRealtimeSession(sessCtx)
		if err != nil {
			cancel()
			res.Error = err.Error()
			return res
		}
		res.LatencyMS = time.Since(start).Milliseconds()
		// 会话能建立即视为通过，取消上下文走快速拆除路径
		cancel()
		_, _ = session.Close(sessCtx)
		res.OK = true
		return res
	}

	res.LatencyMS = time.Since(start).Milliseconds()
	res.OK = true
	return res
}

func init() {
	probeCmd.Flags().String("provider", "", "Probe a single provider (qwen, doubao, sensevoice)")
}
