package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hearsay-ai/hearsay/go/pkg/asr"
	"github.com/hearsay-ai/hearsay/go/pkg/audio/pcm"
	"github.com/hearsay-ai/hearsay/go/pkg/audio/resampler"
	"github.com/hearsay-ai/hearsay/go/pkg/cli"
	"github.com/hearsay-ai/hearsay/go/pkg/storage"
)

// RecognizeRequest is the optional request file for recognition commands.
// Flags take precedence over file values, which take precedence over the
// context's defaults.
//
// Example request file (recognize.yaml):
//
//	provider: doubao
//	fallback: sensevoice
//	strategy: race
//	model: bigmodel
type RecognizeRequest struct {
	// Provider is the primary recognition provider.
	Provider string `yaml:"provider" json:"provider"`

	// Fallback is the fallback provider (empty disables fallback).
	Fallback string `yaml:"fallback" json:"fallback"`

	// Strategy selects the orchestration strategy.
	Strategy string `yaml:"strategy" json:"strategy"`

	// Model overrides the provider's default model name.
	Model string `yaml:"model" json:"model"`
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveRequest merges the optional request file with context defaults.
// Flag values are already folded into req by the caller.
func resolveRequest(cliCtx *cli.Context, req *RecognizeRequest) {
	req.Provider = firstNonEmpty(req.Provider, cliCtx.Provider)
	req.Fallback = firstNonEmpty(req.Fallback, cliCtx.Fallback)
	req.Strategy = firstNonEmpty(req.Strategy, cliCtx.Strategy)
}

// credentialsFor maps a provider name to the credentials configured on the
// context.
func credentialsFor(cliCtx *cli.Context, provider asr.Provider) (asr.Credentials, error) {
	switch provider {
	case asr.ProviderQwen:
		if cliCtx.Qwen == nil {
			return asr.Credentials{}, fmt.Errorf("qwen credentials not configured, run: hearsay config add-context")
		}
		return asr.Credentials{APIKey: cliCtx.Qwen.APIKey}, nil
	case asr.ProviderDoubao:
		if cliCtx.Doubao == nil {
			return asr.Credentials{}, fmt.Errorf("doubao credentials not configured, run: hearsay config add-context")
		}
		return asr.Credentials{AppID: cliCtx.Doubao.AppID, AccessKey: cliCtx.Doubao.AccessKey}, nil
	case asr.ProviderSenseVoice:
		if cliCtx.SenseVoice == nil {
			return asr.Credentials{}, fmt.Errorf("sensevoice credentials not configured, run: hearsay config add-context")
		}
		return asr.Credentials{APIKey: cliCtx.SenseVoice.APIKey}, nil
	}
	return asr.Credentials{}, fmt.Errorf("unknown provider %q", provider)
}

// buildEngineConfig assembles one engine's config from the context.
func buildEngineConfig(cliCtx *cli.Context, providerName string, mode asr.Mode, model string) (*asr.EngineConfig, error) {
	provider, err := asr.ParseProvider(providerName)
	if err != nil {
		return nil, err
	}
	creds, err := credentialsFor(cliCtx, provider)
	if err != nil {
		return nil, err
	}
	return &asr.EngineConfig{
		Provider:    provider,
		Mode:        mode,
		Credentials: creds,
		Model:       model,
	}, nil
}

// buildOrchestrationConfig assembles the orchestration config from the
// resolved request. An empty fallback disables the fallback path.
func buildOrchestrationConfig(cliCtx *cli.Context, req *RecognizeRequest, mode asr.Mode) (*asr.Config, error) {
	if req.Provider == "" {
		return nil, fmt.Errorf("no provider specified. Use --provider or set one with 'hearsay config add-context --provider'")
	}

	primary, err := buildEngineConfig(cliCtx, req.Provider, mode, req.Model)
	if err != nil {
		return nil, err
	}

	cfg := &asr.Config{Primary: *primary}
	if req.Fallback != "" {
		if req.Fallback == req.Provider {
			return nil, fmt.Errorf("fallback provider must differ from primary (%s)", req.Provider)
		}
		// 备用引擎不继承主引擎的 model 覆盖
		fallback, err := buildEngineConfig(cliCtx, req.Fallback, mode, "")
		if err != nil {
			return nil, err
		}
		cfg.Fallback = fallback
		cfg.EnableFallback = true
	}
	return cfg, nil
}

// newStrategy builds the orchestration strategy, applying the context's
// retry overrides when present.
func newStrategy(name string, cfg *asr.Config, cliCtx *cli.Context) (asr.Strategy, error) {
	policy := asr.DefaultRetryPolicy()
	if cliCtx.MaxRetries > 0 {
		policy.MaxRetries = cliCtx.MaxRetries
	}
	if cliCtx.Timeout > 0 {
		policy.AttemptTimeout = time.Duration(cliCtx.Timeout) * time.Second
	}

	switch name {
	case "sequential", "":
		s, err := asr.NewSequentialFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return s.WithRetryPolicy(policy), nil
	case "parallel":
		s, err := asr.NewParallelFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return s.WithRetryPolicy(policy), nil
	case "race":
		s, err := asr.NewRaceFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return s.WithRetryPolicy(policy), nil
	}
	return nil, fmt.Errorf("unknown strategy %q (want sequential, parallel or race)", name)
}

// parseS3URI splits an s3://bucket/key URI.
func parseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 URI: %s", uri)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 URI (want s3://bucket/key): %s", uri)
	}
	return bucket, key, nil
}

// s3Store builds an S3-backed store for one bucket using ambient AWS
// credentials.
func s3Store(ctx context.Context, bucket string) (*storage.S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return storage.NewS3(s3.NewFromConfig(awsCfg), bucket, ""), nil
}

// readAudioInput reads audio bytes from a local path or an s3:// URI.
func readAudioInput(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "s3://") {
		return os.ReadFile(path)
	}

	bucket, key, err := parseS3URI(path)
	if err != nil {
		return nil, err
	}
	store, err := s3Store(ctx, bucket)
	if err != nil {
		return nil, err
	}

	rc, err := store.Read(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// writeS3Output renders result and uploads it to an s3:// destination. The
// render happens first so a marshal failure never leaves a truncated object
// behind.
func writeS3Output(ctx context.Context, result any, uri string, format cli.OutputFormat) error {
	var buf bytes.Buffer
	if err := cli.Output(result, cli.OutputOptions{Format: format, Writer: &buf}); err != nil {
		return err
	}

	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return err
	}
	store, err := s3Store(ctx, bucket)
	if err != nil {
		return err
	}

	w, err := store.Write(ctx, key)
	if err != nil {
		return fmt.Errorf("write %s: %w", uri, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", uri, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write %s: %w", uri, err)
	}
	return nil
}

// loadWAVMono16k decodes a WAV file and converts it to 16kHz mono, the
// format every recognition provider accepts.
func loadWAVMono16k(ctx context.Context, path string) (*pcm.Buffer, error) {
	data, err := readAudioInput(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	buf, err := pcm.DecodeWAV(data)
	if err != nil {
		return nil, fmt.Errorf("decode WAV: %w", err)
	}

	if buf.SampleRate == 16000 && buf.Channels == 1 {
		return buf, nil
	}
	if buf.Channels > 2 {
		return nil, fmt.Errorf("unsupported channel count: %d", buf.Channels)
	}

	printVerbose("Resampling %dHz/%dch to 16000Hz mono", buf.SampleRate, buf.Channels)

	rs, err := resampler.New(
		bytes.NewReader(buf.Bytes()),
		resampler.Format{SampleRate: buf.SampleRate, Stereo: buf.Channels == 2},
		resampler.Format{SampleRate: 16000},
	)
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}
	defer rs.Close()

	out, err := io.ReadAll(rs)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	return pcm.FromBytes(out, 16000, 1), nil
}
