// Package asr orchestrates speech recognition across multiple provider
// engines with retry, fallback and realtime streaming.
//
// Three providers are supported: Qwen (DashScope), Doubao (Volcengine) and
// SenseVoice (SiliconFlow). Each is wrapped behind the Engine interface in
// one-shot HTTP mode, realtime WebSocket mode, or both.
//
// # One-shot transcription
//
//	engine, err := asr.NewEngine(&asr.EngineConfig{
//	    Provider:    asr.ProviderQwen,
//	    Mode:        asr.ModeHTTP,
//	    Credentials: asr.Credentials{APIKey: "sk-xxx"},
//	})
//	text, err := engine.Transcribe(ctx, buf)
//
// Engines make exactly one attempt per call. Retries and engine fallback
// belong to the orchestrators:
//
//	seq := asr.NewSequential(primary, fallback)
//	result, err := seq.Transcribe(ctx, buf)
//
// Sequential exhausts the primary retry schedule before trying the fallback.
// Parallel starts the fallback in the background immediately. Race
// additionally checks the fallback outcome before every primary retry and
// returns early when it already succeeded.
//
// # Realtime streaming
//
//	task, stop := asr.StartRealtime(ctx, engine, chunks, func(text string) {
//	    fmt.Println("partial:", text)
//	})
//	res := task.Wait()
//
// The task converts []int16 chunks to little-endian PCM16, streams them over
// the session, and aborts after five consecutive send failures.
package asr
