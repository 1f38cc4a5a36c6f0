// Package qwenasr provides a Go client for Aliyun DashScope speech
// recognition (Qwen ASR) APIs.
//
// This package implements the qwen3-asr-flash HTTP API for one-shot file
// transcription and the qwen3-asr-flash-realtime WebSocket API for streaming
// transcription.
//
// # Quick Start
//
//	client := qwenasr.NewClient("your-api-key")
//
//	// One-shot transcription of a WAV file
//	result, err := client.Transcription.Recognize(ctx, &qwenasr.TranscribeRequest{
//	    Audio: wavBytes,
//	})
//
//	// Streaming transcription
//	session, err := client.Realtime.Connect(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	session.UpdateSession(&qwenasr.SessionConfig{SampleRate: 16000})
//	session.AppendAudio(pcmBytes)
//	session.CommitInput()
//
//	for event, err := range session.Events() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if event.Type == qwenasr.EventTypeTranscriptionCompleted {
//	        fmt.Println(event.Transcript)
//	        break
//	    }
//	}
//
// # Authentication
//
// Requests authenticate with a DashScope API key and can be pinned to a
// workspace:
//
//	client := qwenasr.NewClient("sk-xxxxxxxx",
//	    qwenasr.WithWorkspace("ws-xxxxxxxx"),
//	)
package qwenasr
