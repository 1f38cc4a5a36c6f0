// Package sensevoice provides a Go client for SenseVoice speech recognition
// served through the SiliconFlow API.
//
// # Quick Start
//
//	client := sensevoice.NewClient("your-api-key")
//	result, err := client.Transcription.Recognize(ctx, &sensevoice.TranscribeRequest{
//	    Audio: wavBytes,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Text)
//
// The API is OpenAI-compatible: audio is uploaded as a multipart form to
// /v1/audio/transcriptions with Bearer authentication.
package sensevoice
