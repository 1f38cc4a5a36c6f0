package qwenasr_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hearsay-ai/hearsay/go/pkg/qwenasr"
)

func newFakeRealtimeServer(t *testing.T, script func(t *testing.T, conn *websocket.Conn)) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); !strings.HasPrefix(auth, "Bearer ") {
			t.Errorf("Authorization = %q, want Bearer prefix", auth)
		}
		if beta := r.Header.Get("OpenAI-Beta"); beta != "realtime=v1" {
			t.Errorf("OpenAI-Beta = %q, want realtime=v1", beta)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		script(t, conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var event map[string]json.RawMessage
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("server read: %v", err)
	}
	return event
}

func eventType(event map[string]json.RawMessage) string {
	var typ string
	json.Unmarshal(event["type"], &typ)
	return typ
}

func writeEvent(t *testing.T, conn *websocket.Conn, event map[string]any) {
	t.Helper()

	if err := conn.WriteJSON(event); err != nil {
		t.Fatalf("server write: %v", err)
	}
}

func TestRealtimeSession(t *testing.T) {
	chunk := []byte{0x01, 0x02, 0x03, 0x04}

	wsURL := newFakeRealtimeServer(t, func(t *testing.T, conn *websocket.Conn) {
		update := readEvent(t, conn)
		if got := eventType(update); got != qwenasr.EventTypeSessionUpdate {
			t.Errorf("first event type = %q, want session.update", got)
		}
		var session map[string]json.RawMessage
		if err := json.Unmarshal(update["session"], &session); err != nil {
			t.Fatalf("session payload: %v", err)
		}
		if string(session["input_audio_format"]) != `"pcm"` {
			t.Errorf("input_audio_format = %s, want \"pcm\"", session["input_audio_format"])
		}
		if string(session["sample_rate"]) != "16000" {
			t.Errorf("sample_rate = %s, want 16000", session["sample_rate"])
		}
		// 关闭服务端 VAD 必须显式发送 null
		raw, present := session["turn_detection"]
		if !present || string(raw) != "null" {
			t.Errorf("turn_detection = %s (present=%v), want explicit null", raw, present)
		}
		writeEvent(t, conn, map[string]any{
			"type":    qwenasr.EventTypeSessionCreated,
			"session": map[string]any{"id": "sess-1"},
		})

		appendEvent := readEvent(t, conn)
		if got := eventType(appendEvent); got != qwenasr.EventTypeInputAudioAppend {
			t.Errorf("second event type = %q, want input_audio_buffer.append", got)
		}
		var audioB64 string
		json.Unmarshal(appendEvent["audio"], &audioB64)
		decoded, err := base64.StdEncoding.DecodeString(audioB64)
		if err != nil || string(decoded) != string(chunk) {
			t.Errorf("audio = %v (err=%v), want %v", decoded, err, chunk)
		}

		commit := readEvent(t, conn)
		if got := eventType(commit); got != qwenasr.EventTypeInputAudioCommit {
			t.Errorf("third event type = %q, want input_audio_buffer.commit", got)
		}

		writeEvent(t, conn, map[string]any{
			"type":  qwenasr.EventTypeResponseTranscriptDelta,
			"delta": "今天",
		})
		writeEvent(t, conn, map[string]any{
			"type":       qwenasr.EventTypeResponseTranscriptDone,
			"transcript": "今天天气不错",
		})
		writeEvent(t, conn, map[string]any{
			"type": qwenasr.EventTypeResponseDone,
		})
	})

	client := qwenasr.NewClient("sk-test", qwenasr.WithBaseURL(wsURL))
	session, err := client.Realtime.Connect(context.Background(), nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer session.Close()

	if err := session.UpdateSession(&qwenasr.SessionConfig{}); err != nil {
		t.Fatalf("UpdateSession() error = %v", err)
	}
	if err := session.AppendAudio(chunk); err != nil {
		t.Fatalf("AppendAudio() error = %v", err)
	}
	if err := session.CommitInput(); err != nil {
		t.Fatalf("CommitInput() error = %v", err)
	}

	var types []string
	var transcript string
	for event, err := range session.Events() {
		if err != nil {
			t.Fatalf("Events() error = %v", err)
		}
		types = append(types, event.Type)
		if event.Transcript != "" {
			transcript = event.Transcript
		}
		if event.Type == qwenasr.EventTypeResponseDone {
			break
		}
	}

	want := []string{
		qwenasr.EventTypeSessionCreated,
		qwenasr.EventTypeResponseTranscriptDelta,
		qwenasr.EventTypeResponseTranscriptDone,
		qwenasr.EventTypeResponseDone,
	}
	if len(types) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(types), types, len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, types[i], want[i])
		}
	}
	if transcript != "今天天气不错" {
		t.Errorf("transcript = %q, want 今天天气不错", transcript)
	}
	if session.SessionID() != "sess-1" {
		t.Errorf("SessionID() = %q, want sess-1", session.SessionID())
	}
}

func TestRealtimeSession_ErrorEvent(t *testing.T) {
	wsURL := newFakeRealtimeServer(t, func(t *testing.T, conn *websocket.Conn) {
		readEvent(t, conn) // session.update
		writeEvent(t, conn, map[string]any{
			"type": "error",
			"error": map[string]any{
				"type":    "invalid_request_error",
				"code":    "InvalidParameter",
				"message": "unsupported sample rate",
			},
		})
	})

	client := qwenasr.NewClient("sk-test", qwenasr.WithBaseURL(wsURL))
	session, err := client.Realtime.Connect(context.Background(), nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer session.Close()

	if err := session.UpdateSession(&qwenasr.SessionConfig{}); err != nil {
		t.Fatalf("UpdateSession() error = %v", err)
	}

	var gotErr error
	for _, err := range session.Events() {
		if err != nil {
			gotErr = err
			break
		}
	}
	if gotErr == nil {
		t.Fatal("Events() yielded no error, want API error")
	}
	apiErr, ok := qwenasr.AsError(gotErr)
	if !ok {
		t.Fatalf("error %v is not a *qwenasr.Error", gotErr)
	}
	if apiErr.Code != "InvalidParameter" {
		t.Errorf("Code = %q, want InvalidParameter", apiErr.Code)
	}
}
