package volcasr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newFakeStreamServer upgrades the connection and hands it to script.
// The returned URL is ready for WithWebSocketURL.
func newFakeStreamServer(t *testing.T, script func(t *testing.T, conn *websocket.Conn)) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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

func readFrame(t *testing.T, conn *websocket.Conn) *message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	typ, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	if typ != websocket.BinaryMessage {
		t.Fatalf("server read message type = %d, want binary", typ)
	}
	msg, err := unmarshalMessage(data)
	if err != nil {
		t.Fatalf("server unmarshal: %v", err)
	}
	return msg
}

func writeResult(t *testing.T, conn *websocket.Conn, text string, seq int32, last bool) {
	t.Helper()

	payload, _ := json.Marshal(map[string]any{"result": map[string]any{"text": text}})
	flags := msgFlagPosSequence
	if last {
		flags |= msgFlagLastPacket
	}
	frame, err := (&message{
		msgType:       msgTypeFullServer,
		flags:         flags,
		serialization: serializationJSON,
		compression:   compressionNone,
		sequence:      seq,
		payload:       payload,
	}).marshal()
	if err != nil {
		t.Fatalf("server marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		t.Fatalf("server write: %v", err)
	}
}

func TestStreamSession(t *testing.T) {
	chunk1 := []byte{0x01, 0x02}
	chunk2 := []byte{0x03, 0x04}

	wsURL := newFakeStreamServer(t, func(t *testing.T, conn *websocket.Conn) {
		config := readFrame(t, conn)
		if config.msgType != msgTypeFullClient {
			t.Errorf("config frame type = %#x, want full-client", config.msgType)
		}
		if config.sequence != 1 {
			t.Errorf("config sequence = %d, want 1", config.sequence)
		}
		if config.compression != compressionGzip {
			t.Errorf("config compression = %d, want gzip", config.compression)
		}
		var body struct {
			User struct {
				UID string `json:"uid"`
			} `json:"user"`
			Audio struct {
				Format string `json:"format"`
				Rate   int    `json:"rate"`
			} `json:"audio"`
		}
		if err := json.Unmarshal(config.payload, &body); err != nil {
			t.Errorf("config payload: %v", err)
		}
		if body.User.UID != "app-1" {
			t.Errorf("config user.uid = %q, want app-1", body.User.UID)
		}
		if body.Audio.Format != "pcm" || body.Audio.Rate != 16000 {
			t.Errorf("config audio = %q/%d, want pcm/16000", body.Audio.Format, body.Audio.Rate)
		}
		writeResult(t, conn, "", 1, false) // 握手确认

		first := readFrame(t, conn)
		if first.sequence != 2 {
			t.Errorf("first audio sequence = %d, want 2", first.sequence)
		}
		if string(first.payload) != string(chunk1) {
			t.Errorf("first audio payload = %v, want %v", first.payload, chunk1)
		}
		writeResult(t, conn, "今天", 2, false)

		second := readFrame(t, conn)
		if second.sequence != 3 {
			t.Errorf("second audio sequence = %d, want 3", second.sequence)
		}

		finish := readFrame(t, conn)
		if finish.sequence != -4 {
			t.Errorf("finish sequence = %d, want -4", finish.sequence)
		}
		if !finish.isLast() {
			t.Error("finish frame should carry the last-packet flag")
		}
		writeResult(t, conn, "今天天气不错", 3, true)
	})

	client := NewClient("app-1", "key-1", WithWebSocketURL(wsURL))
	session, err := client.Stream.Open(context.Background(), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer session.Close()

	ctx := context.Background()
	if err := session.SendAudio(ctx, chunk1); err != nil {
		t.Fatalf("SendAudio() error = %v", err)
	}
	if err := session.SendAudio(ctx, chunk2); err != nil {
		t.Fatalf("SendAudio() error = %v", err)
	}
	if err := session.Finish(ctx); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	var results []*StreamResult
	for result, err := range session.Recv() {
		if err != nil {
			t.Fatalf("Recv() error = %v", err)
		}
		results = append(results, result)
		if result.IsFinal {
			break
		}
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Text != "今天" || results[0].IsFinal {
		t.Errorf("partial = %q/final=%v, want 今天/false", results[0].Text, results[0].IsFinal)
	}
	if results[1].Text != "今天天气不错" || !results[1].IsFinal {
		t.Errorf("final = %q/final=%v, want 今天天气不错/true", results[1].Text, results[1].IsFinal)
	}
}

func TestStreamSession_ServerError(t *testing.T) {
	wsURL := newFakeStreamServer(t, func(t *testing.T, conn *websocket.Conn) {
		readFrame(t, conn)                 // config
		writeResult(t, conn, "", 1, false) // 握手确认

		frame := []byte{0x11, 0xf0, 0x00, 0x00, 0x02, 0xae, 0xa5, 0x41}
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			t.Errorf("server write: %v", err)
		}
	})

	client := NewClient("app-1", "key-1", WithWebSocketURL(wsURL))
	session, err := client.Stream.Open(context.Background(), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer session.Close()

	var recvErr error
	for _, err := range session.Recv() {
		if err != nil {
			recvErr = err
			break
		}
	}
	if recvErr == nil {
		t.Fatal("Recv() yielded no error, want wire error")
	}
	apiErr, ok := AsError(recvErr)
	if !ok {
		t.Fatalf("error %v is not a *Error", recvErr)
	}
	if apiErr.StatusCode != fmt.Sprintf("%d", 45000001) {
		t.Errorf("StatusCode = %q, want 45000001", apiErr.StatusCode)
	}
}

func TestStreamOpen_DialRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no websocket here", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client := NewClient("app-1", "key-1", WithWebSocketURL(wsURL))
	if _, err := client.Stream.Open(context.Background(), nil); err == nil {
		t.Fatal("Open() succeeded against a non-websocket server, want error")
	}
}
