package asr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hearsay-ai/hearsay/go/pkg/qwenasr"
	"github.com/hearsay-ai/hearsay/go/pkg/sensevoice"
	"github.com/hearsay-ai/hearsay/go/pkg/volcasr"
)

// ================== Qwen HTTP ==================

func newQwenEngine(t *testing.T, handler http.HandlerFunc) *qwenHTTPEngine {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &qwenHTTPEngine{
		client: qwenasr.NewClient("sk-test", qwenasr.WithHTTPBaseURL(srv.URL)),
	}
}

func TestQwenHTTPEngine_Transcribe(t *testing.T) {
	var gotAuth string
	engine := newQwenEngine(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"request_id":"req-1","output":{"choices":[{"message":{"content":[{"text":"今天天气不错。"}]}}]}}`))
	})

	text, err := engine.Transcribe(context.Background(), testAudio())
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "今天天气不错" {
		t.Errorf("Transcribe() = %q, want 今天天气不错 (尾部标点应被去除)", text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want Bearer sk-test", gotAuth)
	}
}

func TestQwenHTTPEngine_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{
			name:     "invalid api key",
			status:   http.StatusUnauthorized,
			body:     `{"code":"InvalidApiKey","message":"Invalid API-key provided."}`,
			wantKind: KindAuth,
		},
		{
			name:     "throttled",
			status:   http.StatusTooManyRequests,
			body:     `{"code":"Throttling.RateQuota","message":"Requests rate limit exceeded."}`,
			wantKind: KindQuota,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"code":"InternalError","message":"An internal error has occurred."}`,
			wantKind: KindNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newQwenEngine(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := engine.Transcribe(context.Background(), testAudio())
			if err == nil {
				t.Fatal("Transcribe() error = nil, want error")
			}
			if kind := KindOf(err); kind != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v (err: %v)", kind, tt.wantKind, err)
			}
		})
	}
}

// ================== Doubao HTTP（录音文件极速版） ==================

func newDoubaoEngine(t *testing.T, handler http.HandlerFunc) *doubaoHTTPEngine {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &doubaoHTTPEngine{
		client: volcasr.NewClient("app-id", "access-key", volcasr.WithBaseURL(srv.URL)),
	}
}

func TestDoubaoHTTPEngine_Transcribe(t *testing.T) {
	engine := newDoubaoEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Api-Status-Code", "20000000")
		w.Write([]byte(`{"result":{"text":"你好，世界。"}}`))
	})

	text, err := engine.Transcribe(context.Background(), testAudio())
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	// 只去尾部标点，句中的保留
	if text != "你好，世界" {
		t.Errorf("Transcribe() = %q, want 你好，世界", text)
	}
}

func TestDoubaoHTTPEngine_ErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		statusCode string
		wantKind   Kind
	}{
		{"invalid app key", "40100001", KindAuth},
		{"invalid access key", "40100002", KindAuth},
		{"forbidden", "40300001", KindAuth},
		{"quota exceeded", "42900001", KindQuota},
		{"server busy", "55000001", KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newDoubaoEngine(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Api-Status-Code", tt.statusCode)
				w.Header().Set("X-Api-Message", "mock failure")
				w.Write([]byte(`{}`))
			})

			_, err := engine.Transcribe(context.Background(), testAudio())
			if err == nil {
				t.Fatal("Transcribe() error = nil, want error")
			}
			if kind := KindOf(err); kind != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v (err: %v)", kind, tt.wantKind, err)
			}
		})
	}
}

// ================== SenseVoice ==================

func newSenseVoiceEngine(t *testing.T, handler http.HandlerFunc) *senseVoiceEngine {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &senseVoiceEngine{
		client: sensevoice.NewClient("sk-test", sensevoice.WithBaseURL(srv.URL)),
	}
}

func TestSenseVoiceEngine_Transcribe(t *testing.T) {
	engine := newSenseVoiceEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"测试一下。"}`))
	})

	text, err := engine.Transcribe(context.Background(), testAudio())
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "测试一下" {
		t.Errorf("Transcribe() = %q, want 测试一下", text)
	}
}

func TestSenseVoiceEngine_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind Kind
	}{
		{"unauthorized", http.StatusUnauthorized, KindAuth},
		{"rate limited", http.StatusTooManyRequests, KindQuota},
		{"model not found", http.StatusNotFound, KindConfig},
		{"unavailable", http.StatusServiceUnavailable, KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newSenseVoiceEngine(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"message":"mock failure"}`))
			})

			_, err := engine.Transcribe(context.Background(), testAudio())
			if err == nil {
				t.Fatal("Transcribe() error = nil, want error")
			}
			if kind := KindOf(err); kind != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v (err: %v)", kind, tt.wantKind, err)
			}
		})
	}
}
