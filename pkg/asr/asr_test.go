package asr

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"http", ModeHTTP, false},
		{"realtime", ModeRealtime, false},
		{"websocket", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMode_String(t *testing.T) {
	if got := ModeHTTP.String(); got != "http" {
		t.Errorf("ModeHTTP.String() = %q, want %q", got, "http")
	}
	if got := ModeRealtime.String(); got != "realtime" {
		t.Errorf("ModeRealtime.String() = %q, want %q", got, "realtime")
	}
}

func TestMode_UnmarshalText(t *testing.T) {
	var m Mode
	if err := m.UnmarshalText([]byte("realtime")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if m != ModeRealtime {
		t.Errorf("m = %v, want ModeRealtime", m)
	}
	if err := m.UnmarshalText([]byte("grpc")); err == nil {
		t.Error("UnmarshalText(grpc) err = nil, want error")
	}
}

func TestParseProvider(t *testing.T) {
	for _, name := range []string{"qwen", "doubao", "sensevoice"} {
		p, err := ParseProvider(name)
		if err != nil {
			t.Errorf("ParseProvider(%q): %v", name, err)
		}
		if string(p) != name {
			t.Errorf("ParseProvider(%q) = %q", name, p)
		}
	}
	if _, err := ParseProvider("whisper"); err == nil {
		t.Error("ParseProvider(whisper) err = nil, want error")
	}
}

func TestTranscriptionResult_MarshalJSON(t *testing.T) {
	r := &TranscriptionResult{
		Text:         "你好世界",
		Engine:       "qwen",
		UsedFallback: true,
		Duration:     1500 * time.Millisecond,
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"duration_ms":1500,"engine":"qwen","text":"你好世界","used_fallback":true}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}
