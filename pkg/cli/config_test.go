package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath("hearsay", path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath() error = %v", err)
	}
	return cfg
}

func TestLoadConfigWithPath_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hearsay", "config.yaml")

	cfg, err := LoadConfigWithPath("hearsay", path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath() error = %v", err)
	}
	if cfg.AppName != "hearsay" {
		t.Errorf("AppName = %q, want hearsay", cfg.AppName)
	}
	if cfg.Contexts == nil {
		t.Error("Contexts map not initialized")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if cfg.Dir() != filepath.Dir(path) {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), filepath.Dir(path))
	}
}

func TestContextLifecycle(t *testing.T) {
	cfg := newTestConfig(t)

	err := cfg.AddContext("prod", &Context{
		Qwen:     &KeyCredentials{APIKey: "sk-prod"},
		Provider: "qwen",
	})
	if err != nil {
		t.Fatalf("AddContext() error = %v", err)
	}
	if err := cfg.AddContext("dev", &Context{
		Doubao:   &AppCredentials{AppID: "app-1", AccessKey: "ak-dev"},
		Provider: "doubao",
	}); err != nil {
		t.Fatalf("AddContext() error = %v", err)
	}

	if err := cfg.UseContext("prod"); err != nil {
		t.Fatalf("UseContext() error = %v", err)
	}
	if cfg.CurrentContext != "prod" {
		t.Errorf("CurrentContext = %q, want prod", cfg.CurrentContext)
	}

	ctx, err := cfg.GetCurrentContext()
	if err != nil {
		t.Fatalf("GetCurrentContext() error = %v", err)
	}
	if ctx.Name != "prod" || ctx.Qwen.APIKey != "sk-prod" {
		t.Errorf("current context = %s/%+v, want prod/sk-prod", ctx.Name, ctx.Qwen)
	}

	names := cfg.ListContexts()
	if len(names) != 2 {
		t.Fatalf("ListContexts() = %v, want 2 entries", names)
	}

	// 删除非当前 context 不影响 CurrentContext
	if err := cfg.DeleteContext("dev"); err != nil {
		t.Fatalf("DeleteContext(dev) error = %v", err)
	}
	if cfg.CurrentContext != "prod" {
		t.Errorf("CurrentContext = %q after deleting dev, want prod", cfg.CurrentContext)
	}

	// 删除当前 context 会清空 CurrentContext
	if err := cfg.DeleteContext("prod"); err != nil {
		t.Fatalf("DeleteContext(prod) error = %v", err)
	}
	if cfg.CurrentContext != "" {
		t.Errorf("CurrentContext = %q after deleting prod, want empty", cfg.CurrentContext)
	}
}

func TestContextLookupErrors(t *testing.T) {
	cfg := newTestConfig(t)

	if _, err := cfg.GetContext("missing"); err == nil {
		t.Error("GetContext(missing) succeeded, want error")
	}
	if err := cfg.UseContext("missing"); err == nil {
		t.Error("UseContext(missing) succeeded, want error")
	}
	if err := cfg.DeleteContext("missing"); err == nil {
		t.Error("DeleteContext(missing) succeeded, want error")
	}
	if _, err := cfg.GetCurrentContext(); err == nil {
		t.Error("GetCurrentContext() succeeded with no current context, want error")
	}
}

func TestResolveContext(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.AddContext("a", &Context{Qwen: &KeyCredentials{APIKey: "key-a"}})
	cfg.AddContext("b", &Context{Qwen: &KeyCredentials{APIKey: "key-b"}})
	cfg.UseContext("a")

	ctx, err := cfg.ResolveContext("b")
	if err != nil {
		t.Fatalf("ResolveContext(b) error = %v", err)
	}
	if ctx.Qwen.APIKey != "key-b" {
		t.Errorf("APIKey = %q, want key-b", ctx.Qwen.APIKey)
	}

	ctx, err = cfg.ResolveContext("")
	if err != nil {
		t.Fatalf("ResolveContext(\"\") error = %v", err)
	}
	if ctx.Qwen.APIKey != "key-a" {
		t.Errorf("APIKey = %q, want key-a (current context)", ctx.Qwen.APIKey)
	}
}

func TestConfigPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg1, err := LoadConfigWithPath("hearsay", path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath() error = %v", err)
	}
	cfg1.AddContext("test", &Context{
		Doubao:     &AppCredentials{AppID: "app-1", AccessKey: "secret-key"},
		SenseVoice: &KeyCredentials{APIKey: "sf-key"},
		Provider:   "doubao",
		Fallback:   "sensevoice",
		Strategy:   "race",
		Timeout:    30,
		MaxRetries: 2,
	})
	cfg1.UseContext("test")

	cfg2, err := LoadConfigWithPath("hearsay", path)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if cfg2.CurrentContext != "test" {
		t.Errorf("CurrentContext = %q, want test", cfg2.CurrentContext)
	}

	ctx, err := cfg2.GetContext("test")
	if err != nil {
		t.Fatalf("GetContext() error = %v", err)
	}
	if ctx.Doubao == nil || ctx.Doubao.AppID != "app-1" || ctx.Doubao.AccessKey != "secret-key" {
		t.Errorf("Doubao = %+v, want app-1/secret-key", ctx.Doubao)
	}
	if ctx.SenseVoice == nil || ctx.SenseVoice.APIKey != "sf-key" {
		t.Errorf("SenseVoice = %+v, want sf-key", ctx.SenseVoice)
	}
	if ctx.Provider != "doubao" || ctx.Fallback != "sensevoice" || ctx.Strategy != "race" {
		t.Errorf("routing = %s/%s/%s, want doubao/sensevoice/race", ctx.Provider, ctx.Fallback, ctx.Strategy)
	}
	if ctx.Timeout != 30 || ctx.MaxRetries != 2 {
		t.Errorf("timing = %d/%d, want 30/2", ctx.Timeout, ctx.MaxRetries)
	}
}

func TestContextExtra(t *testing.T) {
	ctx := &Context{Name: "test"}

	if got := ctx.GetExtra("sample_rate"); got != "" {
		t.Errorf("GetExtra on nil map = %q, want empty", got)
	}

	ctx.SetExtra("sample_rate", "16000")
	if got := ctx.GetExtra("sample_rate"); got != "16000" {
		t.Errorf("GetExtra(sample_rate) = %q, want 16000", got)
	}
	if got := ctx.GetExtra("missing"); got != "" {
		t.Errorf("GetExtra(missing) = %q, want empty", got)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"short", "*****"},
		{"eight888", "********"},
		{"abcdefghi", "abcd*fghi"},
		{"sk-a1b2c3d4e5f6g7h8", "sk-a***********g7h8"},
	}

	for _, tt := range tests {
		if got := MaskAPIKey(tt.key); got != tt.want {
			t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
