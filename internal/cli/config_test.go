package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	bindEnv()
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if diff := cmp.Diff(model.DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("FACTCHECK_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("FACTCHECK_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("FACTCHECK_AGENT_TIMEOUT", "45s")
	t.Setenv("FACTCHECK_LLM_BASE_URL", "http://localhost:11434/v1")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("llm.model = %q", cfg.LLM.Model)
	}
	if cfg.Agent.Timeout != 45*time.Second {
		t.Errorf("agent.timeout = %v", cfg.Agent.Timeout)
	}
	if cfg.LLM.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("llm.base_url = %q", cfg.LLM.BaseURL)
	}
}

func TestLoadConfig_File(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "prompt:\n  language: vi\nocr:\n  languages: [vie]\nsession:\n  ttl: 5m\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Prompt.Language != "vi" || cfg.Session.TTL != 5*time.Minute {
		t.Errorf("file values not applied: prompt=%q ttl=%v", cfg.Prompt.Language, cfg.Session.TTL)
	}
	if diff := cmp.Diff([]string{"vie"}, cfg.OCR.Languages); diff != "" {
		t.Errorf("ocr.languages mismatch (-want +got):\n%s", diff)
	}
	// Untouched sections keep their defaults
	if cfg.Server.Addr != ":8501" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".factcheck", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got model.Config
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if diff := cmp.Diff(*model.DefaultConfig(), got); diff != "" {
		t.Errorf("written config mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(string(data), "sk-test") {
		t.Error("config must not contain keys")
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected an error when the file already exists")
	}
}

func TestCredentials_FlagsThenEnv(t *testing.T) {
	t.Setenv(model.EnvLLMKey, "env-llm")
	t.Setenv(model.EnvSearchKey, "env-search")
	t.Cleanup(func() { openAIKey, serpAPIKey = "", "" })

	openAIKey, serpAPIKey = "", ""
	if got := credentials(); got.LLMKey != "env-llm" || got.SearchKey != "env-search" {
		t.Errorf("env fallback = %v", got)
	}

	openAIKey = "flag-llm"
	if got := credentials(); got.LLMKey != "flag-llm" || got.SearchKey != "env-search" {
		t.Errorf("flag precedence = %v", got)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	if got := strings.TrimSpace(out.String()); got != version {
		t.Errorf("version output = %q", got)
	}
}

func TestRootHelp_NamesVerdictLabels(t *testing.T) {
	for _, label := range []string{"TRUE", "FALSE", "UNVERIFIED"} {
		if !strings.Contains(rootCmd.Long, label) {
			t.Errorf("root help missing %s", label)
		}
	}
	if strings.Contains(rootCmd.Long, "AMBIGUOUS") {
		t.Error("root help names a conclusion the prompt never asks for")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this claim is too long", 10, "this cl..."},
		{"Giá vàng tăng mạnh hôm nay", 10, "Giá vàn..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
