package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Width != 720 || cfg.Height != 1280 {
		t.Errorf("resolution = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.ImageSeconds != 4.0 {
		t.Errorf("ImageSeconds = %v", cfg.ImageSeconds)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "addr: \":9000\"\nwidth: 1080\nheight: 1920\ntts_base_url: http://tts.internal:5002\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHOPREEL_ADDR", ":7000")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("env override lost, Addr = %q", cfg.Addr)
	}
	if cfg.Width != 1080 || cfg.Height != 1920 {
		t.Errorf("resolution = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.TTSBaseURL != "http://tts.internal:5002" {
		t.Errorf("TTSBaseURL = %q", cfg.TTSBaseURL)
	}
	if cfg.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q", cfg.OpenAIKey)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("width: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("negative width accepted")
	}

	if err := os.WriteFile(path, []byte("not: [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml accepted")
	}
}
