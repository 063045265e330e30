package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
gateway:
  base_url: http://localhost:8080
pipeline:
  capital: 10000000
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Pipeline.TopMovers != 30 || c.Pipeline.MaxPositions != 10 {
		t.Fatalf("pipeline defaults not applied: %+v", c.Pipeline)
	}
	if c.Sentiment.MinInterval != 2*time.Second {
		t.Fatalf("expected 2s min interval, got %v", c.Sentiment.MinInterval)
	}
	if c.Screen.ContractionThreshold != 0.7 {
		t.Fatalf("screen defaults not applied: %+v", c.Screen)
	}
	if c.Cache.Backend != "memory" {
		t.Fatalf("expected memory cache default, got %q", c.Cache.Backend)
	}
}

func TestValidateRequiresGatewayAndCapital(t *testing.T) {
	c, err := Load(writeConfig(t, "log:\n  level: info\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation failure without gateway and capital")
	}
}

func TestValidateRejectsUnknownMarket(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML+"  markets: [PRIMARY, OTC]\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected rejection of unknown market")
	}
}

func TestValidateKafkaNeedsBrokers(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML+"kafka:\n  enabled: true\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected broker requirement when kafka enabled")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SENTIMENT_API_KEY", "env-key")
	t.Setenv("CAPITAL", "25000000")

	c, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Sentiment.APIKey != "env-key" {
		t.Fatalf("api key override missed: %q", c.Sentiment.APIKey)
	}
	if c.Pipeline.Capital != 25_000_000 {
		t.Fatalf("capital override missed: %v", c.Pipeline.Capital)
	}
}
