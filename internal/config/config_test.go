package config

import (
	"testing"
	"time"
)

func TestLoadIncludesPipelineDefaults(t *testing.T) {
	t.Setenv("CONFIDENCE_THRESHOLD", "")
	t.Setenv("OCR_CONFIDENCE_THRESHOLD", "")
	t.Setenv("MIN_TEXT_LENGTH", "")
	t.Setenv("MAX_FILE_SIZE", "")
	t.Setenv("EVAL_WAIT_TIMEOUT", "")
	t.Setenv("EVAL_POLL_INTERVAL", "")

	cfg := Load()
	if cfg.ConfidenceThreshold != 0.8 {
		t.Fatalf("expected default confidence threshold 0.8, got %v", cfg.ConfidenceThreshold)
	}
	if cfg.OCRConfidenceThreshold != 0.95 {
		t.Fatalf("expected default ocr threshold 0.95, got %v", cfg.OCRConfidenceThreshold)
	}
	if cfg.MinTextLength != 10 {
		t.Fatalf("expected default min text length 10, got %d", cfg.MinTextLength)
	}
	if cfg.MaxFileSize != 20<<20 {
		t.Fatalf("expected default max file size 20 MiB, got %d", cfg.MaxFileSize)
	}
	if cfg.EvalWaitTimeout != 5*time.Minute {
		t.Fatalf("expected default eval wait 5m, got %v", cfg.EvalWaitTimeout)
	}
	if cfg.EvalPollInterval != 5*time.Second {
		t.Fatalf("expected default eval poll 5s, got %v", cfg.EvalPollInterval)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CONFIDENCE_THRESHOLD", "0.65")
	t.Setenv("MODEL_ID", "custom-model")
	t.Setenv("EVAL_WAIT_TIMEOUT", "90s")
	t.Setenv("OCR_REQUESTS_PER_SECOND", "5")

	cfg := Load()
	if cfg.ConfidenceThreshold != 0.65 {
		t.Fatalf("expected confidence threshold override, got %v", cfg.ConfidenceThreshold)
	}
	if cfg.ModelID != "custom-model" {
		t.Fatalf("expected model id override, got %q", cfg.ModelID)
	}
	if cfg.EvalWaitTimeout != 90*time.Second {
		t.Fatalf("expected eval wait 90s, got %v", cfg.EvalWaitTimeout)
	}
	if cfg.OCRRequestsPerSecond != 5 {
		t.Fatalf("expected ocr rps 5, got %v", cfg.OCRRequestsPerSecond)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CONFIDENCE_THRESHOLD", "not-a-float")
	t.Setenv("MIN_TEXT_LENGTH", "ten")
	t.Setenv("EVAL_POLL_INTERVAL", "soon")

	cfg := Load()
	if cfg.ConfidenceThreshold != 0.8 {
		t.Fatalf("malformed float should fall back, got %v", cfg.ConfidenceThreshold)
	}
	if cfg.MinTextLength != 10 {
		t.Fatalf("malformed int should fall back, got %d", cfg.MinTextLength)
	}
	if cfg.EvalPollInterval != 5*time.Second {
		t.Fatalf("malformed duration should fall back, got %v", cfg.EvalPollInterval)
	}
}
