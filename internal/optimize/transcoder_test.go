package optimize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mediapress/internal/config"
	"mediapress/internal/logging"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "encoder.sh")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandTranscoderRunsTemplate(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp4")
	output := filepath.Join(dir, "out.webm")
	if err := os.WriteFile(input, []byte("0123456789abcdef"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	script := writeScript(t, `head -c 4 "$1" > "$2"`)
	cfg := config.Default()
	cfg.Optimizer.Command = script + " {input} {output}"

	transcoder, err := NewCommandTranscoder(&cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewCommandTranscoder: %v", err)
	}
	result, err := transcoder.Transcode(context.Background(), input, output)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if result.OutputSize != 4 {
		t.Errorf("OutputSize = %d, want 4", result.OutputSize)
	}
	if !result.Improved() {
		t.Error("4-byte output of 16-byte input should report improved")
	}
}

func TestCommandTranscoderReportsFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(input, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	script := writeScript(t, "echo encoder exploded >&2; exit 3")
	cfg := config.Default()
	cfg.Optimizer.Command = script + " {input} {output}"

	transcoder, err := NewCommandTranscoder(&cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewCommandTranscoder: %v", err)
	}
	if _, err := transcoder.Transcode(context.Background(), input, filepath.Join(dir, "out.webm")); err == nil {
		t.Fatal("expected error for failing command")
	}
}

func TestCommandTranscoderRequiresOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(input, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	script := writeScript(t, "exit 0")
	cfg := config.Default()
	cfg.Optimizer.Command = script + " {input} {output}"

	transcoder, err := NewCommandTranscoder(&cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewCommandTranscoder: %v", err)
	}
	if _, err := transcoder.Transcode(context.Background(), input, filepath.Join(dir, "out.webm")); err == nil {
		t.Fatal("expected error when command produces no output file")
	}
}

func TestPassthroughNeverImproves(t *testing.T) {
	input := filepath.Join(t.TempDir(), "in.mp4")
	if err := os.WriteFile(input, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	result, err := Passthrough().Transcode(context.Background(), input, "unused")
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if result.Improved() {
		t.Error("passthrough should never report improved")
	}
}

func TestNewCommandTranscoderRequiresCommand(t *testing.T) {
	cfg := config.Default()
	cfg.Optimizer.Command = "  "
	if _, err := NewCommandTranscoder(&cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error for empty command")
	}
}
