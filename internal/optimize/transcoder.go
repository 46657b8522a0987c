package optimize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"mediapress/internal/config"
	"mediapress/internal/logging"
)

// Result describes the outcome of a transcode run.
type Result struct {
	OutputPath string
	InputSize  int64
	OutputSize int64
}

// Improved reports whether the transcode produced a smaller file than the
// input. Outputs that are not smaller are discarded by callers.
func (r Result) Improved() bool {
	return r.OutputSize > 0 && r.OutputSize < r.InputSize
}

// Transcoder re-encodes a media file into a target output path.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string) (Result, error)
}

// Passthrough returns a Transcoder that never improves on its input, so
// media rides through the pipeline unchanged. It stands in when no encoder
// command is configured.
func Passthrough() Transcoder { return passthroughTranscoder{} }

type passthroughTranscoder struct{}

func (passthroughTranscoder) Transcode(_ context.Context, inputPath, _ string) (Result, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("optimize: stat input: %w", err)
	}
	return Result{InputSize: info.Size(), OutputSize: info.Size()}, nil
}

// CommandTranscoder shells out to a configured encoder command line. The
// command template substitutes {input} and {output} placeholders per run.
type CommandTranscoder struct {
	command []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewCommandTranscoder builds a transcoder from cfg.Optimizer. The configured
// command is split on whitespace, so placeholder paths must not contain
// spaces.
func NewCommandTranscoder(cfg *config.Config, logger *slog.Logger) (*CommandTranscoder, error) {
	command := strings.Fields(cfg.Optimizer.Command)
	if len(command) == 0 {
		return nil, fmt.Errorf("optimize: optimizer command is not configured")
	}
	return &CommandTranscoder{
		command: command,
		timeout: time.Duration(cfg.Optimizer.Timeout) * time.Second,
		logger:  logging.NewComponentLogger(logger, "optimize"),
	}, nil
}

func (t *CommandTranscoder) Transcode(ctx context.Context, inputPath, outputPath string) (Result, error) {
	inputInfo, err := os.Stat(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("optimize: stat input: %w", err)
	}

	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	args := make([]string, len(t.command))
	for i, arg := range t.command {
		arg = strings.ReplaceAll(arg, "{input}", inputPath)
		arg = strings.ReplaceAll(arg, "{output}", outputPath)
		args[i] = arg
	}

	start := time.Now()
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return Result{}, fmt.Errorf("optimize: transcode timed out after %s", t.timeout)
		}
		tail := output
		if len(tail) > 512 {
			tail = tail[len(tail)-512:]
		}
		return Result{}, fmt.Errorf("optimize: %s failed: %w: %s", args[0], err, string(tail))
	}

	outputInfo, err := os.Stat(outputPath)
	if err != nil {
		return Result{}, fmt.Errorf("optimize: transcode produced no output: %w", err)
	}

	result := Result{
		OutputPath: outputPath,
		InputSize:  inputInfo.Size(),
		OutputSize: outputInfo.Size(),
	}
	t.logger.Info("transcode finished",
		logging.String("input", filepath.Base(inputPath)),
		logging.Int64("input_bytes", result.InputSize),
		logging.Int64("output_bytes", result.OutputSize),
		logging.Bool("improved", result.Improved()),
		logging.Duration("elapsed", time.Since(start)))
	return result, nil
}
