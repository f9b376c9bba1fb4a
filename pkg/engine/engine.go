package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// BinaryName is the solver executable searched for next to this
// process and on PATH.
const BinaryName = "contam_engine"

// DefaultTimeout bounds one solver invocation.
const DefaultTimeout = 2 * time.Minute

// ErrTimeout reports that the solver exceeded its time bound. A timed
// out run yields no partial result.
var ErrTimeout = errors.New("solver timed out")

// FailureError reports that the solver itself failed.
type FailureError struct {
	ExitCode int
	Output   string
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("solver failed (exit code %d): %s", e.ExitCode, e.Output)
}

// Runner invokes the external solver over its temp-file JSON protocol.
type Runner struct {
	// Binary is the solver executable path; empty means auto-discover.
	Binary  string
	Timeout time.Duration
	Log     *zap.Logger
}

// NewRunner creates a runner with the default timeout.
func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Timeout: DefaultTimeout, Log: log}
}

// Run hands a serialized topology document to the solver and returns
// the parsed result document. The call is time-bounded; exceeding the
// bound is a timeout failure, never a partial result.
func (r *Runner) Run(ctx context.Context, document []byte) (*Result, error) {
	binary := r.Binary
	if binary == "" {
		binary = FindBinary()
	}

	tmpDir, err := os.MkdirTemp("", "airnet-run-")
	if err != nil {
		return nil, fmt.Errorf("creating solver workspace: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inputPath := filepath.Join(tmpDir, "input.json")
	outputPath := filepath.Join(tmpDir, "output.json")
	if err := os.WriteFile(inputPath, document, 0o644); err != nil {
		return nil, fmt.Errorf("writing solver input: %w", err)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, binary, "-i", inputPath, "-o", outputPath, "-v")
	start := time.Now()
	out, err := cmd.CombinedOutput()
	elapsed := time.Since(start)

	r.Log.Debug("solver run finished",
		zap.String("binary", binary),
		zap.Duration("elapsed", elapsed),
		zap.Error(err))

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, &FailureError{ExitCode: exitCode, Output: string(out)}
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("reading solver output: %w", err)
	}
	return ParseResult(data)
}

// FindBinary locates the solver executable: next to the running
// executable first, then its parent directory, then PATH.
func FindBinary() string {
	name := BinaryName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		candidate := filepath.Join(exeDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		candidate = filepath.Join(filepath.Dir(exeDir), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return name
}
