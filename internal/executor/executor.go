package executor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// ErrorPrefix marks a Result rendered from a command that exited non-zero.
const ErrorPrefix = "Error: "

// DefaultTimeout bounds how long a command may run. Zero disables the bound.
const DefaultTimeout = 2 * time.Minute

// Executor runs shell commands on behalf of the assistant. It never returns
// an error past its own boundary: spawn failures and non-zero exits are
// folded into the Result.
type Executor struct {
	timeout time.Duration
	logger  *slog.Logger
}

// New creates an Executor with the default timeout.
func New(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		timeout: DefaultTimeout,
		logger:  logger,
	}
}

// SetTimeout sets the command execution timeout. Zero disables it.
func (e *Executor) SetTimeout(timeout time.Duration) {
	e.timeout = timeout
}

// Result holds the outcome of one command execution. Success or failure is
// an explicit discriminant, not something inferred from output text.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	Err      error
}

// Success reports whether the command ran and exited zero.
func (r *Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Text renders the result for the model's second-round prompt:
// stdout verbatim on success, a prefixed error string otherwise.
func (r *Result) Text() string {
	switch {
	case r.Success():
		return r.Stdout
	case r.ExitCode != 0 && r.Err == nil:
		return ErrorPrefix + r.Stderr
	default:
		return fmt.Sprintf("Error executing command: %v", r.Err)
	}
}

// Run hands the command string to sh and captures stdout and stderr
// separately. The returned Result is never nil.
func (e *Executor) Run(ctx context.Context, command string) *Result {
	e.logger.Info("executing command", "command", command)
	start := time.Now()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &Result{
		Command:  command,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		result.ExitCode = 0
		e.logger.Info("command succeeded", "duration", result.Duration)
		e.logger.Debug("command output", "stdout", result.Stdout)
	default:
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Spawn or I/O failure; the command never produced an exit code.
			result.ExitCode = -1
			result.Err = err
		}
		e.logger.Error("command failed",
			"exit_code", result.ExitCode,
			"stderr", strings.TrimSpace(result.Stderr),
			"err", err,
		)
	}

	return result
}
