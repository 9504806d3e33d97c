// Package deploy drives the rancher-compose binary that performs the rolling upgrade.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/rancher-client/internal/logging"
	"github.com/conn-castle/rancher-client/internal/messages"
)

// DefaultBinary is the deploy tool looked up on PATH.
const DefaultBinary = "rancher-compose"

// DefaultTimeout bounds a single deploy tool invocation.
const DefaultTimeout = 30 * time.Minute

// Rolling upgrade pacing passed to the deploy tool.
const (
	BatchSize  = 1
	IntervalMS = 2000
)

// waitDelay bounds how long output copying may outlive a killed tool.
const waitDelay = 5 * time.Second

var execCommandContext = exec.CommandContext

// SubprocessError reports a deploy tool run that did not exit cleanly.
// Code is -1 when the process could not be started or was killed.
type SubprocessError struct {
	Binary  string
	Code    int
	Started bool
	Err     error
}

func (e *SubprocessError) Error() string {
	switch {
	case e.Code >= 0:
		return fmt.Sprintf(messages.DeployExitFmt, e.Binary, e.Code)
	case e.Started:
		return fmt.Sprintf(messages.DeployInterruptedFmt, e.Binary, e.Err)
	default:
		return fmt.Sprintf(messages.DeployStartFailedFmt, e.Binary, e.Err)
	}
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}

// Runner invokes the deploy tool against one stack.
type Runner struct {
	Binary    string
	Project   string
	URL       string
	AccessKey string
	SecretKey string
	// Dir is the working directory holding the compose files.
	Dir string
	// Timeout bounds each invocation; zero disables the bound.
	Timeout time.Duration
	Logger  *log.Logger
	// Output, when set, also receives the tool's stdout and stderr.
	Output io.Writer
}

// Pull fetches the images of services.
func (r *Runner) Pull(ctx context.Context, services []string) error {
	if len(services) == 0 {
		return errors.New(messages.DeployNoServices)
	}
	return r.run(ctx, append([]string{"pull"}, services...))
}

// Upgrade force-upgrades services one container at a time, confirming the
// upgrade once it completes.
func (r *Runner) Upgrade(ctx context.Context, services []string) error {
	if len(services) == 0 {
		return errors.New(messages.DeployNoServices)
	}
	args := []string{
		"up",
		"-d",
		"-c",
		"--pull",
		"--upgrade",
		"--force-upgrade",
		"--batch-size", fmt.Sprint(BatchSize),
		"--interval", fmt.Sprint(IntervalMS),
	}
	return r.run(ctx, append(args, services...))
}

// baseArgs returns the connection arguments shared by every invocation.
func (r *Runner) baseArgs() []string {
	return []string{
		"--project-name", r.Project,
		"--url", r.URL,
		"--access-key", r.AccessKey,
		"--secret-key", r.SecretKey,
	}
}

func (r *Runner) binary() string {
	if strings.TrimSpace(r.Binary) == "" {
		return DefaultBinary
	}
	return r.Binary
}

func (r *Runner) run(ctx context.Context, args []string) error {
	logger := logging.OrDiscard(r.Logger)
	binary := r.binary()
	full := append(r.baseArgs(), args...)

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	logger.Debug("running deploy tool", "cmd", binary+" "+strings.Join(redactArgs(full), " "), "dir", r.Dir)

	out := logging.LineWriter(logger, binary)
	defer func() { _ = out.Close() }()
	var sink io.Writer = out
	if r.Output != nil {
		sink = io.MultiWriter(out, r.Output)
	}

	cmd := execCommandContext(ctx, binary, full...)
	cmd.Dir = r.Dir
	cmd.Stdout = sink
	cmd.Stderr = sink
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return &SubprocessError{Binary: binary, Code: -1, Err: err}
	}
	err := cmd.Wait()
	if err == nil {
		return nil
	}
	if r.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &SubprocessError{Binary: binary, Code: -1, Started: true, Err: fmt.Errorf(messages.DeployTimeoutFmt, r.Timeout, ctx.Err())}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return &SubprocessError{Binary: binary, Code: exitErr.ExitCode(), Started: true, Err: err}
	}
	return &SubprocessError{Binary: binary, Code: -1, Started: true, Err: err}
}

// redactArgs hides the value following --secret-key.
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i++ {
		if out[i] == "--secret-key" {
			out[i+1] = "***"
		}
	}
	return out
}
