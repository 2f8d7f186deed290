// Package exec runs external helper programs such as kpsewhich and
// captures their output.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	osexec "os/exec"
	"time"
)

// Executor runs commands. The fluent setters configure the next Run only.
type Executor interface {
	// WithEnv adds environment variables to the next run.
	WithEnv(env map[string]string) Executor

	// WithDir sets the working directory of the next run.
	WithDir(dir string) Executor

	// WithContext sets the context the next run is bound to.
	WithContext(ctx context.Context) Executor

	// WithTimeout bounds the next run.
	WithTimeout(d time.Duration) Executor

	// Run executes args[0] with the remaining arguments.
	Run(args ...string) (*Result, error)
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExecError describes a command that could not be started or exited
// non-zero.
type ExecError struct {
	Command  []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %v failed with exit code %d: %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %v failed with exit code %d", e.Command, e.ExitCode)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Command is the os/exec backed Executor. The process environment is
// always inherited.
type Command struct {
	ctx     context.Context
	env     map[string]string
	dir     string
	timeout time.Duration
}

// New returns a Command with no local settings.
func New() *Command {
	return &Command{ctx: context.Background(), env: map[string]string{}}
}

func (c *Command) WithEnv(env map[string]string) Executor {
	for k, v := range env {
		c.env[k] = v
	}
	return c
}

func (c *Command) WithDir(dir string) Executor {
	c.dir = dir
	return c
}

func (c *Command) WithContext(ctx context.Context) Executor {
	c.ctx = ctx
	return c
}

func (c *Command) WithTimeout(d time.Duration) Executor {
	c.timeout = d
	return c
}

// Run executes the command and resets local settings afterwards.
func (c *Command) Run(args ...string) (*Result, error) {
	defer c.reset()

	if len(args) == 0 {
		return nil, &ExecError{Command: args, ExitCode: -1, Err: osexec.ErrNotFound}
	}

	ctx := c.ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := osexec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = c.dir
	cmd.Env = os.Environ()
	for k, v := range c.env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return result, &ExecError{
			Command:  args,
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
			Err:      err,
		}
	}
	return result, nil
}

func (c *Command) reset() {
	c.ctx = context.Background()
	c.env = map[string]string{}
	c.dir = ""
	c.timeout = 0
}

// Wrapper prepends a fixed program name to every Run.
type Wrapper struct {
	executor Executor
	cmd      string
}

// NewWrapper binds executor to the program cmd.
func NewWrapper(executor Executor, cmd string) *Wrapper {
	return &Wrapper{executor: executor, cmd: cmd}
}

func (w *Wrapper) WithEnv(env map[string]string) Executor {
	w.executor = w.executor.WithEnv(env)
	return w
}

func (w *Wrapper) WithDir(dir string) Executor {
	w.executor = w.executor.WithDir(dir)
	return w
}

func (w *Wrapper) WithContext(ctx context.Context) Executor {
	w.executor = w.executor.WithContext(ctx)
	return w
}

func (w *Wrapper) WithTimeout(d time.Duration) Executor {
	w.executor = w.executor.WithTimeout(d)
	return w
}

func (w *Wrapper) Run(args ...string) (*Result, error) {
	return w.executor.Run(append([]string{w.cmd}, args...)...)
}

var (
	_ Executor = (*Command)(nil)
	_ Executor = (*Wrapper)(nil)
)
