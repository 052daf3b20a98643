// Package app implements the application layer for runq.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"go.trai.ch/runq/internal/adapters/journal" //nolint:depguard // Wired in app layer
	"go.trai.ch/runq/internal/core/domain"
	"go.trai.ch/runq/internal/core/ports"
	"go.trai.ch/runq/internal/engine/events"
	"go.trai.ch/runq/internal/engine/runner"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader  ports.ScriptLoader
	runners *runner.Factory
	store   ports.ResultStore
	logger  ports.Logger
	stdout  io.Writer
	stderr  io.Writer
	banner  *color.Color
	message *color.Color
}

// New creates a new App instance.
func New(
	loader ports.ScriptLoader,
	runners *runner.Factory,
	store ports.ResultStore,
	log ports.Logger,
) *App {
	return &App{
		loader:  loader,
		runners: runners,
		store:   store,
		logger:  log,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		banner:  color.New(color.FgCyan, color.Bold),
		message: color.New(color.FgGreen),
	}
}

// WithOutput redirects process output and messages. Used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// RunOptions configuration for the Run and Exec methods.
type RunOptions struct {
	// Journal appends a record of every completed process to the result store.
	Journal bool
	// Verbose prints each command before it starts.
	Verbose bool
}

// Run executes the script at path.
func (a *App) Run(ctx context.Context, path string, opts RunOptions) error {
	script, err := a.loader.Load(path)
	if err != nil {
		return zerr.Wrap(err, "failed to load script")
	}

	var runnerOpts []runner.Option
	if len(script.Env) > 0 {
		runnerOpts = append(runnerOpts, runner.WithBaseEnv(scriptEnv(script.Env)))
	}

	r, err := a.runners.Open(script.Dir, runnerOpts...)
	if err != nil {
		return zerr.Wrap(err, "failed to open runner")
	}
	a.attach(r, opts)

	for _, step := range script.Steps {
		a.enqueue(r, step, opts)
	}

	a.logger.Debug("running script", "path", path, "steps", len(script.Steps), "dir", r.Dir())
	return runError(r.Run(ctx))
}

// Exec runs argv as a single process step in the working directory and returns its exit code.
func (a *App) Exec(ctx context.Context, argv []string, opts RunOptions) (int, error) {
	if len(argv) == 0 {
		return 0, domain.ErrEmptyCommand
	}

	r, err := a.runners.Open("")
	if err != nil {
		return 0, zerr.Wrap(err, "failed to open runner")
	}
	a.attach(r, opts)
	a.enqueueExec(r, domain.ScriptStep{Op: domain.OpExec, Exec: argv}, opts)

	if err := runError(r.Run(ctx)); err != nil {
		return 0, err
	}
	return r.LastResult().ExitCode, nil
}

// History returns the journal records in the order they were written.
func (a *App) History() ([]domain.RunRecord, error) {
	records, err := a.store.List()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read journal")
	}
	return records, nil
}

func runError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return zerr.Wrap(err, "run interrupted")
	default:
		return errors.Join(domain.ErrRunFailed, err)
	}
}

// scriptEnv merges overrides over the process environment.
// PATH is only kept when the script sets it, so the runner still prepends the local bin directory.
func scriptEnv(overrides map[string]string) map[string]string {
	env := domain.ParseEnviron(os.Environ())
	delete(env, domain.SearchPathKey)
	return domain.MergeEnv(env, overrides)
}

func (a *App) attach(r *runner.Runner, opts RunOptions) {
	r.Subscribe(domain.EventStdout, events.WriteTo(a.stdout))
	r.Subscribe(domain.EventStderr, events.WriteTo(a.stderr))
	if opts.Journal {
		r.OnExit(func(int) { a.record(r.LastResult()) })
	}
}

func (a *App) record(res domain.Result) {
	if err := a.store.Append(journal.NewRecord(res)); err != nil {
		a.logger.Warn("failed to journal result", "command", domain.FormatCommand(res.Command, res.Args), "error", err)
	}
}

func (a *App) enqueue(r *runner.Runner, step domain.ScriptStep, opts RunOptions) {
	switch step.Op {
	case domain.OpExec:
		a.enqueueExec(r, step, opts)
	case domain.OpChdir:
		r.Chdir(step.Path)
	case domain.OpEcho:
		msg := step.Message
		r.Then(func() error {
			_, err := a.message.Fprintln(a.stdout, msg)
			return err
		})
	case domain.OpSleep:
		d := step.Sleep
		r.ThenAsync(func(done domain.Done) {
			time.AfterFunc(d, func() { done(nil) })
		})
	case domain.OpExpect:
		exp := step.Expect
		r.Then(func() error {
			return checkExpectation(exp, r.LastResult())
		})
	}
}

func (a *App) enqueueExec(r *runner.Runner, step domain.ScriptStep, opts RunOptions) {
	var command string
	var args []string
	if len(step.Exec) > 0 {
		command, args = step.Exec[0], step.Exec[1:]
	}

	if opts.Verbose {
		label := domain.FormatCommand(command, args)
		r.Then(func() error {
			_, err := a.banner.Fprintf(a.stderr, "$ %s\n", label)
			return err
		})
	}

	var execOpts []runner.ExecOption
	if step.Dir != "" {
		execOpts = append(execOpts, runner.WithDir(step.Dir))
	}
	if len(step.Env) > 0 {
		execOpts = append(execOpts, runner.WithEnv(step.Env))
	}
	r.Exec(command, args, execOpts...)
}
