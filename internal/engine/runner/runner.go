// Package runner implements the sequential step queue.
//
// A Runner executes process, directory and callback steps one at a time in the
// order they were enqueued. Enqueueing never executes anything; steps run while
// the owner drives the runner with Run.
package runner

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/runq/internal/core/domain"
	"go.trai.ch/runq/internal/core/ports"
	"go.trai.ch/runq/internal/engine/events"
	"go.trai.ch/runq/internal/engine/loop"
	"go.trai.ch/zerr"
)

// Factory opens runners sharing the same adapters.
type Factory struct {
	spawner   ports.Spawner
	resolver  ports.ExecutableResolver
	logger    ports.Logger
	telemetry ports.Telemetry
}

// NewFactory creates a Factory.
func NewFactory(
	spawner ports.Spawner,
	resolver ports.ExecutableResolver,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Factory {
	return &Factory{
		spawner:   spawner,
		resolver:  resolver,
		logger:    logger,
		telemetry: telemetry,
	}
}

type config struct {
	env      map[string]string
	localBin string
}

// Option configures a Runner at construction.
type Option func(*config)

// WithBaseEnv replaces the inherited process environment.
// When env has no PATH, the local bin directory is prepended to the inherited PATH.
func WithBaseEnv(env map[string]string) Option {
	return func(c *config) {
		c.env = maps.Clone(env)
		if c.env == nil {
			c.env = map[string]string{}
		}
	}
}

// WithLocalBin sets the directory preferred on the search path. An empty dir disables the prepend.
func WithLocalBin(dir string) Option {
	return func(c *config) {
		c.localBin = dir
	}
}

// Open creates a Runner rooted at dir, or at the process working directory when dir is empty.
func (f *Factory) Open(dir string, opts ...Option) (*Runner, error) {
	cfg := config{localBin: domain.DefaultLocalBin}
	for _, opt := range opts {
		opt(&cfg)
	}

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to get working directory")
		}
		dir = wd
	}
	cwd, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve directory"), "dir", dir)
	}

	return &Runner{
		spawner:   f.spawner,
		resolver:  f.resolver,
		logger:    f.logger,
		telemetry: f.telemetry,
		loop:      loop.New(),
		bus:       events.NewBus(),
		cwd:       cwd,
		env:       baseEnv(cfg),
	}, nil
}

func baseEnv(cfg config) map[string]string {
	if _, ok := cfg.env[domain.SearchPathKey]; ok {
		return cfg.env
	}
	env := cfg.env
	if env == nil {
		env = domain.ParseEnviron(os.Environ())
	}
	inherited := os.Getenv(domain.SearchPathKey)
	switch {
	case cfg.localBin != "":
		env[domain.SearchPathKey] = domain.PrependSearchPath(cfg.localBin, inherited)
	case inherited != "":
		env[domain.SearchPathKey] = inherited
	}
	return env
}

// Runner is a FIFO queue of steps with at most one step in flight.
//
// Enqueue methods may be called from any goroutine, including from inside
// callbacks. Run must be called by one goroutine at a time.
type Runner struct {
	spawner   ports.Spawner
	resolver  ports.ExecutableResolver
	logger    ports.Logger
	telemetry ports.Telemetry
	loop      *loop.Loop
	bus       *events.Bus

	env map[string]string

	mu      sync.Mutex
	queue   []domain.Step
	running bool
	cwd     string
	last    domain.Result
	err     error
}

// Exec enqueues a process step.
func (r *Runner) Exec(command string, args []string, opts ...ExecOption) *Runner {
	var po domain.ProcessOptions
	for _, opt := range opts {
		opt(&po)
	}
	return r.Enqueue(domain.NewProcessStep(command, args, po))
}

// ExecOption overrides runner defaults for one process step.
type ExecOption func(*domain.ProcessOptions)

// WithDir runs the process in dir. A relative dir resolves against the runner's cwd.
func WithDir(dir string) ExecOption {
	return func(o *domain.ProcessOptions) {
		o.Dir = dir
	}
}

// WithEnv merges env over the runner's environment for one process.
func WithEnv(env map[string]string) ExecOption {
	return func(o *domain.ProcessOptions) {
		if o.Env == nil {
			o.Env = make(map[string]string, len(env))
		}
		maps.Copy(o.Env, env)
	}
}

// Chdir enqueues a directory step.
func (r *Runner) Chdir(path string) *Runner {
	return r.Enqueue(domain.DirectoryStep{Path: path})
}

// Then enqueues a synchronous callback. A returned error halts the queue.
func (r *Runner) Then(fn func() error) *Runner {
	return r.Enqueue(domain.SyncCallback(fn))
}

// ThenAsync enqueues a callback that completes when it calls done.
// done may be called from any goroutine; calls after the first are ignored.
func (r *Runner) ThenAsync(fn func(done domain.Done)) *Runner {
	return r.Enqueue(domain.AsyncCallback(fn))
}

// Enqueue appends step to the queue and schedules a drain on a later turn.
func (r *Runner) Enqueue(step domain.Step) *Runner {
	if step == nil {
		return r
	}
	if ps, ok := step.(domain.ProcessStep); ok {
		step = domain.NewProcessStep(ps.Command, ps.Args, ps.Options)
	}

	r.mu.Lock()
	r.queue = append(r.queue, step)
	r.mu.Unlock()

	r.loop.Post(r.next)
	return r
}

// Run drives the queue on the calling goroutine until no step is pending or in flight.
// It returns the error that halted the queue, if any. Once halted, a runner stays halted.
// When ctx is done Run returns ctx.Err(); an in-flight step keeps running and the
// next call to Run resumes the queue.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.loop.Run(ctx, r.settled); err != nil {
		return err
	}
	return r.Err()
}

func (r *Runner) settled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err != nil || (!r.running && len(r.queue) == 0)
}

// next is the drain routine. It only runs on the loop goroutine.
func (r *Runner) next() {
	r.mu.Lock()
	// A drain that finds a step in flight is a no-op; that step posts the next drain itself.
	if r.err != nil || r.running || len(r.queue) == 0 {
		r.mu.Unlock()
		return
	}
	r.running = true
	step := r.queue[0]
	r.queue[0] = nil
	r.queue = r.queue[1:]
	r.mu.Unlock()

	r.execute(step)
}

// complete hands control back to the queue after a step finished.
func (r *Runner) complete(err error) {
	r.mu.Lock()
	r.running = false
	if err != nil && r.err == nil {
		r.err = err
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Error(err)
		return
	}
	r.loop.Post(r.next)
}

// Subscribe registers fn for events named name.
func (r *Runner) Subscribe(name domain.EventName, fn events.Listener) *Runner {
	r.bus.Subscribe(name, fn)
	return r
}

// OnStdout registers fn for standard output chunks.
func (r *Runner) OnStdout(fn func(chunk []byte)) *Runner {
	return r.Subscribe(domain.EventStdout, func(ev domain.Event) { fn(ev.Chunk) })
}

// OnStderr registers fn for standard error chunks.
func (r *Runner) OnStderr(fn func(chunk []byte)) *Runner {
	return r.Subscribe(domain.EventStderr, func(ev domain.Event) { fn(ev.Chunk) })
}

// OnExit registers fn for process exit codes.
func (r *Runner) OnExit(fn func(code int)) *Runner {
	return r.Subscribe(domain.EventExit, func(ev domain.Event) { fn(ev.ExitCode) })
}

// Dir returns the current working directory of the runner.
func (r *Runner) Dir() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cwd
}

// Env returns a copy of the base environment.
func (r *Runner) Env() map[string]string {
	return maps.Clone(r.env)
}

// Len returns the number of steps waiting to start.
func (r *Runner) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Err returns the error that halted the queue, or nil.
func (r *Runner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// LastResult returns the record of the last completed process step.
func (r *Runner) LastResult() domain.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := r.last
	res.Args = slices.Clone(res.Args)
	return res
}

// LastOutput returns the output captured from the last completed process step.
func (r *Runner) LastOutput() domain.Output {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last.Output
}

// LastPID returns the process identifier of the last completed process step.
func (r *Runner) LastPID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last.PID
}
