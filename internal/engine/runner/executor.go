package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/runq/internal/core/domain"
	"go.trai.ch/runq/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const chunkSize = 32 * 1024

// completion is the one-shot signal that ends a step.
type completion struct {
	once   sync.Once
	r      *Runner
	vertex ports.Vertex
}

// finish must run on the loop goroutine.
func (c *completion) finish(err error) {
	c.once.Do(func() {
		c.vertex.Complete(err)
		c.r.complete(err)
	})
}

// done is handed to async callbacks and may be called from any goroutine.
func (c *completion) done(err error) {
	c.r.loop.Post(func() { c.finish(err) })
}

// execute performs one step and eventually finishes its completion exactly once.
func (r *Runner) execute(step domain.Step) {
	vertex := r.telemetry.Record(step.Label())
	c := &completion{r: r, vertex: vertex}

	r.logger.Debug("step started", "kind", string(step.Kind()), "step", step.Label())

	switch s := step.(type) {
	case domain.SyncCallback:
		if s == nil {
			c.finish(nil)
			return
		}
		c.finish(callbackError(s()))
	case domain.AsyncCallback:
		if s == nil {
			c.finish(nil)
			return
		}
		s(func(err error) { c.done(callbackError(err)) })
	case domain.DirectoryStep:
		r.mu.Lock()
		r.cwd = resolveDir(r.cwd, s.Path)
		cwd := r.cwd
		r.mu.Unlock()
		vertex.Log(domain.LogLevelDebug, "cwd "+cwd)
		c.finish(nil)
	case domain.ProcessStep:
		r.spawn(s, c)
	default:
		c.finish(errors.Join(domain.ErrUnknownStep, zerr.With(zerr.New("unhandled step"), "kind", string(step.Kind()))))
	}
}

func callbackError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(domain.ErrCallbackFailed, err)
}

// resolveDir resolves path against cwd. Absolute paths replace cwd.
func resolveDir(cwd, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cwd, path)
}

// capture accumulates a process's output. It is only touched on the loop goroutine.
type capture struct {
	stdout   strings.Builder
	stderr   strings.Builder
	combined strings.Builder
}

func (r *Runner) spawn(step domain.ProcessStep, c *completion) {
	if step.Command == "" {
		c.finish(domain.ErrEmptyCommand)
		return
	}

	dir := r.Dir()
	if step.Options.Dir != "" {
		dir = resolveDir(dir, step.Options.Dir)
	}
	env := domain.MergeEnv(r.env, step.Options.Env)

	path, err := r.resolver.LookPath(step.Command, env, dir)
	if err != nil {
		err = zerr.With(zerr.With(zerr.Wrap(err, "failed to resolve command"), "command", step.Command), "dir", dir)
		if !errors.Is(err, domain.ErrExecutableNotFound) {
			err = errors.Join(domain.ErrExecutableNotFound, err)
		}
		c.finish(err)
		return
	}

	proc, err := r.spawner.Spawn(ports.Invocation{
		Path: path,
		Name: step.Command,
		Args: step.Args,
		Dir:  dir,
		Env:  domain.Environ(env),
	})
	if err != nil {
		c.finish(errors.Join(domain.ErrSpawnFailed,
			zerr.With(zerr.With(zerr.Wrap(err, "failed to start process"), "command", path), "dir", dir)))
		return
	}

	started := time.Now()
	pid := proc.Pid()
	out := &capture{}

	var g errgroup.Group
	g.Go(func() error {
		return r.pump(proc.Stdout(), func(chunk []byte) {
			out.stdout.Write(chunk)
			out.combined.Write(chunk)
			_, _ = c.vertex.Stdout().Write(chunk)
			r.bus.Publish(domain.Event{Name: domain.EventStdout, Chunk: chunk})
		})
	})
	g.Go(func() error {
		return r.pump(proc.Stderr(), func(chunk []byte) {
			out.stderr.Write(chunk)
			out.combined.Write(chunk)
			_, _ = c.vertex.Stderr().Write(chunk)
			r.bus.Publish(domain.Event{Name: domain.EventStderr, Chunk: chunk})
		})
	})

	go func() {
		pumpErr := g.Wait()
		code, waitErr := proc.Wait()
		r.loop.Post(func() {
			if err := errors.Join(pumpErr, waitErr); err != nil {
				r.logger.Warn("process did not exit cleanly", "command", step.Label(), "error", err)
				if waitErr != nil {
					code = -1
				}
			}
			r.exited(step, c, out, domain.Result{
				Command:   step.Command,
				Args:      step.Args,
				Dir:       dir,
				PID:       pid,
				ExitCode:  code,
				StartedAt: started,
				Duration:  time.Since(started),
			})
		})
	}()
}

// pump reads src until EOF and posts every chunk to the loop in arrival order.
func (r *Runner) pump(src io.Reader, deliver func(chunk []byte)) error {
	if src == nil {
		return nil
	}
	buf := make([]byte, chunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			chunk := bytes.Clone(buf[:n])
			r.loop.Post(func() { deliver(chunk) })
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "failed to read process output")
		}
	}
}

func (r *Runner) exited(step domain.ProcessStep, c *completion, out *capture, res domain.Result) {
	res.Output = domain.Output{
		Stdout:   out.stdout.String(),
		Stderr:   out.stderr.String(),
		Combined: out.combined.String(),
	}

	r.mu.Lock()
	r.last = res
	r.mu.Unlock()

	if res.ExitCode != 0 {
		c.vertex.Log(domain.LogLevelWarn, fmt.Sprintf("exit code %d", res.ExitCode))
	}
	r.logger.Debug("process exited", "command", step.Label(), "pid", res.PID, "exit_code", res.ExitCode)
	r.bus.Publish(domain.Event{Name: domain.EventExit, ExitCode: res.ExitCode})
	c.finish(nil)
}
