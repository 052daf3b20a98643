package runner_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/runq/internal/adapters/logger"
	"go.trai.ch/runq/internal/adapters/telemetry"
	"go.trai.ch/runq/internal/core/domain"
	"go.trai.ch/runq/internal/core/ports"
	"go.trai.ch/runq/internal/core/ports/mocks"
	"go.trai.ch/runq/internal/engine/runner"
	"go.uber.org/mock/gomock"
)

type fakes struct {
	spawner  *mocks.MockSpawner
	resolver *mocks.MockExecutableResolver
	logger   *mocks.MockLogger
}

func newFakes(t *testing.T) (*fakes, *runner.Factory) {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fakes{
		spawner:  mocks.NewMockSpawner(ctrl),
		resolver: mocks.NewMockExecutableResolver(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return f, runner.NewFactory(f.spawner, f.resolver, f.logger, telemetry.NewNoOp())
}

func fakeProcess(t *testing.T, pid int, stdout, stderr string, code int, waitErr error) *mocks.MockProcess {
	t.Helper()
	proc := mocks.NewMockProcess(gomock.NewController(t))
	proc.EXPECT().Pid().Return(pid).AnyTimes()
	proc.EXPECT().Stdout().Return(strings.NewReader(stdout))
	proc.EXPECT().Stderr().Return(strings.NewReader(stderr))
	proc.EXPECT().Wait().Return(code, waitErr)
	return proc
}

func TestExecutor_InvocationAndResult(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f, factory := newFakes(t)
		r, err := factory.Open("/work", runner.WithBaseEnv(map[string]string{
			"PATH": "/bin",
			"BASE": "1",
			"FOO":  "base",
		}))
		require.NoError(t, err)

		wantEnv := map[string]string{"PATH": "/bin", "BASE": "1", "FOO": "bar"}
		f.resolver.EXPECT().LookPath("tool", wantEnv, "/work/sub").Return("/bin/tool", nil)
		f.spawner.EXPECT().Spawn(ports.Invocation{
			Path: "/bin/tool",
			Name: "tool",
			Args: []string{"a", "b"},
			Dir:  "/work/sub",
			Env:  []string{"BASE=1", "FOO=bar", "PATH=/bin"},
		}).Return(fakeProcess(t, 42, "hello\n", "oops", 7, nil), nil)

		var codes []int
		r.OnExit(func(code int) { codes = append(codes, code) })
		r.Chdir("sub").Exec("tool", []string{"a", "b"}, runner.WithEnv(map[string]string{"FOO": "bar"}))
		require.NoError(t, r.Run(context.Background()))

		res := r.LastResult()
		assert.Equal(t, []int{7}, codes)
		assert.Equal(t, "tool", res.Command)
		assert.Equal(t, []string{"a", "b"}, res.Args)
		assert.Equal(t, "/work/sub", res.Dir)
		assert.Equal(t, 42, res.PID)
		assert.Equal(t, 7, res.ExitCode)
		assert.Equal(t, domain.Output{Stdout: "hello\n", Stderr: "oops", Combined: res.Output.Combined}, res.Output)
		assert.Len(t, res.Output.Combined, len("hello\noops"))
		assert.Equal(t, 42, r.LastPID())

		// The override did not leak into the runner's base environment.
		assert.Equal(t, "base", r.Env()["FOO"])
	})
}

func TestExecutor_EmptyCommand(t *testing.T) {
	f, factory := newFakes(t)
	r, err := factory.Open("/work")
	require.NoError(t, err)

	f.logger.EXPECT().Error(gomock.Any()).Times(1)
	r.Exec("", nil)
	require.ErrorIs(t, r.Run(context.Background()), domain.ErrEmptyCommand)
}

func TestExecutor_SpawnFailureHalts(t *testing.T) {
	f, factory := newFakes(t)
	r, err := factory.Open("/work", runner.WithBaseEnv(map[string]string{"PATH": "/bin"}))
	require.NoError(t, err)

	startErr := errors.New("permission denied")
	f.resolver.EXPECT().LookPath("tool", gomock.Any(), "/work").Return("/bin/tool", nil)
	f.spawner.EXPECT().Spawn(gomock.Any()).Return(nil, startErr)
	f.logger.EXPECT().Error(gomock.Any()).Times(1)

	exits := 0
	r.OnExit(func(int) { exits++ })
	r.Exec("tool", nil).Exec("tool", nil)

	err = r.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrSpawnFailed)
	require.ErrorIs(t, err, startErr)
	assert.Equal(t, 0, exits)
	assert.Equal(t, 1, r.Len())
}

func TestExecutor_ResolveFailureHalts(t *testing.T) {
	f, factory := newFakes(t)
	r, err := factory.Open("/work", runner.WithBaseEnv(map[string]string{"PATH": "/bin"}))
	require.NoError(t, err)

	f.resolver.EXPECT().LookPath("ghost", gomock.Any(), "/work").Return("", errors.New("not found"))
	f.logger.EXPECT().Error(gomock.Any()).Times(1)

	r.Exec("ghost", nil)
	require.ErrorIs(t, r.Run(context.Background()), domain.ErrExecutableNotFound)
}

func TestExecutor_WaitErrorReportsMinusOne(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f, factory := newFakes(t)
		r, err := factory.Open("/work", runner.WithBaseEnv(map[string]string{"PATH": "/bin"}))
		require.NoError(t, err)

		f.resolver.EXPECT().LookPath("tool", gomock.Any(), "/work").Return("/bin/tool", nil)
		f.spawner.EXPECT().Spawn(gomock.Any()).Return(fakeProcess(t, 9, "", "", 0, errors.New("signal: killed")), nil)
		f.logger.EXPECT().Warn("process did not exit cleanly", gomock.Any()).Times(1)

		var codes []int
		r.OnExit(func(code int) { codes = append(codes, code) })
		r.Exec("tool", nil)
		require.NoError(t, r.Run(context.Background()))
		assert.Equal(t, []int{-1}, codes)
	})
}

func TestExecutor_TelemetryVertexPerStep(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		tel := mocks.NewMockTelemetry(ctrl)
		resolver := mocks.NewMockExecutableResolver(ctrl)
		spawner := mocks.NewMockSpawner(ctrl)

		var stdout bytes.Buffer
		vertex := mocks.NewMockVertex(ctrl)
		vertex.EXPECT().Stdout().Return(&stdout).AnyTimes()
		vertex.EXPECT().Stderr().Return(io.Discard).AnyTimes()
		vertex.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()

		gomock.InOrder(
			tel.EXPECT().Record("cd sub").Return(vertex),
			vertex.EXPECT().Complete(nil),
			tel.EXPECT().Record("tool --flag").Return(vertex),
			vertex.EXPECT().Complete(nil),
			tel.EXPECT().Record("callback").Return(vertex),
			vertex.EXPECT().Complete(gomock.Not(gomock.Nil())),
		)

		resolver.EXPECT().LookPath("tool", gomock.Any(), "/work/sub").Return("/bin/tool", nil)
		spawner.EXPECT().Spawn(gomock.Any()).Return(fakeProcess(t, 1, "progress\n", "", 0, nil), nil)

		factory := runner.NewFactory(spawner, resolver, logger.NewWithWriter(io.Discard), tel)
		r, err := factory.Open("/work", runner.WithBaseEnv(map[string]string{"PATH": "/bin"}))
		require.NoError(t, err)

		r.Chdir("sub").
			Exec("tool", []string{"--flag"}).
			Then(func() error { return errors.New("stop") })
		require.ErrorIs(t, r.Run(context.Background()), domain.ErrCallbackFailed)
		assert.Equal(t, "progress\n", stdout.String())
	})
}

func TestRunner_AsyncTimerWithFakeClock(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := open(t, "/")

		start := time.Now()
		var elapsed time.Duration
		r.ThenAsync(func(done domain.Done) {
			time.AfterFunc(time.Hour, func() { done(nil) })
		}).Then(func() error {
			elapsed = time.Since(start)
			return nil
		})

		require.NoError(t, r.Run(context.Background()))
		assert.Equal(t, time.Hour, elapsed)
	})
}

func TestRunner_RunHonorsCancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := open(t, "/")

		r.ThenAsync(func(domain.Done) {})
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		require.ErrorIs(t, r.Run(ctx), context.DeadlineExceeded)
		require.NoError(t, r.Err())
	})
}
