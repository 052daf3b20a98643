// Package config provides the script loader for runq.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/runq/internal/core/domain"
	"go.trai.ch/runq/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the script looked up when no path is given.
const DefaultFilename = "runq.yaml"

var _ ports.ScriptLoader = (*Loader)(nil)

// Loader implements ports.ScriptLoader using YAML files.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads a script file from the given path and returns the parsed script.
// A directory path is resolved to the runq.yaml inside it.
func (l *Loader) Load(path string) (*domain.Script, error) {
	if path == "" {
		path = DefaultFilename
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFilename)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve script path"), "path", path)
	}

	data, err := os.ReadFile(abs) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read script file"), "path", abs)
	}

	script, err := Parse(data, filepath.Dir(abs))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse script file"), "path", abs)
	}

	l.logger.Debug("script loaded", "path", abs, "steps", len(script.Steps))
	return script, nil
}

// Parse decodes script data. Relative directories resolve against baseDir.
func Parse(data []byte, baseDir string) (*domain.Script, error) {
	var runfile Runfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&runfile); err != nil {
		return nil, invalid(zerr.Wrap(err, "failed to decode yaml"))
	}

	if runfile.Version != "" && runfile.Version != "1" {
		return nil, invalid(zerr.With(zerr.New("unsupported script version"), "version", runfile.Version))
	}

	dir := baseDir
	if runfile.Dir != "" {
		if filepath.IsAbs(runfile.Dir) {
			dir = filepath.Clean(runfile.Dir)
		} else {
			dir = filepath.Join(baseDir, runfile.Dir)
		}
	}

	script := &domain.Script{
		Dir:   dir,
		Env:   runfile.Env,
		Steps: make([]domain.ScriptStep, 0, len(runfile.Steps)),
	}

	for i, dto := range runfile.Steps {
		step, err := convertStep(dto)
		if err != nil {
			return nil, invalid(zerr.With(err, "step", i))
		}
		script.Steps = append(script.Steps, step)
	}

	return script, nil
}

func convertStep(dto StepDTO) (domain.ScriptStep, error) {
	var ops []domain.ScriptOp
	if dto.Exec != nil {
		ops = append(ops, domain.OpExec)
	}
	if dto.Chdir != nil {
		ops = append(ops, domain.OpChdir)
	}
	if dto.Echo != nil {
		ops = append(ops, domain.OpEcho)
	}
	if dto.Sleep != "" {
		ops = append(ops, domain.OpSleep)
	}
	if dto.Expect != nil {
		ops = append(ops, domain.OpExpect)
	}
	if len(ops) != 1 {
		return domain.ScriptStep{}, zerr.With(zerr.New("step must define exactly one action"), "actions", len(ops))
	}

	op := ops[0]
	if op != domain.OpExec && (dto.Dir != "" || dto.Env != nil) {
		return domain.ScriptStep{}, zerr.With(zerr.New("dir and env are only valid on exec steps"), "action", string(op))
	}

	step := domain.ScriptStep{Op: op}
	switch op {
	case domain.OpExec:
		if len(dto.Exec) == 0 || dto.Exec[0] == "" {
			return domain.ScriptStep{}, zerr.New("exec requires a command")
		}
		step.Exec = dto.Exec
		step.Dir = dto.Dir
		step.Env = dto.Env
	case domain.OpChdir:
		step.Path = *dto.Chdir
	case domain.OpEcho:
		step.Message = *dto.Echo
	case domain.OpSleep:
		d, err := time.ParseDuration(dto.Sleep)
		if err != nil {
			return domain.ScriptStep{}, zerr.With(zerr.Wrap(err, "invalid sleep duration"), "sleep", dto.Sleep)
		}
		if d < 0 {
			return domain.ScriptStep{}, zerr.With(zerr.New("sleep duration must not be negative"), "sleep", dto.Sleep)
		}
		step.Sleep = d
	case domain.OpExpect:
		step.Expect = domain.Expectation{
			ExitCode: dto.Expect.Exit,
			Stdout:   dto.Expect.Stdout,
		}
	}
	return step, nil
}

func invalid(err error) error {
	return errors.Join(domain.ErrInvalidScript, err)
}
