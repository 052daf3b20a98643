package domain

import (
	"maps"
	"slices"
)

// StepKind names the variant of a Step.
type StepKind string

const (
	// StepKindProcess spawns an external process.
	StepKindProcess StepKind = "process"
	// StepKindDirectory changes the runner's working directory.
	StepKindDirectory StepKind = "directory"
	// StepKindCallback invokes user code.
	StepKindCallback StepKind = "callback"
)

// Step is one unit of queued work.
// The set of implementations is closed: ProcessStep, DirectoryStep, SyncCallback and AsyncCallback.
type Step interface {
	Kind() StepKind
	// Label is a short human-readable description used in logs and telemetry.
	Label() string
	isStep()
}

// ProcessOptions overrides the runner defaults for a single process step.
type ProcessOptions struct {
	// Dir overrides the working directory. Relative values resolve against the runner's cwd.
	Dir string
	// Env is merged key by key over the runner's environment.
	Env map[string]string
}

// ProcessStep spawns Command with Args.
type ProcessStep struct {
	Command string
	Args    []string
	Options ProcessOptions
}

// NewProcessStep returns a ProcessStep holding private copies of args and env.
func NewProcessStep(command string, args []string, opts ProcessOptions) ProcessStep {
	return ProcessStep{
		Command: command,
		Args:    slices.Clone(args),
		Options: ProcessOptions{
			Dir: opts.Dir,
			Env: maps.Clone(opts.Env),
		},
	}
}

// Kind implements Step.
func (ProcessStep) Kind() StepKind { return StepKindProcess }

// Label implements Step.
func (s ProcessStep) Label() string {
	return FormatCommand(s.Command, s.Args)
}

func (ProcessStep) isStep() {}

// DirectoryStep changes the working directory used by later process steps.
type DirectoryStep struct {
	Path string
}

// Kind implements Step.
func (DirectoryStep) Kind() StepKind { return StepKindDirectory }

// Label implements Step.
func (s DirectoryStep) Label() string { return "cd " + s.Path }

func (DirectoryStep) isStep() {}

// Done is the completion signal handed to an AsyncCallback.
// A non-nil error halts the queue.
type Done func(err error)

// SyncCallback runs to completion when invoked.
type SyncCallback func() error

// Kind implements Step.
func (SyncCallback) Kind() StepKind { return StepKindCallback }

// Label implements Step.
func (SyncCallback) Label() string { return "callback" }

func (SyncCallback) isStep() {}

// AsyncCallback completes when it calls done.
type AsyncCallback func(done Done)

// Kind implements Step.
func (AsyncCallback) Kind() StepKind { return StepKindCallback }

// Label implements Step.
func (AsyncCallback) Label() string { return "async callback" }

func (AsyncCallback) isStep() {}
