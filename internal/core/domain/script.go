package domain

import "time"

// ScriptOp names the action of a script entry.
type ScriptOp string

const (
	// OpExec runs a process.
	OpExec ScriptOp = "exec"
	// OpChdir changes the working directory.
	OpChdir ScriptOp = "chdir"
	// OpEcho prints a message.
	OpEcho ScriptOp = "echo"
	// OpSleep waits for a duration without blocking the process.
	OpSleep ScriptOp = "sleep"
	// OpExpect checks the last process result.
	OpExpect ScriptOp = "expect"
)

// Script is a parsed runq.yaml file.
type Script struct {
	// Dir is the absolute initial working directory.
	Dir string
	// Env overrides the inherited process environment.
	Env   map[string]string
	Steps []ScriptStep
}

// ScriptStep is one entry of a script.
type ScriptStep struct {
	Op ScriptOp
	// Exec holds the command followed by its arguments.
	Exec []string
	// Dir and Env are per-step process overrides.
	Dir     string
	Env     map[string]string
	Path    string
	Message string
	Sleep   time.Duration
	Expect  Expectation
}

// Expectation is checked against the runner's last process result.
type Expectation struct {
	ExitCode *int
	// Stdout must be contained in the last standard output.
	Stdout string
}
