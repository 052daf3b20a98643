package domain_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/runq/internal/core/domain"
)

func TestParseEnviron(t *testing.T) {
	env := domain.ParseEnviron([]string{"A=1", "B=x=y", "C=", "broken"})
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "C": ""}, env)
}

func TestEnviron_Sorted(t *testing.T) {
	assert.Equal(t, []string{"A=1", "B=2", "Z=3"}, domain.Environ(map[string]string{"Z": "3", "A": "1", "B": "2"}))
}

func TestMergeEnv(t *testing.T) {
	base := map[string]string{"KEEP": "yes", "FOO": "base"}
	overrides := map[string]string{"FOO": "1"}

	merged := domain.MergeEnv(base, overrides)
	assert.Equal(t, map[string]string{"KEEP": "yes", "FOO": "1"}, merged)
	assert.Equal(t, "base", base["FOO"])

	assert.Empty(t, domain.MergeEnv(nil, nil))
}

func TestPrependSearchPath(t *testing.T) {
	sep := string(os.PathListSeparator)
	assert.Equal(t, "bin"+sep+"/usr/bin", domain.PrependSearchPath("bin", "/usr/bin"))
	assert.Equal(t, "bin", domain.PrependSearchPath("bin", ""))
}

func TestNewProcessStep_Copies(t *testing.T) {
	args := []string{"a"}
	env := map[string]string{"K": "v"}
	step := domain.NewProcessStep("echo", args, domain.ProcessOptions{Dir: "sub", Env: env})

	args[0] = "changed"
	env["K"] = "changed"

	assert.Equal(t, []string{"a"}, step.Args)
	assert.Equal(t, "v", step.Options.Env["K"])
	assert.Equal(t, "echo a", step.Label())
	assert.Equal(t, domain.StepKindProcess, step.Kind())
	assert.Equal(t, "cd sub", domain.DirectoryStep{Path: "sub"}.Label())
}
