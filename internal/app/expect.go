package app

import (
	"errors"
	"strings"

	"go.trai.ch/runq/internal/core/domain"
	"go.trai.ch/zerr"
)

// checkExpectation compares exp with the last process result.
func checkExpectation(exp domain.Expectation, res domain.Result) error {
	if exp.ExitCode != nil && res.ExitCode != *exp.ExitCode {
		err := zerr.With(zerr.New("unexpected exit code"), "want", *exp.ExitCode)
		err = zerr.With(err, "got", res.ExitCode)
		return errors.Join(domain.ErrExpectationFailed, zerr.With(err, "command", res.Command))
	}
	if exp.Stdout != "" && !strings.Contains(res.Output.Stdout, exp.Stdout) {
		err := zerr.With(zerr.New("standard output does not contain expected text"), "want", exp.Stdout)
		return errors.Join(domain.ErrExpectationFailed, zerr.With(err, "command", res.Command))
	}
	return nil
}
