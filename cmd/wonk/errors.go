package main

import (
	"fmt"

	"github.com/etr/wonk-sub000/internal/werrors"
)

// usageErrorf builds a werrors.Usage error for CLI-level argument problems,
// mapped to exit code 2 by werrors.ExitCode.
func usageErrorf(format string, args ...any) error {
	return werrors.New(werrors.Usage, "cli", fmt.Errorf(format, args...))
}
