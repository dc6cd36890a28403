package cli

import (
	"errors"
	"fmt"

	"imgbom/internal/bom"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

var kindExitCodes = map[bom.Kind]int{
	bom.KindMissingInclude:    11,
	bom.KindMissingDirectory:  12,
	bom.KindMissingFile:       13,
	bom.KindHashMismatch:      14,
	bom.KindLoad:              15,
	bom.KindCopyFailure:       16,
	bom.KindDirectoryCreation: 17,
	bom.KindConflictingHash:   18,
}

// withExitCode attaches the exit code of a staging failure to err
func withExitCode(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	if code, ok := kindExitCodes[bom.KindOf(err)]; ok {
		return &ExitError{Code: code, Err: err}
	}
	return err
}

// ExitCode returns the process exit status for an error returned by Execute
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if code, ok := kindExitCodes[bom.KindOf(err)]; ok {
		return code
	}
	return 1
}
