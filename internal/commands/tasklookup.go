package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"pomo/internal/exitcode"
	"pomo/internal/service"
)

// resolveTask parses a task number from args and looks the task up.
// On failure it reports to errOut and returns a non-zero exit code.
func resolveTask(ctx context.Context, svc service.Service, args []string, errOut io.Writer) (service.Task, int) {
	n, err := ParseTaskNumber(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}
	return taskByNumber(ctx, svc, n, errOut)
}

func taskByNumber(ctx context.Context, svc service.Service, n int, errOut io.Writer) (service.Task, int) {
	task, err := svc.TaskByNumber(ctx, n)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			fmt.Fprintf(errOut, "error: task number out of range: %d\n", n)
			return service.Task{}, exitcode.UserError
		}
		return service.Task{}, reportError(errOut, err)
	}
	return task, exitcode.Success
}

// reportError prints err and maps it to an exit code: validation errors are
// user errors, anything else came from the store.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrInvalidTarget):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: store error: %v\n", err)
	return exitcode.StoreError
}

func ok(out io.Writer, quiet bool) int {
	if !quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
