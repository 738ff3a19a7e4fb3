package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pomo/internal/backend/local"
	"pomo/internal/cli"
	"pomo/internal/commands"
	"pomo/internal/config"
	"pomo/internal/exitcode"
	"pomo/internal/service"
	"pomo/internal/store"
)

// testFactory creates a service factory that returns the given service.
func testFactory(svc service.Service) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func newDispatcher(t *testing.T) (*cli.Dispatcher, service.Service) {
	t.Helper()
	svc := local.New(context.Background(), store.NewMemoryStore(), local.Options{})
	return cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc)), svc
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newDispatcher(t)

	_, stderr, code := run(t, d, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d, _ := newDispatcher(t)

	_, stderr, code := run(t, d, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d, _ := newDispatcher(t)

	stdout, stderr, code := run(t, d, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d, _ := newDispatcher(t)

	stdout, stderr, code := run(t, d, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "pomo 0.1.0\n" {
		t.Errorf("expected 'pomo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d, _ := newDispatcher(t)

	_, stderr, code := run(t, d, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	d, _ := newDispatcher(t)

	_, stderr, code := run(t, d, "add", "--target")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -target\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	d, _ := newDispatcher(t)
	dir := t.TempDir()

	if _, stderr, code := run(t, d, "add", "--config", dir, "--target", "2", "Write", "report"); code != exitcode.Success {
		t.Fatalf("add failed with %d: %s", code, stderr)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	stdout, stderr, code := run(t, d)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "   1  [ ] Write report  0/2\n" {
		t.Errorf("unexpected list output: %q", stdout)
	}
}

func TestDispatcher_ConfigError(t *testing.T) {
	d, _ := newDispatcher(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("timer:\n  focus: 0s\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := run(t, d, "list", "--config", dir)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr, "error: config error: ") {
		t.Errorf("unexpected stderr: %q", stderr)
	}

	// Commands without the store do not read the config file.
	if _, _, code := run(t, d, "version", "--config", dir); code != exitcode.Success {
		t.Errorf("expected version to succeed, got %d", code)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("database is locked")
	})

	_, stderr, code := run(t, d, "list", "--config", t.TempDir())

	if code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, code)
	}
	if stderr != "error: store error: database is locked\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDispatcher_ClosesService(t *testing.T) {
	closed := false
	svc := &closingService{
		Service: local.New(context.Background(), store.NewMemoryStore(), local.Options{}),
		close:   func() error { closed = true; return nil },
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	if _, _, code := run(t, d, "list", "--config", t.TempDir()); code != exitcode.Success {
		t.Fatalf("list failed with %d", code)
	}
	if !closed {
		t.Error("expected service to be closed after the command")
	}
}

func TestDispatcher_DebugLogging(t *testing.T) {
	d, _ := newDispatcher(t)

	_, stderr, code := run(t, d, "list", "--debug", "--quiet", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr, "level=DEBUG") || !strings.Contains(stderr, "command=list") {
		t.Errorf("expected debug logs on stderr, got %q", stderr)
	}
}

type closingService struct {
	service.Service
	close func() error
}

func (c *closingService) Close() error { return c.close() }
