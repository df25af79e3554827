package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/andywolf/envsync/internal/redact"
)

// CLIStore drives an external secret-store CLI via subprocess calls. The
// store command is expected to follow the conventional verbs:
//
//	<cmd> [args...] list            names, one per line, on stdout
//	<cmd> [args...] get <name>      value on stdout
//	<cmd> [args...] put <name>      value read from stdin
//	<cmd> [args...] delete <name>
//
// Values are always passed over stdin, never argv, so they cannot show up
// in process listings. Each call blocks the single synchronous control
// flow until the subprocess exits.
type CLIStore struct {
	command string
	args    []string
}

// NewCLIStore returns a store driving the given command.
func NewCLIStore(command string, args ...string) *CLIStore {
	return &CLIStore{command: command, args: args}
}

// Name identifies the backend.
func (s *CLIStore) Name() string { return "cli" }

// List returns all secret names known to the store CLI.
func (s *CLIStore) List(ctx context.Context) ([]string, error) {
	out, err := s.run(ctx, nil, "list")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Get retrieves one secret value.
func (s *CLIStore) Get(ctx context.Context, name string) (string, error) {
	out, err := s.run(ctx, nil, "get", name)
	if err != nil {
		if isExitError(err) {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
		}
		return "", err
	}
	return strings.TrimSuffix(out, "\n"), nil
}

// Put writes one secret, piping the value over stdin.
func (s *CLIStore) Put(ctx context.Context, name, value string) error {
	_, err := s.run(ctx, strings.NewReader(value), "put", name)
	return err
}

// Delete removes one secret.
func (s *CLIStore) Delete(ctx context.Context, name string) error {
	_, err := s.run(ctx, nil, "delete", name)
	if err != nil && isExitError(err) {
		return fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return err
}

// Close is a no-op; every call spawns its own subprocess.
func (s *CLIStore) Close() error { return nil }

func (s *CLIStore) run(ctx context.Context, stdin *strings.Reader, verb ...string) (string, error) {
	if s.command == "" {
		return "", fmt.Errorf("%w: no store command configured", ErrStoreUnavailable)
	}

	args := append(append([]string{}, s.args...), verb...)
	cmd := exec.CommandContext(ctx, s.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = stdin
	}

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// Subprocess stderr can echo payloads; scrub before it can
			// land in an error message.
			detail := redact.Text(strings.TrimSpace(stderr.String()))
			return "", fmt.Errorf("store command %s %s failed: %w: %s",
				s.command, strings.Join(verb, " "), err, detail)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, s.command, err)
	}
	return stdout.String(), nil
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

var _ Store = (*CLIStore)(nil)
