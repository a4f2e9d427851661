// Package runner executes the wrapped command and describes how it ended.
package runner

import (
	"context"
	"io"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"time"

	"github.com/gimlet-io/moe/pkg/notifications"
	"github.com/pkg/errors"
)

// MaxCapture is how much of each output stream is kept for the notification.
const MaxCapture = 64 * 1024

// Run starts argv, streams its output to stdout and stderr, and captures the
// tail of both streams. A command that cannot be started is reported with
// exit code -1 and the start error on stderr.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) (notifications.CommandResult, error) {
	if len(argv) == 0 {
		return notifications.CommandResult{}, errors.New("no command given")
	}

	outBuf := newTailBuffer(MaxCapture)
	errBuf := newTailBuffer(MaxCapture)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = io.MultiWriter(stdout, outBuf)
	cmd.Stderr = io.MultiWriter(stderr, errBuf)

	exitCode := 0
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
			errBuf.Write([]byte(err.Error()))
		}
	}

	return describe(strings.Join(argv, " "), exitCode, outBuf.String(), errBuf.String()), nil
}

// FromStream reads an error stream to EOF. Any content counts as a failure.
func FromStream(label string, r io.Reader) (notifications.CommandResult, bool, error) {
	buf := newTailBuffer(MaxCapture)
	if _, err := io.Copy(buf, r); err != nil {
		return notifications.CommandResult{}, false, errors.Wrap(err, "cannot read error stream")
	}

	stderr := buf.String()
	if strings.TrimSpace(stderr) == "" {
		return describe(label, 0, "", ""), false, nil
	}
	return describe(label, 1, "", stderr), true, nil
}

// Failed reports whether the command result calls for a notification.
func Failed(result notifications.CommandResult) bool {
	return result.ExitCode != 0
}

func describe(command string, exitCode int, stdout, stderr string) notifications.CommandResult {
	return notifications.CommandResult{
		Command:   command,
		ExitCode:  exitCode,
		Stdout:    stdout,
		Stderr:    stderr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hostname:  Hostname(),
		User:      Username(),
	}
}

// Hostname returns the host name, or "unknown".
func Hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "unknown"
	}
	return name
}

// Username returns the current user's login name.
func Username() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
