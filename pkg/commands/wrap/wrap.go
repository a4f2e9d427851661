package wrap

import (
	"os/signal"
	"syscall"

	"github.com/gimlet-io/moe/pkg/commands"
	"github.com/gimlet-io/moe/pkg/notifications"
	"github.com/gimlet-io/moe/pkg/runner"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var Flags = append([]cli.Flag{
	&cli.BoolFlag{
		Name:  "pipe",
		Usage: "read an error stream from stdin instead of running a command; any output is a failure",
	},
	&cli.StringFlag{
		Name:  "label",
		Usage: "command name to report in --pipe mode",
		Value: "stdin",
	},
	&cli.BoolFlag{
		Name:  "fail-on-notify-error",
		Usage: "exit 75 when a notification could not be delivered",
	},
}, commands.GlobalFlags...)

var Command = cli.Command{
	Name:  "run",
	Usage: "Runs a command and notifies when it fails",
	UsageText: `moe run -- backup.sh --full
   some-job 2>&1 >/dev/null | moe run --pipe --label some-job`,
	Flags:  Flags,
	Action: Action,
}

// Explicit reports whether args wrap a command after "--" without naming
// one of commands first.
func Explicit(commands []*cli.Command, args []string) bool {
	if len(args) < 2 {
		return false
	}
	for _, arg := range args[1:] {
		if arg == "--" {
			return true
		}
		for _, c := range commands {
			if c.HasName(arg) {
				return false
			}
		}
	}
	return false
}

// Detach drops the subcommands of app when args wrap a command explicitly,
// so `moe -- test -f /backup/ok` runs test(1) and not `moe test`.
func Detach(app *cli.App, args []string) {
	if !Explicit(app.Commands, args) {
		return
	}
	app.Commands = nil
	app.HideHelpCommand = true
}

// Action is also the default action of the moe binary.
func Action(c *cli.Context) error {
	if !c.Bool("pipe") && c.Args().Len() == 0 {
		return errors.New("Usage: moe [flags] -- <command> [args...], or moe --pipe")
	}

	cfg, err := commands.Load(c)
	if err != nil {
		return err
	}

	result, failed, err := collect(c)
	if err != nil {
		return err
	}
	if !failed {
		return nil
	}

	// signals sent before this point were meant for the job
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logrus.Debugf("%s exited with %d, sending notifications", result.Command, result.ExitCode)
	report := notifications.New(cfg).Notify(ctx, notifications.RealPayloads{Result: result})
	commands.WriteMetrics(c)

	exitCode := result.ExitCode
	if c.Bool("pipe") {
		exitCode = 0
	}
	if !report.Success() {
		logrus.Errorf("notification failed: %s", report.Err())
		if c.Bool("pipe") || c.Bool("fail-on-notify-error") {
			exitCode = commands.NotifyFailedExitCode
		}
	}

	if exitCode == 0 {
		return nil
	}
	if exitCode < 0 {
		exitCode = 127
	}
	return cli.Exit("", exitCode)
}

// collect runs the wrapped command, or reads the piped error stream.
func collect(c *cli.Context) (notifications.CommandResult, bool, error) {
	if c.Bool("pipe") {
		return runner.FromStream(c.String("label"), c.App.Reader)
	}

	// the job gets the signals too, moe stays until it exits
	_, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := runner.Run(c.Context, c.Args().Slice(), c.App.Writer, c.App.ErrWriter)
	if err != nil {
		return result, false, err
	}
	return result, runner.Failed(result), nil
}
