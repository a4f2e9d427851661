package selftest

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/enescakir/emoji"
	"github.com/gimlet-io/moe/pkg/commands"
	"github.com/gimlet-io/moe/pkg/notifications"
	"github.com/gimlet-io/moe/pkg/runner"
	"github.com/urfave/cli/v2"
)

var Command = cli.Command{
	Name:      "test",
	Usage:     "Sends a test notification on every configured channel",
	UsageText: `moe test --config ~/.config/moe/moe.conf`,
	Flags:     commands.GlobalFlags,
	Action:    selftest,
}

func selftest(c *cli.Context) error {
	cfg, err := commands.Load(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(c.App.Writer, "%s Sending test notifications..\n", emoji.HourglassNotDone)
	report := notifications.New(cfg).Notify(ctx, notifications.TestPayloads{
		Hostname:  runner.Hostname(),
		User:      runner.Username(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	commands.WriteMetrics(c)

	commands.PrintReport(c.App.Writer, report)
	if !report.Success() {
		return cli.Exit("", 1)
	}
	return nil
}
