package main

import (
	"fmt"
	"os"

	"github.com/enescakir/emoji"
	"github.com/gimlet-io/moe/pkg/commands/selftest"
	"github.com/gimlet-io/moe/pkg/commands/wrap"
	"github.com/gimlet-io/moe/pkg/version"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "moe",
		Version: version.String(),
		Usage:   "mail on error: runs a command and notifies by email and Slack when it fails",
		UsageText: `moe [flags] -- <command> [args...]
   <command> 2>&1 >/dev/null | moe --pipe --label <name>
   moe test`,
		EnableBashCompletion: true,
		Flags:                wrap.Flags,
		Action:               wrap.Action,
		Commands: []*cli.Command{
			&wrap.Command,
			&selftest.Command,
		},
	}
	wrap.Detach(app, os.Args)
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", emoji.CrossMark, err.Error())
		os.Exit(1)
	}
}
