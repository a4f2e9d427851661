package commands

import (
	"fmt"
	"io"

	"github.com/enescakir/emoji"
	"github.com/fatih/color"
	"github.com/gimlet-io/moe/pkg/notifications"
)

// PrintReport writes one line per channel.
func PrintReport(w io.Writer, report notifications.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	for _, o := range []notifications.Outcome{report.Email, report.Slack} {
		switch {
		case o.Skipped:
			fmt.Fprintf(w, "%s %s %s\n", emoji.Warning, o.Channel, gray("skipped, not configured"))
		case o.Success:
			fmt.Fprintf(w, "%s %s %s %s\n", emoji.CheckMark, o.Channel, green("delivered"), gray(attempts(o)))
		default:
			fmt.Fprintf(w, "%s %s %s %s: %s\n", emoji.CrossMark, o.Channel, red("failed"), gray(attempts(o)), o.LastError)
		}
	}
}

func attempts(o notifications.Outcome) string {
	status := ""
	if o.HTTPStatus != nil {
		status = fmt.Sprintf(", status %d", *o.HTTPStatus)
	}
	plural := "s"
	if o.Attempts == 1 {
		plural = ""
	}
	return fmt.Sprintf("(%d attempt%s in %ds%s)", o.Attempts, plural, o.ElapsedSeconds, status)
}
