package commands

import (
	"io"

	"github.com/gimlet-io/moe/cmd/moe/config"
	"github.com/gimlet-io/moe/pkg/notifications"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// NotifyFailedExitCode is EX_TEMPFAIL from sysexits.h.
const NotifyFailedExitCode = 75

// GlobalFlags are shared by every moe command.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "dotenv style config file, MOE_CONFIG environment variable alternatively",
		EnvVars: []string{"MOE_CONFIG"},
	},
	&cli.BoolFlag{
		Name:  "verbose",
		Usage: "log provider responses",
	},
	&cli.BoolFlag{
		Name:  "no-retry",
		Usage: "make a single email delivery attempt",
	},
	&cli.StringFlag{
		Name:  "metrics-textfile",
		Usage: "write delivery metrics to this file for the node_exporter textfile collector",
	},
}

// RunWithIO runs a single command the way the moe binary would, over the
// given standard streams. Exit codes are returned as cli.ExitCoder errors
// instead of terminating the process.
func RunWithIO(cmd *cli.Command, args []string, in io.Reader, out, errOut io.Writer) error {
	app := &cli.App{
		Name:           "moe",
		Commands:       []*cli.Command{cmd},
		Reader:         in,
		Writer:         out,
		ErrWriter:      errOut,
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app.Run(args)
}

// Load reads and validates the configuration, and sets up logging.
func Load(c *cli.Context) (notifications.Config, error) {
	files := config.DefaultFiles()
	if path := c.String("config"); path != "" {
		files = []string{path}
	}

	cfg, err := config.Environ(files...)
	if err != nil {
		return notifications.Config{}, err
	}
	if c.Bool("verbose") {
		cfg.Verbose = true
	}
	if cfg.Verbose {
		cfg.Logging.Debug = true
	}
	if c.Bool("no-retry") {
		cfg.RetryEnabled = false
	}

	InitLogging(cfg)
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Trace(cfg.String())
	}

	n := cfg.Notifications()
	if err := n.Validate(); err != nil {
		return notifications.Config{}, err
	}
	return n, nil
}

// InitLogging configures the standard logrus logger.
func InitLogging(c *config.Config) {
	logrus.SetLevel(logrus.InfoLevel)
	if c.Logging.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if c.Logging.Trace {
		logrus.SetLevel(logrus.TraceLevel)
	}
	if c.Logging.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{
			PrettyPrint: c.Logging.Pretty,
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   c.Logging.Color,
			DisableColors: !c.Logging.Color,
		})
	}
}

// WriteMetrics dumps the delivery metrics if --metrics-textfile was given.
func WriteMetrics(c *cli.Context) {
	path := c.String("metrics-textfile")
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		logrus.Warnf("cannot write metrics to %s: %s", path, err)
	}
}
