package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"dema/internal/aggregate"
	"dema/internal/score"

	"github.com/fatih/color"
	"github.com/spf13/cast"
	"github.com/urfave/cli/v2"
)

var version = "dev"

// prepareLogger installs a JSON slog logger on stderr as the default logger.
// Unknown levels fall back to info.
func prepareLogger(level string) {
	var logLevel slog.Level

	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	slog.SetDefault(slog.New(handler))
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "dema",
		Usage:   "Score decision alternatives with Logic Scoring of Preference",
		Version: version,
		Commands: []*cli.Command{
			scoreCmd(),
			labelCmd(),
			connectorCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func labelCmd() *cli.Command {
	return &cli.Command{
		Name:      "label",
		Usage:     "Print the qualitative label of a score in [0,1]",
		ArgsUsage: "<score>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one score")
			}
			s, err := cast.ToFloat64E(c.Args().First())
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", c.Args().First(), err)
			}
			if math.IsNaN(s) || s < 0 || s > 1 {
				return fmt.Errorf("score %v is outside [0,1]", s)
			}
			fmt.Fprintln(c.App.Writer, score.Label(s))
			return nil
		},
	}
}

func connectorCmd() *cli.Command {
	return &cli.Command{
		Name:      "connector",
		Usage:     "Print the connector for a logic requirement and intensity",
		ArgsUsage: "<mandatory|desirable|neutral|substitutable|sufficient> <low|medium|high|highest>",
		Action: func(c *cli.Context) error {
			req := aggregate.Requirement(c.Args().Get(0))
			intensity := c.Args().Get(1)
			conn, ok := aggregate.ConnectorFor(req, intensity)
			if !ok {
				return fmt.Errorf("no connector for requirement %q with intensity %q", req, intensity)
			}
			fmt.Fprintf(c.App.Writer, "%s\t%s\n", conn, conn.Intensity())
			return nil
		},
	}
}
