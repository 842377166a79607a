package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"calbook/internal/calendar"
	"calbook/internal/command"
	"calbook/internal/config"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "calbook",
		Usage: "Manage personal calendars with recurring events from the terminal.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "calbook.yaml",
				Usage: "Path to the YAML configuration file.",
			},
		},
		Commands: []*cli.Command{
			interactiveCommand(),
			runCommand(),
		},
		// Plain `calbook` starts an interactive session.
		Action: func(c *cli.Context) error {
			return startInteractive(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func interactiveCommand() *cli.Command {
	return &cli.Command{
		Name:   "interactive",
		Usage:  "Start an interactive command session on stdin.",
		Action: startInteractive,
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Execute a commands file headlessly, stopping at the first error.",
		ArgsUsage: "<commandsFile>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("headless mode requires a commands file")
			}
			executor, logger, err := newSession(c)
			if err != nil {
				return err
			}

			f, err := os.Open(c.Args().First())
			if err != nil {
				return fmt.Errorf("open commands file: %w", err)
			}
			defer f.Close()

			logger.Info("Running commands file.", "file", c.Args().First())
			return command.RunScript(f, executor)
		},
	}
}

func startInteractive(c *cli.Context) error {
	executor, logger, err := newSession(c)
	if err != nil {
		return err
	}
	logger.Info("Starting interactive session.")
	return command.RunInteractive(os.Stdin, executor)
}

// newSession loads the configuration, prepares the calendar book with the
// configured default calendar and wires up the command executor.
func newSession(c *cli.Context) (*command.Executor, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	logger := setupLogger(logLevel)

	book := calendar.NewBook()
	if _, err := book.CreateCalendar(cfg.DefaultCalendar, cfg.Timezone); err != nil {
		return nil, nil, fmt.Errorf("create default calendar: %w", err)
	}

	executor := command.NewExecutor(book, os.Stdout, logger)
	if err := executor.Use(cfg.DefaultCalendar); err != nil {
		return nil, nil, err
	}
	logger.Info("Prepared calendar book.", "defaultCalendar", cfg.DefaultCalendar, "timezone", cfg.Timezone)
	return executor, logger, nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
