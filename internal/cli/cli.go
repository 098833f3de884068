package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/selfreg/internal/app"
	"github.com/urfave/cli/v3"
)

const name = "selfreg"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// NewCommand builds the root command. Help and command output go to outW.
// Errors are returned to the caller instead of exiting the process.
func NewCommand(outW io.Writer) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     "Register modules, resolve their dependencies and run the resulting systems",
		Writer:    outW,
		ErrWriter: outW,
		Commands: []*cli.Command{
			runCmd(outW),
		},
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return usageError(err)
		},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func runCmd(outW io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Submit every enabled module, seal the registry and run the plan",
		Description: `Registers the built-in modules in manifest order, resolves every system's
dependencies and prints the registry:

  component name: <name>, name_hash: <hash>, id: <id>
  system name: <name>, id: <id>, dependencies: [<ids>]

Runnable systems are then executed in dependency order.

Every flag falls back to its SELFREG_* environment variable.

# Examples

  selfreg run
  selfreg run -m order.hcl --parallelism 4
  selfreg run --manifest order.yaml --strict --list-only`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "manifest",
				Aliases: []string{"m"},
				Usage:   "Path to an .hcl, .yaml or .yml manifest. (env: SELFREG_MANIFEST)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. (env: SELFREG_LOG_LEVEL)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "Log output format. Options: 'text' or 'json'. (env: SELFREG_LOG_FORMAT)",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when any system has an unresolved dependency. (env: SELFREG_STRICT)",
			},
			&cli.IntFlag{
				Name:  "parallelism",
				Usage: "Systems of one plan level run at once. 0 uses the manifest. (env: SELFREG_PARALLELISM)",
			},
			&cli.BoolFlag{
				Name:  "list-only",
				Usage: "Print the registry without running any system.",
			},
		},
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return usageError(err)
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			slog.Debug("CLI parser finished successfully.", "config", cfg)
			return app.NewApp(outW, cfg).Run(ctx)
		},
	}
}

// configFromCommand starts from the environment and overrides every value
// whose flag was set explicitly.
func configFromCommand(cmd *cli.Command) (*app.Config, error) {
	base, err := app.ConfigFromEnv()
	if err != nil {
		return nil, usageError(err)
	}

	if cmd.IsSet("manifest") {
		base.ManifestPath = cmd.String("manifest")
	}
	if cmd.IsSet("log-level") {
		base.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		base.LogFormat = cmd.String("log-format")
	}
	if cmd.IsSet("strict") {
		base.Strict = cmd.Bool("strict")
	}
	if cmd.IsSet("parallelism") {
		base.Parallelism = cmd.Int("parallelism")
	}
	base.ListOnly = cmd.Bool("list-only")

	cfg, err := app.NewConfig(base)
	if err != nil {
		return nil, usageError(err)
	}
	return cfg, nil
}
