package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/afetnet/pqcbridge"
	"github.com/afetnet/pqcbridge/internal/logger"
)

const (
	exitError    = 1
	exitMismatch = 2
)

// Config holds the process streams so tests can drive the app in memory.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig uses the process's standard streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// env is built once per invocation by the app's Before hook.
type env struct {
	cfg    Config
	log    *zerolog.Logger
	signer *pqcbridge.Signer
	kem    *pqcbridge.KEM
	out    *printer
}

func run(args []string, cfg Config) error {
	return newApp(cfg).Run(args)
}

func newApp(cfg Config) *cli.App {
	e := &env{cfg: cfg}

	app := &cli.App{
		Name:      "pqcbridge",
		Usage:     "Post-quantum signatures and key encapsulation over hex strings",
		UsageText: "pqcbridge [global options] command [command options] [arguments...]",
		Version:   pqcbridge.Version,
		Reader:    cfg.Stdin,
		Writer:    cfg.Stdout,
		ErrWriter: cfg.Stderr,
		Flags:     globalFlags(),
		Before: func(c *cli.Context) error {
			return e.setup(c)
		},
		Commands: []*cli.Command{
			signCommand(e),
			kemCommand(e),
			sessionCommand(e),
			selftestCommand(e),
			benchmarkCommand(e),
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(c *cli.Context) error {
					return e.out.emit(pqcbridge.Version, map[string]string{"version": pqcbridge.Version})
				},
			},
		},
		// Exit codes are handled by main so that tests are never terminated.
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{
			Name:    "config",
			Usage:   "YAML file providing defaults for the flags below",
			EnvVars: []string{"PQCBRIDGE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "loglevel",
			Value:   "warn",
			Usage:   "Log level: debug, info, warn, error, fatal, disabled",
			EnvVars: []string{"PQCBRIDGE_LOG_LEVEL"},
		},
		&cli.BoolFlag{
			Name:    "log-json",
			Usage:   "Write logs as JSON lines",
			EnvVars: []string{"PQCBRIDGE_LOG_JSON"},
		},
		&cli.StringFlag{
			Name:    "sign-scheme",
			Value:   pqcbridge.SchemeDilithium5,
			Usage:   "Signature scheme: Dilithium5 or ML-DSA-87",
			EnvVars: []string{"PQCBRIDGE_SIGN_SCHEME"},
		},
		&cli.StringFlag{
			Name:    "kem-scheme",
			Value:   pqcbridge.SchemeKyber1024,
			Usage:   "KEM scheme: Kyber1024 or ML-KEM-1024",
			EnvVars: []string{"PQCBRIDGE_KEM_SCHEME"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   formatText,
			Usage:   "Output format: text or json",
			EnvVars: []string{"PQCBRIDGE_OUTPUT"},
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	e.log = logger.Create(&logger.Config{
		MinLevel: settings.LogLevel,
		JSON:     settings.LogJSON,
		Output:   e.cfg.Stderr,
	})
	if settings.source != "" {
		e.log.Debug().Str("file", settings.source).Msg("loaded configuration")
	}

	e.out, err = newPrinter(e.cfg.Stdout, settings.Output)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	e.signer, err = pqcbridge.NewSigner(
		pqcbridge.WithSignatureScheme(settings.SignScheme),
		pqcbridge.WithLogger(*e.log),
	)
	if err != nil {
		return cli.Exit(errors.Wrap(err, "configure signature scheme").Error(), exitError)
	}
	e.kem, err = pqcbridge.NewKEM(
		pqcbridge.WithKEMScheme(settings.KEMScheme),
		pqcbridge.WithLogger(*e.log),
	)
	if err != nil {
		return cli.Exit(errors.Wrap(err, "configure kem scheme").Error(), exitError)
	}
	return nil
}

// fail converts a library or I/O error into an exit error.
func fail(err error, msg string) error {
	return cli.Exit(errors.Wrap(err, msg).Error(), exitError)
}
