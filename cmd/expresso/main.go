// Command expresso compiles EXPRESS schemas and parses STEP Part 21
// exchange files from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/stepkit/expresso/config"
)

// CLI is the root command set, parsed by kong from os.Args.
var CLI struct {
	Config  string `help:"Path to expresso.yaml." default:"expresso.yaml"`
	Verbose bool   `help:"Enable debug logging." short:"v"`
	Quiet   bool   `help:"Suppress non-error output." short:"q"`

	ParseExpress ParseExpressCmd `cmd:"" name:"parse-express" help:"Compile EXPRESS schema source into the legalized IR."`
	ParseStep    ParseStepCmd    `cmd:"" name:"parse-step" help:"Parse a STEP Part 21 exchange file."`
	Inspect      InspectCmd      `cmd:"" help:"Print a JSON summary of a STEP Part 21 exchange file."`
	Version      VersionCmd      `cmd:"" help:"Print the expresso version."`
}

// Context carries shared state into every subcommand's Run method.
type Context struct {
	Config *config.Config
	Logger *zap.Logger
	Quiet  bool
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("expresso"),
		kong.Description("EXPRESS schema compiler and STEP Part 21 parser."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "expresso: loading configuration:", err)
		os.Exit(1)
	}

	logger, err := newLogger(CLI.Verbose, CLI.Quiet)
	if err != nil {
		fmt.Fprintln(os.Stderr, "expresso: initializing logger:", err)
		os.Exit(1)
	}

	defer logger.Sync() //nolint:errcheck

	appCtx := &Context{Config: cfg, Logger: logger, Quiet: CLI.Quiet}

	if err := kctx.Run(appCtx); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	var zcfg zap.Config

	switch {
	case verbose:
		zcfg = zap.NewDevelopmentConfig()
	default:
		zcfg = zap.NewProductionConfig()
	}

	if quiet {
		zcfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zcfg.Build()
}
