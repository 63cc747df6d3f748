package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/windstyle/cli/cmd"
	"github.com/ardnew/windstyle/pkg"
)

// CLI is the top-level command-line interface for windstyle.
type CLI struct {
	Log     logConfig     `embed:"" group:"log"     prefix:"log-"`
	Pprof   pprofConfig   `embed:"" group:"pprof"   prefix:"pprof-"`
	Metrics metricsConfig `embed:"" group:"metrics" prefix:"metrics-"`

	Version kong.VersionFlag `help:"Print version and exit"`

	Source   []string `help:"Expression document file(s) or '-' for stdin"             name:"source"    short:"s" type:"existingfile"`
	SpecPath []string `help:"Directories searched for property spec files, in order" name:"spec-path"                     type:"path"`

	Init  cmd.Init  `cmd:"" help:"Initialize configuration file"`
	Check cmd.Check `cmd:"" help:"Report how expressions depend on their inputs"`
	Ramp  cmd.Ramp  `cmd:"" help:"Render a color expression as a wind speed color ramp"`
	Fmt   cmd.Fmt   `cmd:"" help:"Reformat expression documents"`
	Repl  cmd.Repl  `cmd:"" help:"Evaluate expressions interactively"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate expressions"`
}

// Run executes the windstyle CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)
	jsonFilePath := strings.TrimSuffix(configFilePath, filepath.Ext(configFilePath)) + ".json"

	vars := kong.Vars{
		"version":            pkg.Name + " " + strings.TrimSpace(pkg.Version),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing so that errors reported during
	// parsing already use them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Metrics.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, jsonFilePath),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSources(ctx, cli.Source)
	ctx = cmd.WithSpecPath(ctx, specPath(cli.SpecPath))

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	defer cli.Metrics.start(ctx)()

	return ktx.Run(ctx, &cli)
}
