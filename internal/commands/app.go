// Package commands implements the vcard command line using Cobra.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/vcard"
	"github.com/simonhull/vcard/internal/config"
)

// ConfigLoader loads CLI config from a path ("" = search default locations).
type ConfigLoader func(path string) (config.Config, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig ConfigLoader
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	cfgFile    string
	jsonOutput bool
	verbose    bool
	cfg        config.Config
	logger     *slog.Logger

	// Flags overriding config values.
	dialect        string
	defaultCharset string
	strict         bool

	photosDir       string
	convertVersion  string
	convertCharset  string
	convertBackup   string
	convertValidate bool
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig: config.Load,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "vcard",
		Short: "Inspect and convert vCard files",
		Long: `vcard reads vCard 2.1, 3.0 and 4.0 address books.

Use it to count and inspect contacts, guess which device exported a file,
extract photos and convert between vCard versions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./vcard.yaml)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.dialect, "dialect", "", "force a vCard version (2.1, 3.0, 4.0)")
	root.PersistentFlags().StringVar(&a.defaultCharset, "charset", "", "charset of 2.1 values without CHARSET")
	root.PersistentFlags().BoolVar(&a.strict, "strict", false, "fail on undecodable values")

	root.AddCommand(a.newCountCommand())
	root.AddCommand(a.newDetectCommand())
	root.AddCommand(a.newDumpCommand())
	root.AddCommand(a.newShowCommand())
	root.AddCommand(a.newPhotosCommand())
	root.AddCommand(a.newConvertCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	err := a.root.Execute()
	if err != nil {
		a.root.PrintErrln("Error:", err)
	}
	return classify(err)
}

// SetArgs sets the command-line arguments, for tests and embedding.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

func (a *App) initConfig(cmd *cobra.Command) error {
	cfg, err := a.loadConfig(a.cfgFile)
	if err != nil {
		return exitWithCode(ExitUsage, err)
	}

	// Flags win over config values.
	flags := cmd.Flags()
	if flags.Changed("dialect") {
		if cfg.Dialect, err = vcard.ParseDialect(a.dialect); err != nil {
			return exitWithCode(ExitUsage, err)
		}
	}
	if flags.Changed("charset") {
		cfg.DefaultCharset = a.defaultCharset
	}
	if flags.Changed("strict") {
		cfg.Strict = a.strict
	}
	if a.verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	a.cfg = cfg

	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	return nil
}

// parseOptions returns the library options for the loaded config.
func (a *App) parseOptions() []vcard.Option {
	return append(a.cfg.ParseOptions(), vcard.WithLogger(a.logger))
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
