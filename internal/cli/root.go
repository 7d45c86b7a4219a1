// Package cli provides the command-line interface for ccswitch.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xabinapal/ccswitch/internal/config"
	"github.com/xabinapal/ccswitch/internal/logging"
	"github.com/xabinapal/ccswitch/internal/notify"
	"github.com/xabinapal/ccswitch/internal/provider"
)

// EnvPrefix prefixes the environment variables bound to global flags.
const EnvPrefix = "CCSWITCH"

// skipInitAnnotation marks commands that run without opening the store.
const skipInitAnnotation = "ccswitch/skip-init"

// CLI holds the application state for the CLI.
type CLI struct {
	Paths   config.Paths
	Manager *provider.Manager
	rootCmd *cobra.Command
	v       *viper.Viper
	logger  *logging.Logger

	out    io.Writer
	errOut io.Writer
	stdin  io.Reader

	managerOpts []provider.Option
}

// Option configures a CLI.
type Option func(*CLI)

// WithOutput sets the writers for command output and diagnostics.
func WithOutput(out, errOut io.Writer) Option {
	return func(c *CLI) {
		c.out = out
		c.errOut = errOut
	}
}

// WithInput sets the reader used when a payload file is "-".
func WithInput(r io.Reader) Option {
	return func(c *CLI) {
		c.stdin = r
	}
}

// WithManagerOptions passes extra options to the provider manager.
func WithManagerOptions(opts ...provider.Option) Option {
	return func(c *CLI) {
		c.managerOpts = append(c.managerOpts, opts...)
	}
}

// New creates a new CLI instance.
func New(opts ...Option) *CLI {
	cli := &CLI{
		v:      viper.New(),
		out:    os.Stdout,
		errOut: os.Stderr,
		stdin:  os.Stdin,
	}
	for _, opt := range opts {
		opt(cli)
	}

	cli.rootCmd = &cobra.Command{
		Use:   "ccswitch [command]",
		Short: "ccswitch - provider switcher for Claude Code and Codex",
		Long: `ccswitch keeps named provider configurations for Claude Code and Codex
and switches between them by rewriting the applications' live config files.

Edits made to the live files outside ccswitch are copied back into the
outgoing provider on every switch, so nothing is lost.

Live files are looked up in the local home directory, or inside a WSL
distribution when the target environment is set to wsl.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initialize(cmd)
		},
	}
	cli.rootCmd.SetOut(cli.out)
	cli.rootCmd.SetErr(cli.errOut)
	cli.rootCmd.SetIn(cli.stdin)

	// Global flags
	flags := cli.rootCmd.PersistentFlags()
	flags.String("config-dir", "", "Configuration directory (default ~/.cc-switch)")
	flags.StringP("output", "o", "text", "Output format (text, json, yaml)")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Append logs to this file instead of stderr")
	flags.Bool("log-json", false, "Write logs as JSON lines")

	// Flags fall back to CCSWITCH_* variables, e.g. CCSWITCH_LOG_LEVEL
	cli.v.SetEnvPrefix(EnvPrefix)
	cli.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cli.v.AutomaticEnv()
	// #nosec G104 - binding a flag set we just defined cannot fail
	_ = cli.v.BindPFlags(flags)

	cli.addCommands()

	return cli
}

// addCommands adds all subcommands to the root command.
func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newVersionCmd(),
		cli.newProviderCmd(),
		cli.newStatusCmd(),
		cli.newSettingsCmd(),
		cli.newWSLCmd(),
		cli.newConfigCmd(),
		cli.newCompletionCmd(),
	)
}

// initialize sets up logging and opens the provider store.
func (cli *CLI) initialize(cmd *cobra.Command) error {
	if _, ok := cmd.Annotations[skipInitAnnotation]; ok {
		return nil
	}
	if cli.Manager != nil {
		return nil
	}

	if _, err := ParseOutputFormat(cli.v.GetString("output")); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:    cli.v.GetString("log-level"),
		FilePath: cli.v.GetString("log-file"),
		JSON:     cli.v.GetBool("log-json"),
		Writer:   cli.errOut,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	cli.logger = logger

	cli.Paths = config.PathsIn(cli.v.GetString("config-dir"))
	logger.Debug("using config directory", "dir", cli.Paths.ConfigDir)

	opts := append([]provider.Option{
		provider.WithLogger(logger.Logger),
		provider.WithNotifier(notify.New()),
	}, cli.managerOpts...)

	m, err := provider.Open(cli.Paths, opts...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cli.Manager = m
	return nil
}

// close releases the log file, if any.
func (cli *CLI) close() error {
	if cli.logger == nil {
		return nil
	}
	err := cli.logger.Close()
	cli.logger = nil
	return err
}

// outputFormat returns the selected output format.
func (cli *CLI) outputFormat() (OutputFormat, error) {
	return ParseOutputFormat(cli.v.GetString("output"))
}

// output returns a writer for the selected output format.
func (cli *CLI) output() (*OutputWriter, error) {
	format, err := cli.outputFormat()
	if err != nil {
		return nil, err
	}
	return NewOutputWriter(format, cli.out), nil
}

// Execute runs the CLI with the given arguments.
func (cli *CLI) Execute(ctx context.Context, args []string) error {
	defer func() {
		// #nosec G104 - nothing useful to do if the log file fails to close
		_ = cli.close()
	}()
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}
