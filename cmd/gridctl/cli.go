package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLI is the gridctl command tree and its configuration
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger    *slog.Logger
	logCloser io.Closer
}

// NewCLI creates the command tree writing to stdout and stderr
func NewCLI(stdout, stderr io.Writer) *CLI {
	cli := &CLI{
		viperInst: viper.New(),
		stdin:     os.Stdin,
		stdout:    stdout,
		stderr:    stderr,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()

	return cli
}

// setupViperConfig configures Viper with environment variables and config files
func (cli *CLI) setupViperConfig() {
	// GRIDCTL_CONFIG names a config file explicitly
	if configFile := os.Getenv("GRIDCTL_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		cli.viperInst.SetConfigName("gridctl")
		cli.viperInst.SetConfigType("yaml")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.gridctl")
	}

	// Enable environment variable support (e.g., --page-size -> GRIDCTL_PAGE_SIZE)
	cli.viperInst.SetEnvPrefix("GRIDCTL")
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	cli.viperInst.AutomaticEnv()

	setDefaults(cli.viperInst)

	// Read config file if it exists (ignore errors)
	_ = cli.viperInst.ReadInConfig()
}

// createRootCommand creates the root Cobra command with Viper integration
func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "gridctl",
		Short: "gridctl - browse and export dispatch tables from data files",
		Long: `gridctl loads rows from a JSON, JSON-lines, YAML or CSV file and shows
them through the dispatch grid: value filters with cascading menus, a global
search, one-column sorting, pagination and a persisted column layout.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (GRIDCTL_*)
3. Configuration file (GRIDCTL_CONFIG, ./gridctl.yaml or ~/.gridctl/gridctl.yaml)
4. Defaults

Examples:
  # First page of pending orders in Zagreb, heaviest first
  gridctl view orders.json --filter status=PENDING --filter address.city=Zagreb --sort weight_kg:desc

  # Values still reachable in the city menu once status is filtered
  gridctl distinct orders.json address.city --filter status=DELIVERED

  # Hide a column; the layout is remembered for orders.json
  gridctl columns hide orders.json driver

  # Export the filtered rows as CSV
  gridctl export orders.json --query zagreb -o zagreb.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initLogging()
		},
	}
	cli.rootCmd.SetOut(cli.stdout)
	cli.rootCmd.SetErr(cli.stderr)

	cli.addGlobalFlags()
}

// addGlobalFlags adds persistent flags that apply to all commands
func (cli *CLI) addGlobalFlags() {
	flags := cli.rootCmd.PersistentFlags()

	// Layout store
	flags.String("store", "", "Layout store backend (json|yaml|sqlite|memory)")
	flags.String("store-path", "", "Layout store file (default: user config dir)")
	flags.StringP("key", "k", "", "Storage key of the table layout (default: input file name)")

	// Grid tunables
	flags.Int("page-size", 0, "Rows per page, 0 shows all rows")
	flags.Int("min-width", 0, "Smallest column width in pixels")
	flags.Int("default-width", 0, "Column width without hint or override")
	flags.String("locale", "", "Collation locale for sorting (e.g. en, hr, de)")
	flags.String("id-field", "", "Field holding the row id")

	// Output configuration
	flags.StringP("format", "f", "", "Output format (table|markdown|csv|html|json|yaml)")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.BoolP("verbose", "v", false, "Also log to stderr")

	// Bind every flag to its config key
	for key, flag := range configKeys {
		_ = cli.viperInst.BindPFlag(key, flags.Lookup(flag))
	}
}

func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newViewCommand(),
		cli.newDistinctCommand(),
		cli.newExportCommand(),
		cli.newColumnsCommand(),
		cli.newBrowseCommand(),
	)
}

func (cli *CLI) initLogging() error {
	cfg := loadConfig(cli.viperInst)
	logger, closer, err := initLogging(cfg.LogLevel, cfg.Verbose, cli.stderr)
	if err != nil {
		// Logging is best effort: a read-only cache dir must not block the table
		cli.logger = slog.New(slog.NewTextHandler(cli.stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		return nil
	}
	cli.logger = logger
	cli.logCloser = closer
	return nil
}

// Execute runs the command line in args
func (cli *CLI) Execute(ctx context.Context, args []string) error {
	cli.rootCmd.SetArgs(args)
	err := cli.rootCmd.ExecuteContext(ctx)
	if cli.logCloser != nil {
		_ = cli.logCloser.Close()
		cli.logCloser = nil
	}
	return err
}
