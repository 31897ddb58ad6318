package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"apishell/internal/apiclient"
	"apishell/internal/assembler"
	"apishell/internal/color"
	"apishell/internal/config"
	"apishell/internal/identity"
	"apishell/internal/session"
	"apishell/internal/shell"
	"apishell/internal/stage"
	"apishell/pkg/logging"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix prefixes the environment variables bound to the root flags,
// e.g. APISHELL_API_TOKEN for --api-token.
const envPrefix = "APISHELL"

// Flag names. They double as viper keys.
const (
	flagAPIURL         = "api-url"
	flagAPIToken       = "api-token"
	flagSearchAPIURL   = "search-api-url"
	flagSearchAPIToken = "search-api-token"
	flagCDPAPIURL      = "cdp-api-url"
	flagCDPAPIToken    = "cdp-api-token"
	flagReadWrite      = "read-write"
	flagDebug          = "debug"
	flagLogLevel       = "log-level"
)

// Seams replaced in tests.
var (
	loadConfig      = config.LoadConfig
	currentUser     = identity.CurrentUser
	newConstructors = assembler.DefaultConstructors
	launchShell     = func(ctx context.Context, ns *shell.Namespace, prompt shell.Prompt, opts shell.Options) error {
		return shell.NewREPL(ns, prompt, opts).Run(ctx)
	}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "apishell [stage]",
		Short: "Interactive shell over the Digital Marketplace APIs",
		Long: `apishell resolves credentials and endpoints for a deployment stage,
creates clients for the Data API, the Search API and the Central Digital
Platform API, and drops into an interactive shell with them bound as
'data', 'search' and 'cdp'.

The Data API client is read-only unless --read-write (or -rw) is given:
only get* and find* operations can be called through it.

Stages: local (default), development, preview, pre-production.
On the local stage the Data and Search APIs use a placeholder token.
Tokens and URLs can also be set through APISHELL_* environment variables,
e.g. APISHELL_API_TOKEN.`,
		ValidArgs: stage.Names(),
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), validStageArg),
		// SilenceUsage is set to true to prevent printing usage message on errors
		// handled by us (e.g. missing tokens, failed config)
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, v)
		},
	}

	flags := cmd.Flags()
	flags.String(flagAPIURL, "", "Data API URL (default: the stage's URL)")
	flags.String(flagAPIToken, "", "Data API token")
	flags.String(flagSearchAPIURL, "", "Search API URL (default: the stage's URL)")
	flags.String(flagSearchAPIToken, "", "Search API token")
	flags.String(flagCDPAPIURL, "", "Central Digital Platform API URL (default: the stage's URL)")
	flags.String(flagCDPAPIToken, "", "Central Digital Platform API key")
	flags.Bool(flagReadWrite, false, "Allow write operations on the Data API client (also -rw)")
	flags.Bool(flagDebug, false, "Enable debug logging to stderr (same as --log-level debug)")
	flags.String(flagLogLevel, "warn", "Log level for stderr: debug, info, warn or error")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// BindPFlags only fails on a nil flag set.
	_ = v.BindPFlags(flags)

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newSelfUpdateCmd())

	return cmd
}

func validStageArg(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	_, err := stage.Parse(args[0])
	return err
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "apishell version %s\n" .Version}}`)
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

// normalizeArgs rewrites the single-dash "-rw" spelling to --read-write,
// which pflag would otherwise read as the shorthands -r and -w.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if arg == "-rw" {
			arg = "--" + flagReadWrite
		}
		out = append(out, arg)
	}
	return out
}

func userAgent(cmd *cobra.Command) string {
	version := cmd.Root().Version
	if version == "" {
		version = "dev"
	}
	return "apishell/" + version
}

func runRoot(cmd *cobra.Command, args []string, v *viper.Viper) error {
	// Create context with signal handling. SIGINT is left to the shell,
	// where Ctrl-C interrupts the running call only.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	out := cmd.OutOrStdout()

	level, err := logging.ParseLevel(v.GetString(flagLogLevel))
	if err != nil {
		return fmt.Errorf("invalid --%s: %w", flagLogLevel, err)
	}
	if v.GetBool(flagDebug) {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, cmd.ErrOrStderr())

	colorize := color.ShouldColorize(os.Stdout, os.Getenv)
	color.Enable(colorize)
	if colorize {
		color.Initialize(lipgloss.HasDarkBackground())
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	opts := session.Options{
		APIURL:         v.GetString(flagAPIURL),
		APIToken:       v.GetString(flagAPIToken),
		SearchAPIURL:   v.GetString(flagSearchAPIURL),
		SearchAPIToken: v.GetString(flagSearchAPIToken),
		CDPAPIURL:      v.GetString(flagCDPAPIURL),
		CDPAPIToken:    v.GetString(flagCDPAPIToken),
		ReadWrite:      v.GetBool(flagReadWrite),
	}
	if len(args) > 0 {
		opts.Stage = args[0]
	}

	user := currentUser(ctx)
	fmt.Fprintf(out, "Setting user to '%s'...\n", user)

	fmt.Fprintln(out, "Setting API tokens...")
	sess, err := session.Resolve(opts, user, stage.NewResolver(cfg))
	if errors.Is(err, session.ErrNoTokens) {
		fmt.Fprintln(cmd.ErrOrStderr(), color.ErrorStyle.Render(err.Error()))
		// Already reported.
		cmd.SilenceErrors = true
		return err
	} else if err != nil {
		return err
	}
	logging.Info("cmd", "resolved session for stage %s as %s (read-write: %t)", sess.Stage, sess.User, sess.ReadWrite)

	fmt.Fprintln(out, "Creating clients...")
	clientOpts := apiclient.Options{
		UserAgent: userAgent(cmd),
		Timeout:   cfg.HTTP.Timeout,
		RetryMax:  cfg.HTTP.Retries(),
		Logger:    logging.Logger("http"),
	}
	ns, err := assembler.New(out, clientOpts, newConstructors()).Assemble(sess)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Dropping into shell...")
	return launchShell(ctx, ns,
		shell.Prompt{Stage: sess.Stage, ReadWrite: sess.ReadWrite},
		shell.Options{
			HistoryFile:  cfg.Shell.HistoryFile,
			OutputFormat: cfg.Shell.OutputFormat,
		},
	)
}
