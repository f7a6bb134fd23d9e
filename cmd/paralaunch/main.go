package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"paralaunch/internal/config"
	"paralaunch/internal/launch"
	"paralaunch/internal/logging"
	"paralaunch/internal/nodecli"
	"paralaunch/internal/prompt"
	"paralaunch/internal/topology"
	"paralaunch/internal/workspace"
)

const (
	cliVersion    = "0.1.0"
	envPrefix     = "PARALAUNCH"
	defaultConfig = "config.yml"
)

// app holds the process level collaborators so tests can replace them.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// newTool builds the node binary client for a run.
	newTool func(cli string, log *zap.Logger) launch.NodeTool
	confirm workspace.Confirmer
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		newTool: func(cli string, log *zap.Logger) launch.NodeTool {
			return nodecli.New(log, nodecli.WithCLI(cli))
		},
		confirm: prompt.Terminal{In: os.Stdin, Out: os.Stdout},
	}
}

func (a *app) rootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "paralaunch",
		Short:         "Generate genesis files and a docker-compose network for a relay chain and its parachains",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", logging.FormatConsole, "Log format (console or json)")

	root.AddCommand(a.versionCmd(), a.generateCmd(v), a.validateCmd())
	return root
}

func (a *app) logger(v *viper.Viper, cmd *cobra.Command) (*zap.Logger, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return logging.NewWithWriter(a.stderr, v.GetString("log-level"), v.GetString("log-format"))
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version details",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintln(a.stdout, cliVersion)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// generate
// ---------------------------------------------------------------------------

func addGenerateFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", "output", "The output directory path")
	fs.BoolP("yes", "y", false, "Overwrite existing files without asking")
	fs.String("container-cli", nodecli.DefaultCLI, "Container CLI used to run node images")
	fs.Int("parallelism", 1, "Number of parachains processed at once")
	fs.StringSlice("ulimit", []string{"nofile=65536:65536"}, "Ulimit applied to every service (name=soft:hard), repeatable")
}

func (a *app) generateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [config]",
		Short: "Generate genesis files, Dockerfiles and docker-compose.yml",
		Long: `Generate the network described by the config file (default config.yml).

Writes into the output directory:
  <relay chain>.json          raw relay chain spec with validators and parachains
  <base>-<id>.json            patched genesis of each parachain
  *.Dockerfile                build context of every image
  docker-compose.yml          one service per node
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := a.logger(v, cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			net, err := config.Load(configPath(args))
			if err != nil {
				return err
			}
			ulimits, err := parseUlimits(v.GetStringSlice("ulimit"))
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			res, err := launch.Generate(ctx, net, launch.Options{
				Output:      v.GetString("output"),
				Yes:         v.GetBool("yes"),
				Parallelism: v.GetInt("parallelism"),
				Ulimits:     ulimits,
			}, launch.Deps{
				Tool:    a.newTool(v.GetString("container-cli"), log),
				Confirm: a.confirm,
				Log:     log,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "docker-compose.yml generated at %s\n", res.Compose)
			return nil
		},
	}
	addGenerateFlags(cmd.Flags())
	return cmd
}

func parseUlimits(specs []string) ([]*units.Ulimit, error) {
	limits := make([]*units.Ulimit, 0, len(specs))
	for _, s := range specs {
		l, err := units.ParseUlimit(s)
		if err != nil {
			return nil, fmt.Errorf("--ulimit %q: %w", s, err)
		}
		limits = append(limits, l)
	}
	return limits, nil
}

// ---------------------------------------------------------------------------
// validate
// ---------------------------------------------------------------------------

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config]",
		Short: "Check a config file and summarise the network it describes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			net, err := config.Load(configPath(args))
			if err != nil {
				return err
			}
			if err := net.Validate(); err != nil {
				return err
			}
			printSummary(a.stdout, net)
			return nil
		},
	}
}

func printSummary(w io.Writer, net *config.Network) {
	r := net.Relaychain
	fmt.Fprintf(w, "relay chain %s (%s)\n", r.Chain, r.Image)
	for _, n := range r.Nodes {
		fmt.Fprintf(w, "  %s\n", topology.RelayServiceName(n.Name))
	}
	for _, p := range net.Parachains {
		fmt.Fprintf(w, "parachain %d %s (%s)\n", p.ID, p.Chain.Base, p.Image)
		for i := range p.Nodes {
			fmt.Fprintf(w, "  %s\n", topology.ParachainServiceName(p.ID, i))
		}
	}
	fmt.Fprintf(w, "%d services\n", net.NodeCount())
}

func configPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultConfig
}

// execute runs the CLI and returns the process exit code. Declining an
// overwrite is not a failure.
func (a *app) execute(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, workspace.ErrAborted):
		fmt.Fprintln(a.stdout, "Bailing... Bye.")
		return 0
	default:
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
}

func main() {
	os.Exit(newApp().execute(context.Background(), os.Args[1:]))
}
