package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yairfalse/awsres/internal/config"
	"github.com/yairfalse/awsres/internal/dispatch"
	"github.com/yairfalse/awsres/internal/handler"
	"github.com/yairfalse/awsres/internal/inventory"
	awsprovider "github.com/yairfalse/awsres/internal/provider/aws"
	"github.com/yairfalse/awsres/internal/report"
	"github.com/yairfalse/awsres/internal/telemetry"
)

var version = "0.1.0"

const shutdownTimeout = 5 * time.Second

var (
	// errResourcesFailed means at least one recognized resource failed.
	// Each failure has already been printed.
	errResourcesFailed = errors.New("one or more resources failed")

	// errEmptyInventory has already been printed.
	errEmptyInventory = errors.New("inventory is empty")
)

type options struct {
	configFile   string
	settingsFile string
	region       string
	profile      string
	verbose      bool
	delete       bool
	yes          bool
}

// clientFactory builds the AWS client bundle for a run.
type clientFactory func(ctx context.Context, cfg *config.Config) (*awsprovider.Clients, error)

type app struct {
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	newClients clientFactory
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	a := &app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr, newClients: loadClients}
	return a.execute(ctx, args)
}

func (a *app) execute(ctx context.Context, args []string) int {
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errResourcesFailed), errors.Is(err, errEmptyInventory):
		return 1
	default:
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return 1
	}
}

func (a *app) rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "awsres -c <inventory.yml>",
		Short: "Provision or tear down AWS resources from a YAML inventory",
		Long: `awsres creates the S3 buckets, ECR repositories and RDS Postgres
instances named in a YAML inventory, or deletes them with -d.

Resources that already exist (create) or are already gone (delete) count
as success. The exit code is 1 only when a resource operation failed.`,
		Example: `  awsres --config-file aws.yml          # create everything in aws.yml
  awsres -c aws.yml -v                   # show the inventory and skipped resources
  awsres -c aws.yml -d                   # delete, after confirmation
  awsres -c aws.yml -s settings.toml     # override RDS and policy defaults`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Flags parsed fine; runtime errors should not print usage.
			cmd.SilenceUsage = true
			return a.run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config-file", "c", "", "YAML inventory of resources (required)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show the inventory, skipped resources and debug logs")
	flags.BoolVarP(&opts.delete, "delete", "d", false, "Delete the resources instead of creating them")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "Skip the delete confirmation")
	flags.StringVarP(&opts.settingsFile, "settings", "s", "", "TOML settings file")
	flags.StringVar(&opts.region, "region", "", "AWS region (overrides settings and environment)")
	flags.StringVar(&opts.profile, "profile", "", "AWS shared config profile")
	_ = cmd.MarkFlagRequired("config-file")

	cmd.SetVersionTemplate("awsres {{.Version}}\n")
	return cmd
}

func (a *app) run(ctx context.Context, opts *options) error {
	settings, err := config.Load(opts.settingsFile)
	if err != nil {
		return err
	}
	if opts.region != "" {
		settings.AWS.Region = opts.region
	}
	if opts.profile != "" {
		settings.AWS.Profile = opts.profile
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	setupLogging(a.errOut, settings.Log.Level, opts.verbose)
	console := report.NewConsole(a.out, opts.verbose)

	inv, err := inventory.Load(opts.configFile)
	if errors.Is(err, inventory.ErrEmpty) {
		console.Empty(opts.configFile)
		return errEmptyInventory
	}
	if err != nil {
		return err
	}
	rendered, err := inv.Render()
	if err != nil {
		return err
	}
	console.Inventory(rendered)

	tp, err := telemetry.NewProvider(ctx, settings.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer closeTelemetry(tp, settings.Telemetry.MetricsTextfile)

	clients, err := a.newClients(ctx, settings)
	if err != nil {
		return err
	}

	reg := handler.NewRegistry()
	awsprovider.Register(reg, clients, settings)

	mode := dispatch.ModeCreate
	if opts.delete {
		mode = dispatch.ModeDelete
	}

	d := &dispatch.Dispatcher{
		Registry:  reg,
		Prompter:  &dispatch.LinePrompter{In: a.in, Out: a.out},
		Reporter:  console,
		Recorder:  tp,
		Mode:      mode,
		AssumeYes: opts.yes,
	}

	ctx, span := tp.StartSpan(ctx, "awsres "+mode.String(),
		attribute.String("inventory", opts.configFile),
		attribute.Int("resources", inv.Len()),
	)
	defer span.End()

	result, err := d.Run(ctx, inv)
	if err != nil {
		return err
	}
	console.Summary(result)

	log.Debug().
		Str("mode", mode.String()).
		Int("attempted", result.Attempted()).
		Int("failed", result.Failures()).
		Int("unknown", result.Unknown()).
		Bool("cancelled", result.Cancelled).
		Dur("duration", result.Duration).
		Msg("run complete")

	if result.ExitCode() != 0 {
		return errResourcesFailed
	}
	return nil
}

// closeTelemetry writes the metrics textfile, if configured, and flushes
// exporters. The textfile must be written before the meter shuts down.
func closeTelemetry(tp *telemetry.Provider, textfile string) {
	if textfile != "" {
		if err := tp.WriteTextfile(textfile); err != nil {
			log.Warn().Err(err).Str("path", textfile).Msg("metrics textfile not written")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		log.Debug().Err(err).Msg("telemetry shutdown")
	}
}

func loadClients(ctx context.Context, cfg *config.Config) (*awsprovider.Clients, error) {
	awsCfg, err := awsprovider.LoadAWSConfig(ctx,
		awsprovider.WithRegion(cfg.AWS.Region),
		awsprovider.WithProfile(cfg.AWS.Profile),
	)
	if err != nil {
		return nil, err
	}
	return awsprovider.NewClients(awsCfg), nil
}
