package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/savesvc/internal/version"
	"github.com/arthur-debert/savesvc/pkg/config"
	svcerrors "github.com/arthur-debert/savesvc/pkg/errors"
	"github.com/arthur-debert/savesvc/pkg/filesystem"
	"github.com/arthur-debert/savesvc/pkg/logging"
	"github.com/arthur-debert/savesvc/pkg/paths"
	"github.com/arthur-debert/savesvc/pkg/registry"
	"github.com/arthur-debert/savesvc/pkg/save"
	"github.com/arthur-debert/savesvc/pkg/types"
)

var (
	cfgFile   string
	verbosity int

	rootCmd = &cobra.Command{
		Use:   "savesvc",
		Short: "Persist modified registry variables to a configuration file",
		Long: `savesvc is a long-running service that writes all dirty (modified
since last save) variables from the variable registry into an output
file compatible with the loadconfig utility.

Variables are written out when the service is triggered by a
modification of the trigger variable. The output file is always
published atomically: readers see either the previous save or the new
one, never a partial file.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE:          runService,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Settings file (default: first hit in the savesvc config search path)")

	rootCmd.Flags().StringP("output", "f", paths.DefaultOutputFile, "Output file name")
	rootCmd.Flags().StringP("trigger", "t", paths.DefaultTriggerVar, "Trigger variable name")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for savesvc`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("savesvc version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

// runService resolves settings, connects the registry, and runs the
// trigger loop until the process is signalled.
func runService(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	// The settings file or environment may raise verbosity beyond
	// what the flags asked for.
	if settings.Verbose != verbosity {
		logging.SetupLogger(settings.Verbose)
	}
	logger := logging.GetLogger("cmd.savesvc")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fsys := filesystem.NewOS()

	client := openRegistry(fsys, settings.Output, settings.Trigger)
	defer func() {
		if cerr := client.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to close registry connection")
		}
	}()

	svc, err := save.New(save.Options{
		Client:     client,
		FS:         fsys,
		OutputPath: settings.Output,
		TriggerVar: settings.Trigger,
		Verbose:    settings.Verbose > 0,
	})
	if err != nil {
		return err
	}

	// Trigger resolution and subscription happen before the wait
	// loop; a failure here exits without ever waiting.
	if err := svc.Start(); err != nil {
		return err
	}

	logger.Info().
		Str("trigger", settings.Trigger).
		Str("output", settings.Output).
		Msg("Save service running")

	err = svc.Run(ctx)
	if ctx.Err() != nil {
		// Interrupt or terminate: the deferred Close releases the
		// registry connection; exit non-zero via the returned error.
		logger.Warn().Msg("Abnormal termination of savesvc")
		return svcerrors.Wrap(err, svcerrors.ErrInternal, "terminated by signal")
	}
	return err
}

// openRegistry builds the in-process registry the standalone binary
// hosts, seeded with the variables of the last saved configuration so
// a freshly started service exposes the persisted state. The trigger
// variable is defined up front; resolution still goes through the
// normal Client path.
func openRegistry(fsys types.FS, outputPath, triggerVar string) registry.Client {
	logger := logging.GetLogger("cmd.savesvc")
	reg := registry.NewMemory()

	entries, err := save.ParseConfigFile(fsys, outputPath)
	if err != nil {
		// A corrupt previous save must not keep the service down.
		logger.Warn().Err(err).Str("path", outputPath).Msg("Cannot seed registry from previous save")
	}
	for _, e := range entries {
		reg.DefineInstance(e.Name, e.InstanceID, e.Value)
	}

	reg.Define(triggerVar, registry.Int(0))
	return reg
}
