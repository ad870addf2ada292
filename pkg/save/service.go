package save

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/savesvc/pkg/errors"
	"github.com/arthur-debert/savesvc/pkg/logging"
	"github.com/arthur-debert/savesvc/pkg/registry"
	"github.com/arthur-debert/savesvc/pkg/types"
)

// Options configures a Service.
type Options struct {
	// Client is the variable registry connection. Required.
	Client registry.Client

	// FS is the filesystem the configuration is written to. Required.
	FS types.FS

	// OutputPath is the final configuration file path. Required.
	OutputPath string

	// TriggerVar is the name of the variable whose modification
	// event triggers a save. Required.
	TriggerVar string

	// Verbose logs a notice at the start of every save cycle.
	Verbose bool
}

// Service is the save service state: the trigger subscription, the
// save target, and the registry connection. One instance is
// constructed at startup and drives the whole process; there are no
// package-level globals.
type Service struct {
	client     registry.Client
	fs         types.FS
	outputPath string
	triggerVar string
	verbose    bool

	// trigger is resolved once by Start, before the wait loop.
	trigger registry.Handle

	logger zerolog.Logger
}

// New validates the options and constructs a Service. The trigger
// variable is not resolved until Start.
func New(opts Options) (*Service, error) {
	if opts.Client == nil {
		return nil, errors.New(errors.ErrInvalidInput, "registry client is required")
	}
	if opts.FS == nil {
		return nil, errors.New(errors.ErrInvalidInput, "filesystem is required")
	}
	if opts.OutputPath == "" {
		return nil, errors.New(errors.ErrInvalidInput, "output path is required")
	}
	if opts.TriggerVar == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no trigger variable specified")
	}

	return &Service{
		client:     opts.Client,
		fs:         opts.FS,
		outputPath: opts.OutputPath,
		triggerVar: opts.TriggerVar,
		verbose:    opts.Verbose,
		logger:     logging.GetLogger("save.service"),
	}, nil
}

// Start resolves the trigger variable and subscribes to its
// modification events. Either failure is fatal: the service must not
// enter the wait loop, and the caller is expected to exit non-zero.
func (s *Service) Start() error {
	h, err := s.client.Resolve(s.triggerVar)
	if err != nil {
		return errors.Wrapf(err, errors.ErrVarNotFound, "cannot find trigger variable %s", s.triggerVar)
	}

	if err := s.client.SubscribeModified(h); err != nil {
		return errors.Wrapf(err, errors.ErrSubscribeRejected, "notification request failed for %s", s.triggerVar)
	}

	s.trigger = h
	s.logger.Debug().
		Str("trigger", s.triggerVar).
		Str("output", s.outputPath).
		Msg("Trigger subscription established")
	return nil
}

// Run is the trigger loop. It blocks on the next registry event,
// discards everything that is not a modification of the trigger
// variable, and otherwise runs one save cycle. Save failures are
// logged and the loop keeps waiting; under normal operation Run only
// returns when ctx is cancelled or the registry connection drops.
func (s *Service) Run(ctx context.Context) error {
	if s.trigger == registry.InvalidHandle {
		return errors.New(errors.ErrInternal, "service not started")
	}

	for {
		ev, err := s.client.WaitEvent(ctx)
		if err != nil {
			return err
		}

		if ev.Kind != registry.EventModified || ev.Subject != s.trigger {
			continue
		}

		if s.verbose {
			s.logger.Info().Msg("Saving all dirty variables")
		}

		if err := s.Save(); err != nil {
			s.logger.Error().
				Err(err).
				Str("path", s.outputPath).
				Msg("Failed to create configuration file")
		}
	}
}

// Save runs one save cycle: enumerate the dirty set and commit it to
// the output path. It is exported so the embedded mode can force a
// save without going through the trigger variable.
func (s *Service) Save() error {
	return WriteConfig(s.fs, s.outputPath, s.client.Dirty())
}
