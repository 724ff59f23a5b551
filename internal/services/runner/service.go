// Package runner orchestrates a zeroize run.
package runner

import (
	"context"
	"time"

	"github.com/fgeck/junos-zeroize/internal/models"
	"github.com/fgeck/junos-zeroize/internal/services/capability"
	"github.com/fgeck/junos-zeroize/internal/services/console"
	"github.com/fgeck/junos-zeroize/internal/services/netconf"
	"github.com/fgeck/junos-zeroize/internal/services/notifier"
	"github.com/fgeck/junos-zeroize/internal/services/telegram"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Steps reported when a run fails.
const (
	StepValidate   = "validate"
	StepCapability = "capability"
	StepNetconf    = "netconf"
	StepConsole    = "console"
)

// Service defines the interface for the zeroize runner.
type Service interface {
	Run(ctx context.Context, params models.Params) models.Result
}

// Impl implements the runner Service interface.
type Impl struct {
	netconfSvc    netconf.Service
	consoleSvc    console.Service
	capabilitySvc capability.Service
	telegramSvc   telegram.Service
	logger        zerolog.Logger
}

// New creates a new runner service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		netconfSvc:    netconf.New(logger),
		consoleSvc:    console.New(logger),
		capabilitySvc: capability.New(logger),
		telegramSvc:   telegram.New(logger),
		logger:        logger,
	}
}

// NewWithServices creates a new runner service with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	netconfSvc netconf.Service,
	consoleSvc console.Service,
	capabilitySvc capability.Service,
	telegramSvc telegram.Service,
) *Impl {
	return &Impl{
		netconfSvc:    netconfSvc,
		consoleSvc:    consoleSvc,
		capabilitySvc: capabilitySvc,
		telegramSvc:   telegramSvc,
		logger:        logger,
	}
}

// ValidateSafetyFlag accepts only the exact confirmation value.
func ValidateSafetyFlag(flag string) error {
	if flag != models.SafetyFlag {
		return models.NewConfigurationError("zeroize must be set to %q to confirm, got %q", models.SafetyFlag, flag)
	}
	return nil
}

// SelectMode picks the console path whenever a console is given, the network path otherwise.
func SelectMode(params models.Params) models.Mode {
	if params.Console != nil {
		return models.ModeConsole
	}
	return models.ModeNetwork
}

// Run executes a zeroize and maps the outcome to the caller's result.
func (s *Impl) Run(ctx context.Context, params models.Params) models.Result {
	startTime := time.Now()
	mode := SelectMode(params)
	logger := s.logger.With().
		Str("run_id", uuid.NewString()).
		Str("mode", string(mode)).
		Logger()

	var failedStep string
	var runErr error

	defer func() {
		if params.Telegram != nil {
			s.sendNotification(ctx, logger, params, mode, startTime, failedStep, runErr)
		}
	}()

	// Step 1: Safety flag
	failedStep = StepValidate
	if runErr = ValidateSafetyFlag(params.Zeroize); runErr != nil {
		return s.fail(logger, failedStep, runErr)
	}

	n := notifier.New(params.LogFile, logger)
	defer func() { _ = n.Close() }()

	// Step 2: Collaborator capability
	failedStep = StepCapability
	c := s.capabilitySvc.Check(ctx, mode, params.ConsoleTool)
	if runErr = c.Err(); runErr != nil {
		return s.fail(logger, failedStep, runErr)
	}

	logger.Info().
		Str("target", params.Target()).
		Str("collaborator", c.Name).
		Str("version", c.Version).
		Msg("starting zeroize")

	// Step 3: Execute
	switch mode {
	case models.ModeConsole:
		failedStep = StepConsole
		runErr = s.runConsole(ctx, params.ConsoleConfig(), n)
	default:
		failedStep = StepNetconf
		if params.Host == "" {
			logger.Warn().Msg("no host given and no console set, connecting with an empty host")
		}
		runErr = s.runNetconf(ctx, params.NetconfConfig(), n)
	}
	if runErr != nil {
		return s.fail(logger, failedStep, runErr)
	}

	failedStep = ""
	n.Notify(notifier.EventDone, "OK")

	logger.Info().
		Dur("duration", time.Since(startTime)).
		Msg("zeroize completed")

	return models.NewChangedResult()
}

func (s *Impl) fail(logger zerolog.Logger, step string, err error) models.Result {
	logger.Error().Err(err).Str("step", step).Msg("zeroize failed")
	return models.NewFailedResult(err)
}

func (s *Impl) runNetconf(ctx context.Context, cfg models.NetconfConfig, n notifier.Notifier) error {
	result, err := s.netconfSvc.Zeroize(ctx, cfg, n)
	if err != nil {
		return err
	}
	return result.Error
}

func (s *Impl) runConsole(ctx context.Context, cfg models.ConsoleConfig, n notifier.Notifier) error {
	result, err := s.consoleSvc.Zeroize(ctx, cfg, n)
	if err != nil {
		return err
	}
	return result.Error
}

func (s *Impl) sendNotification(
	ctx context.Context,
	logger zerolog.Logger,
	params models.Params,
	mode models.Mode,
	startTime time.Time,
	failedStep string,
	runErr error,
) {
	msg := models.TelegramMessage{
		Success:   runErr == nil,
		Target:    params.Target(),
		Mode:      mode,
		StartTime: startTime,
		Duration:  time.Since(startTime),
	}

	if runErr != nil {
		msg.FailedStep = failedStep
		msg.ErrorMessage = runErr.Error()
	}

	result, err := s.telegramSvc.SendNotification(ctx, *params.Telegram, msg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to send Telegram notification")
		return
	}
	if result.Error != nil {
		logger.Error().Err(result.Error).Msg("failed to send Telegram notification")
		return
	}

	logger.Info().Msg("Telegram notification sent")
}
