// Package console zeroizes devices through the console bootstrap tool.
package console

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fgeck/junos-zeroize/internal/models"
	"github.com/fgeck/junos-zeroize/internal/services/notifier"
	"github.com/rs/zerolog"
)

// ZeroizeFlag asks the bootstrap tool to zeroize the device.
const ZeroizeFlag = "--zeroize"

// Service defines the interface for console operations.
type Service interface {
	Zeroize(ctx context.Context, cfg models.ConsoleConfig, n notifier.Notifier) (*models.ZeroizeResult, error)
}

// CommandExecutor allows mocking exec.Command in tests.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultExecutor is the default command executor using os/exec.
type DefaultExecutor struct{}

// Execute runs a command and returns its output.
func (e *DefaultExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Bootstrapper runs the console bootstrap tool with an argument list.
type Bootstrapper interface {
	Run(ctx context.Context, args []string) error
}

// BootstrapperFactory creates a Bootstrapper reporting to n.
type BootstrapperFactory interface {
	New(tool string, n notifier.Notifier) Bootstrapper
}

// DefaultBootstrapperFactory creates bootstrappers that execute the tool.
type DefaultBootstrapperFactory struct {
	Executor CommandExecutor
}

// New creates a Bootstrapper for tool.
func (f *DefaultBootstrapperFactory) New(tool string, n notifier.Notifier) Bootstrapper {
	executor := f.Executor
	if executor == nil {
		executor = &DefaultExecutor{}
	}
	return &toolBootstrapper{executor: executor, tool: tool, notifier: n}
}

type toolBootstrapper struct {
	executor CommandExecutor
	tool     string
	notifier notifier.Notifier
}

// Run executes the tool and relays its output lines to the notifier.
func (b *toolBootstrapper) Run(ctx context.Context, args []string) error {
	output, err := b.executor.Execute(ctx, b.tool, args...)

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			b.notifier.Notify(notifier.EventConsole, line)
		}
	}

	if err != nil {
		return fmt.Errorf("%s failed: %w", b.tool, err)
	}
	return nil
}

// Impl implements the console Service interface.
type Impl struct {
	factory BootstrapperFactory
	logger  zerolog.Logger
}

// New creates a new console service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		factory: &DefaultBootstrapperFactory{Executor: &DefaultExecutor{}},
		logger:  logger,
	}
}

// NewWithFactory creates a new console service with a custom bootstrapper factory (for testing).
func NewWithFactory(logger zerolog.Logger, factory BootstrapperFactory) *Impl {
	return &Impl{
		factory: factory,
		logger:  logger,
	}
}

// BuildArgs returns the bootstrap tool arguments. Order matters to the tool.
func BuildArgs(cfg models.ConsoleConfig) []string {
	args := []string{cfg.Console, ZeroizeFlag}

	if cfg.Username != "" {
		args = append(args, fmt.Sprintf("--user=%s", cfg.Username))
	}
	if cfg.Password != nil {
		args = append(args, fmt.Sprintf("--passwd=%s", *cfg.Password))
	}

	return args
}

// Zeroize runs the bootstrap tool once with the zeroize flag.
func (s *Impl) Zeroize(ctx context.Context, cfg models.ConsoleConfig, n notifier.Notifier) (*models.ZeroizeResult, error) {
	result := &models.ZeroizeResult{}

	s.logger.Info().
		Str("console", cfg.Console).
		Str("tool", cfg.Tool).
		Str("user", cfg.Username).
		Msg("zeroizing via console")

	args := BuildArgs(cfg)
	bootstrapper := s.factory.New(cfg.Tool, n)

	if err := bootstrapper.Run(ctx, args); err != nil {
		result.Error = models.NewCollaboratorError(err)
		return result, nil
	}
	result.CommandSent = true

	s.logger.Info().Str("console", cfg.Console).Msg("console zeroize completed")

	return result, nil
}
