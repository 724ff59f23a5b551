// Package capability checks that the zeroize collaborators are usable.
package capability

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fgeck/junos-zeroize/internal/models"
	"github.com/rs/zerolog"
)

// Collaborators and their version floors.
const (
	NetconfModule     = "github.com/Juniper/go-netconf"
	MinNetconfVersion = "0.1.0"
	MinConsoleVersion = "1.0.1"
)

var versionPattern = regexp.MustCompile(`v?\d+\.\d+(\.\d+)?([-+][0-9A-Za-z.+-]+)?`)

// Service defines the interface for capability checks.
type Service interface {
	Check(ctx context.Context, mode models.Mode, tool string) models.Capability
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

// BuildInfoFunc returns the build information of the running binary.
type BuildInfoFunc func() (*debug.BuildInfo, bool)

// Impl implements the capability Service interface.
type Impl struct {
	executor  CommandExecutor
	buildInfo BuildInfoFunc
	logger    zerolog.Logger
}

// New creates a new capability service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		executor:  &DefaultExecutor{},
		buildInfo: debug.ReadBuildInfo,
		logger:    logger,
	}
}

// NewWithSources creates a new capability service with custom sources (for testing).
func NewWithSources(logger zerolog.Logger, executor CommandExecutor, buildInfo BuildInfoFunc) *Impl {
	return &Impl{
		executor:  executor,
		buildInfo: buildInfo,
		logger:    logger,
	}
}

// Check reports whether the collaborator for mode is present and recent enough.
func (s *Impl) Check(ctx context.Context, mode models.Mode, tool string) models.Capability {
	var c models.Capability
	switch mode {
	case models.ModeConsole:
		c = s.checkConsole(ctx, tool)
	default:
		c = s.checkNetconf()
	}

	s.logger.Debug().
		Str("name", c.Name).
		Str("version", c.Version).
		Str("min_version", c.MinVersion).
		Bool("available", c.Available).
		Str("reason", c.Reason).
		Msg("capability checked")

	return c
}

func (s *Impl) checkNetconf() models.Capability {
	c := models.Capability{Name: NetconfModule, MinVersion: MinNetconfVersion}

	info, ok := s.buildInfo()
	if !ok {
		// statically linked, so only the version is unknown
		c.Version = "unknown"
		c.Available = true
		return c
	}

	for _, dep := range info.Deps {
		if dep.Path != NetconfModule {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			dep = dep.Replace
		}
		c.Version = dep.Version
		return meetsFloor(c)
	}

	c.Reason = "module not linked into this binary"
	return c
}

func (s *Impl) checkConsole(ctx context.Context, tool string) models.Capability {
	c := models.Capability{Name: tool, MinVersion: MinConsoleVersion}
	if tool == "" {
		c.Name = "console bootstrap tool"
		c.Reason = "no tool configured"
		return c
	}

	output, err := s.executor.Execute(ctx, tool, "--version")
	if err != nil {
		c.Reason = fmt.Sprintf("running %s --version: %s", tool, err)
		return c
	}

	version := ParseVersion(string(output))
	if version == "" {
		c.Reason = fmt.Sprintf("no version in output %q", strings.TrimSpace(string(output)))
		return c
	}
	c.Version = version
	return meetsFloor(c)
}

// ParseVersion extracts the first version-looking token from tool output.
func ParseVersion(output string) string {
	return versionPattern.FindString(output)
}

func meetsFloor(c models.Capability) models.Capability {
	floor := semver.MustParse(c.MinVersion)

	v, err := semver.NewVersion(c.Version)
	if err != nil {
		c.Reason = fmt.Sprintf("unparseable version %q: %s", c.Version, err)
		return c
	}

	if v.LessThan(floor) {
		c.Reason = fmt.Sprintf("version %s is below %s", c.Version, c.MinVersion)
		return c
	}

	c.Available = true
	return c
}
