// Package netconf zeroizes Junos devices over a NETCONF session.
package netconf

import (
	"context"
	"encoding/xml"
	"fmt"
	"net"
	"strconv"

	"github.com/Juniper/go-netconf/netconf"
	"github.com/fgeck/junos-zeroize/internal/models"
	"github.com/fgeck/junos-zeroize/internal/services/notifier"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

// ZeroizeRPC is the Junos RPC that erases configuration and reboots the device.
const ZeroizeRPC = netconf.RawMethod("<request-system-zeroize/>")

// Service defines the interface for NETCONF operations.
type Service interface {
	Zeroize(ctx context.Context, cfg models.NetconfConfig, n notifier.Notifier) (*models.ZeroizeResult, error)
	Probe(ctx context.Context, cfg models.NetconfConfig) (*models.ProbeResult, error)
}

// Session wraps netconf.Session for mocking.
type Session interface {
	// Send writes an RPC without waiting for the reply.
	Send(method netconf.RPCMethod) error
	ID() int
	Capabilities() []string
	Close() error
}

// ClientFactory opens NETCONF sessions.
type ClientFactory interface {
	Dial(target string, config *ssh.ClientConfig) (Session, error)
}

// DefaultClientFactory dials NETCONF over SSH with go-netconf.
type DefaultClientFactory struct{}

// Dial opens a NETCONF session to target.
func (f *DefaultClientFactory) Dial(target string, config *ssh.ClientConfig) (Session, error) {
	s, err := netconf.DialSSH(target, config)
	if err != nil {
		return nil, err
	}
	return &defaultSession{session: s}, nil
}

type defaultSession struct {
	session *netconf.Session
}

func (s *defaultSession) Send(method netconf.RPCMethod) error {
	msg := netconf.NewRPCMessage([]netconf.RPCMethod{method})
	data, err := xml.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding rpc: %w", err)
	}
	return s.session.Transport.Send(data)
}

func (s *defaultSession) ID() int {
	return s.session.SessionID
}

func (s *defaultSession) Capabilities() []string {
	return s.session.ServerCapabilities
}

func (s *defaultSession) Close() error {
	return s.session.Close()
}

// Impl implements the NETCONF Service interface.
type Impl struct {
	clientFactory ClientFactory
	logger        zerolog.Logger
}

// New creates a new NETCONF service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		clientFactory: &DefaultClientFactory{},
		logger:        logger,
	}
}

// NewWithClientFactory creates a new NETCONF service with a custom client factory (for testing).
func NewWithClientFactory(logger zerolog.Logger, factory ClientFactory) *Impl {
	return &Impl{
		clientFactory: factory,
		logger:        logger,
	}
}

func buildConfig(cfg models.NetconfConfig) *ssh.ClientConfig {
	return &ssh.ClientConfig{
		User: cfg.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(cfg.Password),
			ssh.KeyboardInteractive(passwordChallenge(cfg.Password)),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // device is about to lose its host keys
		Timeout:         cfg.Timeout,
	}
}

// passwordChallenge answers every keyboard-interactive prompt with the password.
func passwordChallenge(password string) ssh.KeyboardInteractiveChallenge {
	return func(_, _ string, questions []string, _ []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range answers {
			answers[i] = password
		}
		return answers, nil
	}
}

func target(cfg models.NetconfConfig) string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

// open dials once, giving up early if ctx is cancelled.
func (s *Impl) open(ctx context.Context, cfg models.NetconfConfig) (Session, error) {
	addr := target(cfg)
	sshConfig := buildConfig(cfg)

	sessionChan := make(chan struct {
		session Session
		err     error
	}, 1)

	go func() {
		session, err := s.clientFactory.Dial(addr, sshConfig)
		sessionChan <- struct {
			session Session
			err     error
		}{session, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-sessionChan:
		return res.session, res.err
	}
}

// Zeroize opens a session and sends the zeroize RPC. The session is left
// open: the device drops it while it resets.
func (s *Impl) Zeroize(ctx context.Context, cfg models.NetconfConfig, n notifier.Notifier) (*models.ZeroizeResult, error) {
	result := &models.ZeroizeResult{}

	s.logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("user", cfg.Username).
		Msg("opening NETCONF session")

	n.Notify(notifier.EventLogin, fmt.Sprintf("host: %s", cfg.Host))

	session, err := s.open(ctx, cfg)
	if err != nil {
		result.Error = models.NewConnectionError(cfg.Host, err)
		return result, nil
	}

	n.Notify(notifier.EventLogin, "OK")
	s.logger.Debug().Int("session_id", session.ID()).Msg("NETCONF session established")

	n.Notify(notifier.EventZeroize, "invoking command")
	if err := session.Send(ZeroizeRPC); err != nil {
		result.Error = models.NewConnectionError(cfg.Host, fmt.Errorf("sending zeroize rpc: %w", err))
		return result, nil
	}
	result.CommandSent = true

	s.logger.Info().Str("host", cfg.Host).Msg("zeroize command sent")

	return result, nil
}

// Probe verifies NETCONF connectivity without zeroizing.
func (s *Impl) Probe(ctx context.Context, cfg models.NetconfConfig) (*models.ProbeResult, error) {
	result := &models.ProbeResult{}

	s.logger.Debug().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("probing NETCONF session")

	session, err := s.open(ctx, cfg)
	if err != nil {
		result.Error = models.NewConnectionError(cfg.Host, err)
		return result, nil
	}
	defer func() { _ = session.Close() }()

	result.Connected = true
	result.SessionID = session.ID()
	result.Capabilities = session.Capabilities()

	return result, nil
}
