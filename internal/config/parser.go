// Package config provides invocation parameter loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fgeck/junos-zeroize/internal/models"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by the parser.
const EnvPrefix = "ZEROIZE"

// Defaults.
const (
	DefaultPort        = 830
	DefaultTimeout     = 30 * time.Second
	DefaultConsoleTool = "netconify"
)

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"zeroize":      "zeroize",
	"host":         "host",
	"console":      "console",
	"user":         "user",
	"passwd":       "passwd",
	"logfile":      "logfile",
	"port":         "port",
	"timeout":      "timeout",
	"console-tool": "console_tool",
}

// Parser handles invocation parameter parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new parameter parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", DefaultPort)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("console_tool", DefaultConsoleTool)

	return &Parser{v: v}
}

// BindFlags binds the known command line flags present in flags.
func (p *Parser) BindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := p.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Load builds parameters from flags, environment and defaults only.
func (p *Parser) Load() (*models.Params, error) {
	return p.parse()
}

// LoadFile loads an arguments file (JSON or YAML) and merges it under flags and environment.
func (p *Parser) LoadFile(path string) (*models.Params, error) {
	p.v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		// orchestration frameworks hand over extension-less JSON argument files
		p.v.SetConfigType("json")
	}

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading arguments file: %w", err)
	}

	return p.parse()
}

// LoadReader loads arguments from content in the given format (useful for testing).
func (p *Parser) LoadReader(content, format string) (*models.Params, error) {
	p.v.SetConfigType(format)
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading arguments: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.Params, error) {
	params := &models.Params{
		Zeroize:     p.v.GetString("zeroize"),
		Host:        p.v.GetString("host"),
		User:        p.v.GetString("user"),
		LogFile:     p.expandEnv(p.v.GetString("logfile")),
		Port:        p.v.GetInt("port"),
		Timeout:     p.v.GetDuration("timeout"),
		ConsoleTool: p.v.GetString("console_tool"),
	}

	if p.isPresent("console") {
		console := p.v.GetString("console")
		params.Console = &console
	}
	if p.isPresent("passwd") {
		passwd := p.v.GetString("passwd")
		params.Password = &passwd
	}

	if params.User == "" {
		params.User = os.Getenv("USER")
	}

	// Parse optional Telegram config.
	if p.v.IsSet("telegram") || p.v.IsSet("telegram.bot_token") || p.v.IsSet("telegram.chat_id") {
		params.Telegram = &models.TelegramConfig{
			BotToken: p.expandEnv(p.v.GetString("telegram.bot_token")),
			ChatID:   p.expandEnv(p.v.GetString("telegram.chat_id")),
		}

		if params.Telegram.BotToken == "" {
			return nil, fmt.Errorf("telegram.bot_token is required when telegram is configured")
		}
		if params.Telegram.ChatID == "" {
			return nil, fmt.Errorf("telegram.chat_id is required when telegram is configured")
		}
	}

	return params, nil
}

// isPresent reports whether key was given a non-null value by any source.
func (p *Parser) isPresent(key string) bool {
	return p.v.IsSet(key) && p.v.Get(key) != nil
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate performs range checks on loaded parameters. The safety flag is
// checked by the runner so a mismatch is reported as a failed result.
func Validate(params *models.Params) error {
	if params == nil {
		return fmt.Errorf("parameters are nil")
	}

	if params.Port < 1 || params.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", params.Port)
	}

	if params.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", params.Timeout)
	}

	if params.Console != nil && params.ConsoleTool == "" {
		return fmt.Errorf("console_tool is required when console is set")
	}

	return nil
}
