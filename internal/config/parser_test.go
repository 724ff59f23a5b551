package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fgeck/junos-zeroize/internal/models"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestParser_LoadReader_MinimalConfig(t *testing.T) {
	t.Setenv("USER", "operator")

	yaml := `
zeroize: zeroize
host: "192.168.1.1"
`
	parser := NewParser()
	params, err := parser.LoadReader(yaml, "yaml")

	require.NoError(t, err)
	assert.Equal(t, "zeroize", params.Zeroize)
	assert.Equal(t, "192.168.1.1", params.Host)
	// Check defaults
	assert.Equal(t, 830, params.Port)
	assert.Equal(t, 30*time.Second, params.Timeout)
	assert.Equal(t, "netconify", params.ConsoleTool)
	assert.Equal(t, "operator", params.User)
	assert.Nil(t, params.Console)
	assert.Nil(t, params.Password)
	assert.Nil(t, params.Telegram)
	assert.Empty(t, params.LogFile)
}

func TestParser_LoadReader_FullConfig(t *testing.T) {
	yaml := `
zeroize: zeroize
host: "10.0.0.1"
console: "--port=/dev/ttyUSB0"
user: "admin"
passwd: "juniper123"
logfile: "/var/log/zeroize.log"
port: 2830
timeout: 45s
console_tool: "/usr/local/bin/netconify"

telegram:
  bot_token: "123456:ABC"
  chat_id: "-100123456789"
`
	parser := NewParser()
	params, err := parser.LoadReader(yaml, "yaml")

	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", params.Host)
	require.NotNil(t, params.Console)
	assert.Equal(t, "--port=/dev/ttyUSB0", *params.Console)
	assert.Equal(t, "admin", params.User)
	require.NotNil(t, params.Password)
	assert.Equal(t, "juniper123", *params.Password)
	assert.Equal(t, "/var/log/zeroize.log", params.LogFile)
	assert.Equal(t, 2830, params.Port)
	assert.Equal(t, 45*time.Second, params.Timeout)
	assert.Equal(t, "/usr/local/bin/netconify", params.ConsoleTool)

	// Telegram
	require.NotNil(t, params.Telegram)
	assert.Equal(t, "123456:ABC", params.Telegram.BotToken)
	assert.Equal(t, "-100123456789", params.Telegram.ChatID)
}

func TestParser_LoadReader_JSONArguments(t *testing.T) {
	json := `{
  "zeroize": "zeroize",
  "host": "r1.lab",
  "console": null,
  "passwd": null,
  "user": "netops",
  "port": "8830",
  "_ansible_check_mode": false
}`
	parser := NewParser()
	params, err := parser.LoadReader(json, "json")

	require.NoError(t, err)
	assert.Equal(t, "r1.lab", params.Host)
	assert.Equal(t, "netops", params.User)
	assert.Equal(t, 8830, params.Port)
	assert.Nil(t, params.Console)
	assert.Nil(t, params.Password)
}

func TestParser_LoadReader_EmptyConsoleIsPresent(t *testing.T) {
	yaml := `
zeroize: zeroize
console: ""
`
	parser := NewParser()
	params, err := parser.LoadReader(yaml, "yaml")

	require.NoError(t, err)
	require.NotNil(t, params.Console)
	assert.Equal(t, "", *params.Console)
}

func TestParser_LoadReader_EmptyPasswordIsPresent(t *testing.T) {
	yaml := `
zeroize: zeroize
passwd: ""
`
	parser := NewParser()
	params, err := parser.LoadReader(yaml, "yaml")

	require.NoError(t, err)
	require.NotNil(t, params.Password)
	assert.Equal(t, "", *params.Password)
}

func TestParser_LoadReader_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_LOG_DIR", "/tmp/zeroize")
	t.Setenv("TEST_TELEGRAM_TOKEN", "env_token")

	yaml := `
zeroize: zeroize
logfile: "${TEST_LOG_DIR}/run.log"
telegram:
  bot_token: "$TEST_TELEGRAM_TOKEN"
  chat_id: "42"
`
	parser := NewParser()
	params, err := parser.LoadReader(yaml, "yaml")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/zeroize/run.log", params.LogFile)
	assert.Equal(t, "env_token", params.Telegram.BotToken)
}

func TestParser_LoadReader_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ZEROIZE_HOST", "from-env")
	t.Setenv("ZEROIZE_PORT", "1830")

	yaml := `
zeroize: zeroize
host: "from-file"
`
	parser := NewParser()
	params, err := parser.LoadReader(yaml, "yaml")

	require.NoError(t, err)
	assert.Equal(t, "from-env", params.Host)
	assert.Equal(t, 1830, params.Port)
}

func TestParser_LoadReader_Telegram_MissingBotToken(t *testing.T) {
	yaml := `
zeroize: zeroize
telegram:
  chat_id: "-100123456789"
`
	parser := NewParser()
	_, err := parser.LoadReader(yaml, "yaml")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.bot_token is required")
}

func TestParser_LoadReader_Telegram_MissingChatID(t *testing.T) {
	yaml := `
zeroize: zeroize
telegram:
  bot_token: "123456:ABC"
`
	parser := NewParser()
	_, err := parser.LoadReader(yaml, "yaml")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.chat_id is required")
}

func TestParser_LoadReader_InvalidContent(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadReader("{not json", "json")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading arguments")
}

func TestParser_LoadFile_ExtensionlessJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "args")
	err := os.WriteFile(path, []byte(`{"zeroize": "zeroize", "host": "r2"}`), 0o600)
	require.NoError(t, err)

	parser := NewParser()
	params, err := parser.LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "zeroize", params.Zeroize)
	assert.Equal(t, "r2", params.Host)
}

func TestParser_LoadFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "args.yaml")
	err := os.WriteFile(path, []byte("zeroize: zeroize\nconsole: \"--telnet=ts1,7001\"\n"), 0o600)
	require.NoError(t, err)

	parser := NewParser()
	params, err := parser.LoadFile(path)

	require.NoError(t, err)
	require.NotNil(t, params.Console)
	assert.Equal(t, "--telnet=ts1,7001", *params.Console)
}

func TestParser_LoadFile_NotFound(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadFile("/nonexistent/args.json")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading arguments file")
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("zeroize", "", "")
	flags.String("host", "", "")
	flags.String("console", "", "")
	flags.String("user", "", "")
	flags.String("passwd", "", "")
	flags.String("logfile", "", "")
	flags.Int("port", DefaultPort, "")
	flags.Duration("timeout", DefaultTimeout, "")
	flags.String("console-tool", DefaultConsoleTool, "")
	return flags
}

func TestParser_BindFlags(t *testing.T) {
	flags := newFlagSet()
	require.NoError(t, flags.Parse([]string{"--zeroize=zeroize", "--host=r3", "--port=22", "--user=lab"}))

	parser := NewParser()
	require.NoError(t, parser.BindFlags(flags))

	params, err := parser.Load()

	require.NoError(t, err)
	assert.Equal(t, "zeroize", params.Zeroize)
	assert.Equal(t, "r3", params.Host)
	assert.Equal(t, 22, params.Port)
	assert.Equal(t, "lab", params.User)
	// Unchanged flags must not count as present.
	assert.Nil(t, params.Console)
	assert.Nil(t, params.Password)
}

func TestParser_BindFlags_ConsoleAndPassword(t *testing.T) {
	flags := newFlagSet()
	require.NoError(t, flags.Parse([]string{"--zeroize=zeroize", "--console=--port=/dev/ttyS0", "--passwd=secret"}))

	parser := NewParser()
	require.NoError(t, parser.BindFlags(flags))

	params, err := parser.Load()

	require.NoError(t, err)
	require.NotNil(t, params.Console)
	assert.Equal(t, "--port=/dev/ttyS0", *params.Console)
	require.NotNil(t, params.Password)
	assert.Equal(t, "secret", *params.Password)
}

func TestParser_BindFlags_FlagsOverrideFile(t *testing.T) {
	flags := newFlagSet()
	require.NoError(t, flags.Parse([]string{"--host=from-flag"}))

	parser := NewParser()
	require.NoError(t, parser.BindFlags(flags))

	params, err := parser.LoadReader("zeroize: zeroize\nhost: from-file\n", "yaml")

	require.NoError(t, err)
	assert.Equal(t, "from-flag", params.Host)
	assert.Equal(t, "zeroize", params.Zeroize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  *models.Params
		wantErr bool
		errMsg  string
	}{
		{
			name:    "nil params",
			params:  nil,
			wantErr: true,
			errMsg:  "parameters are nil",
		},
		{
			name:    "port too low",
			params:  &models.Params{Port: 0, Timeout: time.Second},
			wantErr: true,
			errMsg:  "port must be between 1 and 65535",
		},
		{
			name:    "port too high",
			params:  &models.Params{Port: 70000, Timeout: time.Second},
			wantErr: true,
			errMsg:  "port must be between 1 and 65535",
		},
		{
			name:    "zero timeout",
			params:  &models.Params{Port: 830},
			wantErr: true,
			errMsg:  "timeout must be positive",
		},
		{
			name:    "console without tool",
			params:  &models.Params{Port: 830, Timeout: time.Second, Console: strPtr("--port=/dev/ttyS0")},
			wantErr: true,
			errMsg:  "console_tool is required",
		},
		{
			name:    "valid network params",
			params:  &models.Params{Zeroize: "zeroize", Host: "r1", Port: 830, Timeout: time.Second},
			wantErr: false,
		},
		{
			name:    "safety flag is not checked here",
			params:  &models.Params{Zeroize: "nope", Port: 830, Timeout: time.Second},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
