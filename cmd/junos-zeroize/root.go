package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fgeck/junos-zeroize/internal/config"
	"github.com/fgeck/junos-zeroize/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Configuration flags.
	argsFile   string
	verbose    bool
	quiet      bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "junos-zeroize",
	Short: "Factory-reset (zeroize) a Junos device",
	Long: `junos-zeroize erases all configuration and data on a Junos device and
resets it to factory defaults. The device is reached either:
  - over NETCONF (SSH, default port 830) when no console is given
  - through the netconify console bootstrap tool when --console is set

The run command prints exactly one JSON result ({"changed": ...}) on stdout.
Parameters come from flags, ZEROIZE_* environment variables or an arguments
file (--args, JSON or YAML).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	SilenceUsage: true,
	Version:      Version,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&argsFile, "args", "a", "", "arguments file (JSON or YAML)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode (errors only)")
	flags.BoolVar(&jsonOutput, "json", false, "output logs in JSON format")

	flags.String("zeroize", "", `must be "zeroize" to confirm the reset`)
	flags.String("host", "", "device hostname or address for NETCONF")
	flags.String("console", "", "netconify console specification, e.g. --port=/dev/ttyUSB0")
	flags.String("user", "", "login user (default $USER)")
	flags.String("passwd", "", "login password")
	flags.String("logfile", "", "append progress events to this file")
	flags.Int("port", config.DefaultPort, "NETCONF port")
	flags.Duration("timeout", config.DefaultTimeout, "NETCONF connect timeout")
	flags.String("console-tool", config.DefaultConsoleTool, "console bootstrap program")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(checkCmd)
}

func setupLogging() {
	// stdout carries the result payload
	if jsonOutput {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		output.FormatLevel = func(i interface{}) string {
			if s, ok := i.(string); ok {
				return strings.ToUpper(s)
			}
			return ""
		}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set log level
	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// loadParams merges flags, environment and the optional arguments file.
func loadParams(cmd *cobra.Command) (*models.Params, error) {
	parser := config.NewParser()
	if err := parser.BindFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	var params *models.Params
	var err error
	if argsFile != "" {
		params, err = parser.LoadFile(argsFile)
	} else {
		params, err = parser.Load()
	}
	if err != nil {
		return nil, err
	}

	if err := config.Validate(params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	return params, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
