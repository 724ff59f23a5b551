package main

import (
	"fmt"

	"github.com/fgeck/junos-zeroize/internal/models"
	"github.com/fgeck/junos-zeroize/internal/services/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate parameters",
	Long:  `Validate the parameters without contacting the device.`,
	RunE:  validateParams,
}

func validateParams(cmd *cobra.Command, args []string) error {
	params, err := loadParams(cmd)
	if err != nil {
		log.Error().Err(err).Msg("failed to load parameters")
		return err
	}

	if err := runner.ValidateSafetyFlag(params.Zeroize); err != nil {
		log.Error().Err(err).Msg("parameter validation failed")
		return err
	}

	out := cmd.OutOrStdout()
	mode := runner.SelectMode(*params)

	// Print parameter summary
	fmt.Fprintln(out, "Parameters are valid!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  Mode: %s\n", mode)
	fmt.Fprintf(out, "  User: %s\n", params.User)
	fmt.Fprintf(out, "  Password: %s\n", describeSecret(params.Password))
	fmt.Fprintf(out, "  Log file: %s\n", valueOrNone(params.LogFile))

	if mode == models.ModeNetwork {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "NETCONF Configuration:")
		fmt.Fprintf(out, "  Host: %s\n", valueOrNone(params.Host))
		fmt.Fprintf(out, "  Port: %d\n", params.Port)
		fmt.Fprintf(out, "  Timeout: %s\n", params.Timeout)
		if params.Host == "" {
			fmt.Fprintln(out, "  Warning: no host given, the session will be opened with an empty host")
		}
	} else {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Console Configuration:")
		fmt.Fprintf(out, "  Console: %s\n", *params.Console)
		fmt.Fprintf(out, "  Tool: %s\n", params.ConsoleTool)
	}

	if params.Telegram != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Telegram Configuration:")
		fmt.Fprintf(out, "  Chat ID: %s\n", params.Telegram.ChatID)
		fmt.Fprintf(out, "  Bot Token: (configured)\n")
	}

	return nil
}

func describeSecret(s *string) string {
	if s == nil {
		return "(not set)"
	}
	return "(configured)"
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
