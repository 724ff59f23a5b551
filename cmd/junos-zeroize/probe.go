package main

import (
	"context"
	"fmt"

	"github.com/fgeck/junos-zeroize/internal/services/netconf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test the NETCONF session without zeroizing",
	Long: `Open a NETCONF session to --host, print the session id and the server
capabilities, and close the session again. The zeroize command is never sent.`,
	RunE: probeDevice,
}

func probeDevice(cmd *cobra.Command, args []string) error {
	params, err := loadParams(cmd)
	if err != nil {
		log.Error().Err(err).Msg("failed to load parameters")
		return err
	}

	if params.Console != nil {
		return fmt.Errorf("probe only supports NETCONF, unset --console")
	}

	svc := netconf.New(log.Logger)
	result, err := svc.Probe(context.Background(), params.NetconfConfig())
	if err != nil {
		return err
	}
	if result.Error != nil {
		log.Error().Err(result.Error).Str("host", params.Host).Msg("probe failed")
		return result.Error
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Connected to %s (session %d)\n", params.Host, result.SessionID)
	fmt.Fprintln(out, "Server capabilities:")
	for _, c := range result.Capabilities {
		fmt.Fprintf(out, "  %s\n", c)
	}

	return nil
}
