package main

import (
	"context"
	"fmt"

	"github.com/fgeck/junos-zeroize/internal/models"
	"github.com/fgeck/junos-zeroize/internal/services/capability"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report NETCONF client and console tool availability",
	Long:  `Check both collaborators against their minimum versions without contacting any device.`,
	RunE:  checkCapabilities,
}

func checkCapabilities(cmd *cobra.Command, args []string) error {
	params, err := loadParams(cmd)
	if err != nil {
		log.Error().Err(err).Msg("failed to load parameters")
		return err
	}

	svc := capability.New(log.Logger)
	out := cmd.OutOrStdout()

	var failed bool
	for _, mode := range []models.Mode{models.ModeNetwork, models.ModeConsole} {
		c := svc.Check(context.Background(), mode, params.ConsoleTool)

		status := "ok"
		if !c.Available {
			status = "unavailable: " + c.Reason
			failed = true
		}
		fmt.Fprintf(out, "%-8s %s %s (>= %s) %s\n", mode, c.Name, valueOrNone(c.Version), c.MinVersion, status)
	}

	if failed {
		return fmt.Errorf("some collaborators are unavailable")
	}
	return nil
}
